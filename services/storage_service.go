package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
)

// ErrFileNotFound is returned by FileStorage.Open when no file is stored under the key
var ErrFileNotFound = errors.New("file not found")

// FileStorage persists flat, already-sanitised file names
type FileStorage interface {
	// Save stores the content under key, replacing any previous file, and returns its location
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)

	// Open returns the stored content for key
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the file stored under key
	Delete(ctx context.Context, key string) error
}

var (
	uploadStorageInstance FileStorage
	exportStorageInstance FileStorage
)

// InitFileStorage initializes upload and export storage for the configured backend
func InitFileStorage(cfg *config.Config) error {
	switch cfg.StorageBackend {
	case "s3":
		client, err := NewS3Client(cfg)
		if err != nil {
			return err
		}
		uploadStorageInstance = NewS3FileStorage(client, cfg.AWSS3Bucket, "uploads")
		exportStorageInstance = NewS3FileStorage(client, cfg.AWSS3Bucket, "exports")
	default:
		uploadStorageInstance = NewLocalFileStorage(cfg.UploadDir)
		exportStorageInstance = NewLocalFileStorage(cfg.ExportDir)
	}

	utils.GetLogger().Info("file storage initialized", zap.String("backend", cfg.StorageBackend))
	return nil
}

// GetUploadStorage returns the storage for professional credential uploads
func GetUploadStorage() FileStorage {
	return uploadStorageInstance
}

// SetUploadStorage sets the upload storage (primarily for testing)
func SetUploadStorage(storage FileStorage) {
	uploadStorageInstance = storage
}

// GetExportStorage returns the storage for CSV exports
func GetExportStorage() FileStorage {
	return exportStorageInstance
}

// SetExportStorage sets the export storage (primarily for testing)
func SetExportStorage(storage FileStorage) {
	exportStorageInstance = storage
}

// LocalFileStorage keeps files in a directory on the local filesystem
type LocalFileStorage struct {
	dir string
}

// NewLocalFileStorage creates a storage rooted at dir
func NewLocalFileStorage(dir string) *LocalFileStorage {
	return &LocalFileStorage{dir: dir}
}

// Save writes the content to <dir>/<key>, overwriting an existing file with the same key
func (s *LocalFileStorage) Save(ctx context.Context, key string, r io.Reader, contentType string) (location string, err error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return path, nil
}

// Open opens <dir>/<key> for reading
func (s *LocalFileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes <dir>/<key>; a missing file is not an error
func (s *LocalFileStorage) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalFileStorage) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
