package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is 16MB in bytes
	MaxFileSize = 16 * 1024 * 1024
)

// AllowedExtensions lists the credential document extensions professionals may upload
var AllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "pdf"}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"pdf":  "application/pdf",
	"csv":  "text/csv",
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// AllowedFile reports whether filename carries one of AllowedExtensions
func AllowedFile(filename string) bool {
	ext := extension(filename)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateCredentialFile validates the uploaded credential document's format and size
func ValidateCredentialFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if !AllowedFile(fileHeader.Filename) {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Invalid file format! Only %s files are allowed", strings.Join(AllowedExtensions, ", ")),
		}
	}

	return nil
}

// CredentialFilename returns the storage name for an uploaded credential. When sanitising
// leaves no base name or drops the extension, a generated base name is used with the
// original extension. It returns "" for names without an allowed extension.
func CredentialFilename(original string) string {
	if !AllowedFile(original) {
		return ""
	}
	name := SanitizeFilename(original)
	if AllowedFile(name) && strings.TrimSuffix(name, filepath.Ext(name)) != "" {
		return name
	}
	return uuid.NewString() + "." + extension(original)
}

// SanitizeFilename reduces an uploaded file name to a flat, ASCII-only name that is
// safe to use as a storage key. It returns "" when nothing usable is left.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" || name == "." {
		return ""
	}
	return name
}

// ContentTypeFor returns the MIME type for a stored file name
func ContentTypeFor(filename string) string {
	if ct, ok := contentTypes[extension(filename)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// GetFileURL returns the URL path for downloading an uploaded file
func GetFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return fmt.Sprintf("/api/v1/files/%s", filename)
}

func extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
