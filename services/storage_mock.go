package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MockFileStorage is an in-memory FileStorage for testing
type MockFileStorage struct {
	files   map[string][]byte
	SaveErr error
	mu      sync.RWMutex
}

// NewMockFileStorage creates a new mock file storage
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{files: make(map[string][]byte)}
}

// Save stores the content in memory
func (m *MockFileStorage) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()

	return "mock://" + key, nil
}

// Open returns the stored content
func (m *MockFileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.RLock()
	content, exists := m.files[key]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// Delete removes the stored content
func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.files, key)
	m.mu.Unlock()
	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockFileStorage) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[key]
	return exists
}

// Content returns the stored content for key (for testing assertions)
func (m *MockFileStorage) Content(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[key]
}

// Files returns the stored keys (for testing assertions)
func (m *MockFileStorage) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.files))
	for k := range m.files {
		keys = append(keys, k)
	}
	return keys
}
