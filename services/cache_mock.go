package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MockCache is an in-memory Cache for testing. Values go through JSON like they do in Redis.
type MockCache struct {
	values  map[string][]byte
	GetErr  error
	Gets    int
	Hits    int
	Deleted []string
	mu      sync.Mutex
}

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

// Get decodes a stored value
func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Gets++
	if m.GetErr != nil {
		return false, m.GetErr
	}
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	m.Hits++
	return true, json.Unmarshal(raw, dest)
}

// Set stores a value; the TTL is ignored
func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.values[key] = raw
	m.mu.Unlock()
	return nil
}

// Delete removes stored values and records the keys
func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
		m.Deleted = append(m.Deleted, key)
	}
	return nil
}

// Has reports whether key is cached (for testing assertions)
func (m *MockCache) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}
