package services

import (
	"context"
	"fmt"
	"sync"
)

// MockTaskQueue records queued exports without running them
type MockTaskQueue struct {
	mu         sync.Mutex
	Exports    []uint
	EnqueueErr error
}

// NewMockTaskQueue creates a new mock task queue
func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{}
}

// EnqueueExport records the professional id
func (m *MockTaskQueue) EnqueueExport(ctx context.Context, professionalID uint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EnqueueErr != nil {
		return "", m.EnqueueErr
	}
	m.Exports = append(m.Exports, professionalID)
	return fmt.Sprintf("mock-task-%d", len(m.Exports)), nil
}
