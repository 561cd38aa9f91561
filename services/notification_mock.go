package services

import (
	"context"
	"errors"
	"sync"
)

// MockNotifier records notifications instead of delivering them
type MockNotifier struct {
	mu   sync.Mutex
	sent []Notification
	// FailFor makes delivery to the listed recipients fail
	FailFor map[string]bool
	// Err, when set, fails every delivery
	Err error
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{FailFor: make(map[string]bool)}
}

// Notify records n or fails as configured
func (m *MockNotifier) Notify(ctx context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if m.FailFor[n.To] {
		return errors.New("mock delivery failure")
	}
	m.sent = append(m.sent, n)
	return nil
}

// Sent returns the delivered notifications in order
func (m *MockNotifier) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Notification, len(m.sent))
	copy(out, m.sent)
	return out
}
