package mailbox

import (
	"context"
	"sync"
)

// MockSource is a mock implementation of the Source interface for testing.
// It is safe for concurrent use.
type MockSource struct {
	mu sync.Mutex

	// Spies for method calls
	ListUnseenFunc func(ctx context.Context, subjectFilter string) ([]Message, error)
	MarkSeenFunc   func(ctx context.Context, msg Message) error

	// Call records
	ListUnseenCalls []string
	MarkSeenCalls   []string
	Closed          bool
}

// NewMock creates a new mock instance. Without ListUnseenFunc every call
// returns the given batches in turn, then nothing.
func NewMock(batches ...[]Message) *MockSource {
	m := &MockSource{}
	m.ListUnseenFunc = func(ctx context.Context, subjectFilter string) ([]Message, error) {
		if len(batches) == 0 {
			return nil, nil
		}
		next := batches[0]
		batches = batches[1:]
		return next, nil
	}
	return m
}

func (m *MockSource) ListUnseen(ctx context.Context, subjectFilter string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListUnseenCalls = append(m.ListUnseenCalls, subjectFilter)
	if m.ListUnseenFunc != nil {
		return m.ListUnseenFunc(ctx, subjectFilter)
	}
	return nil, nil
}

func (m *MockSource) MarkSeen(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkSeenCalls = append(m.MarkSeenCalls, msg.ID)
	if m.MarkSeenFunc != nil {
		return m.MarkSeenFunc(ctx, msg)
	}
	return nil
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
