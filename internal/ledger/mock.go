package ledger

import (
	"context"
	"sync"
)

// Mock is an in-memory Ledger for testing.
type Mock struct {
	mu       sync.Mutex
	outcomes map[string]string

	SeenFunc  func(ctx context.Context, messageID string) (bool, error)
	MarkFunc  func(ctx context.Context, messageID, outcome string) error
	MarkCalls []MarkCall
}

// MarkCall records one call to Mark.
type MarkCall struct {
	MessageID string
	Outcome   string
}

// NewMock creates an empty ledger mock.
func NewMock() *Mock {
	return &Mock{outcomes: make(map[string]string)}
}

func (m *Mock) Seen(ctx context.Context, messageID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SeenFunc != nil {
		return m.SeenFunc(ctx, messageID)
	}
	_, ok := m.outcomes[messageID]
	return ok, nil
}

func (m *Mock) Mark(ctx context.Context, messageID, outcome string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkCalls = append(m.MarkCalls, MarkCall{MessageID: messageID, Outcome: outcome})
	if m.MarkFunc != nil {
		return m.MarkFunc(ctx, messageID, outcome)
	}
	if _, ok := m.outcomes[messageID]; !ok {
		m.outcomes[messageID] = outcome
	}
	return nil
}

// Outcome returns the stored outcome for messageID.
func (m *Mock) Outcome(messageID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[messageID]
}
