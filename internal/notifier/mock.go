package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/league-inbox/internal/league"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendResultNotificationFunc func(n ResultNotification, dryRun bool) error
	SendStandingsFunc          func(matchType league.MatchType, standings []league.Standing, dryRun bool) error

	// Call records
	SendResultNotificationCalls []ResultNotificationCall
	SendStandingsCalls          []SendStandingsCall
}

// ResultNotificationCall holds the arguments for a call to SendResultNotification.
type ResultNotificationCall struct {
	Notification ResultNotification
	DryRun       bool
}

// SendStandingsCall holds the arguments for a call to SendStandings.
type SendStandingsCall struct {
	MatchType league.MatchType
	Standings []league.Standing
	DryRun    bool
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = nil
	m.SendStandingsCalls = nil
}

func (m *Mock) SendResultNotification(ctx context.Context, n ResultNotification, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, ResultNotificationCall{Notification: n, DryRun: dryRun})
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(n, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(ctx context.Context, matchType league.MatchType, standings []league.Standing, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, SendStandingsCall{MatchType: matchType, Standings: standings, DryRun: dryRun})
	if m.SendStandingsFunc != nil {
		return m.SendStandingsFunc(matchType, standings, dryRun)
	}
	return nil
}
