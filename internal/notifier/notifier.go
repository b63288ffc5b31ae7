package notifier

import (
	"context"

	"github.com/mauv0809/league-inbox/internal/league"
)

// ResultNotification describes a freshly recorded match result. Player1 is the
// first player named in the notification.
type ResultNotification struct {
	MatchType league.MatchType
	Player1   league.Player
	Player2   league.Player
	Result    league.Result
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendResultNotification(ctx context.Context, n ResultNotification, dryRun bool) error
	SendStandings(ctx context.Context, matchType league.MatchType, standings []league.Standing, dryRun bool) error
}
