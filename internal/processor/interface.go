package processor

import (
	"context"

	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/notifier"
)

// Store defines the registry and fixture operations required by the processor.
type Store interface {
	MatchTypeByIdentifier(ctx context.Context, identifier string) (league.MatchType, error)
	PlayerByNickname(ctx context.Context, nickname string) (league.Player, error)
	FindFixture(ctx context.Context, matchTypeID, player1ID, player2ID int64) (league.Fixture, error)
	RecordResult(ctx context.Context, fixture league.Fixture, result league.Result) (league.Result, error)
}

// Notifier announces recorded results.
type Notifier interface {
	notifier.Notifier
}
