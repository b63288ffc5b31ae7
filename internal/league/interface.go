package league

import "context"

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	MatchTypeByIdentifier(ctx context.Context, identifier string) (MatchType, error)
	MatchTypeByID(ctx context.Context, id int64) (MatchType, error)
	PlayerByNickname(ctx context.Context, nickname string) (Player, error)
	FindFixture(ctx context.Context, matchTypeID, player1ID, player2ID int64) (Fixture, error)
	RecordResult(ctx context.Context, fixture Fixture, result Result) (Result, error)
	ResultsForFixture(ctx context.Context, fixtureID int64) ([]Result, error)
	ListResults(ctx context.Context, matchTypeID int64) ([]Result, error)
	RemainingFixtures(ctx context.Context, matchTypeID int64) ([]Fixture, error)
	Standings(ctx context.Context, matchTypeID int64) ([]Standing, error)
	AddPlayer(ctx context.Context, name, nickname, email string) (int64, error)
	AddMatchType(ctx context.Context, title, identifier string, active bool) (int64, error)
	GenerateFixtures(ctx context.Context, matchTypeID int64, playerIDs []int64) (int, error)
}
