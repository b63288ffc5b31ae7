package league

import (
	"context"
	"sync"
)

// MockStore is a mock implementation of the LeagueStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	MatchTypeByIdentifierFunc func(ctx context.Context, identifier string) (MatchType, error)
	MatchTypeByIDFunc         func(ctx context.Context, id int64) (MatchType, error)
	PlayerByNicknameFunc      func(ctx context.Context, nickname string) (Player, error)
	FindFixtureFunc           func(ctx context.Context, matchTypeID, player1ID, player2ID int64) (Fixture, error)
	RecordResultFunc          func(ctx context.Context, fixture Fixture, result Result) (Result, error)
	ResultsForFixtureFunc     func(ctx context.Context, fixtureID int64) ([]Result, error)
	ListResultsFunc           func(ctx context.Context, matchTypeID int64) ([]Result, error)
	RemainingFixturesFunc     func(ctx context.Context, matchTypeID int64) ([]Fixture, error)
	StandingsFunc             func(ctx context.Context, matchTypeID int64) ([]Standing, error)
	AddPlayerFunc             func(ctx context.Context, name, nickname, email string) (int64, error)
	AddMatchTypeFunc          func(ctx context.Context, title, identifier string, active bool) (int64, error)
	GenerateFixturesFunc      func(ctx context.Context, matchTypeID int64, playerIDs []int64) (int, error)

	// Call records
	PlayerByNicknameCalls []string
	FindFixtureCalls      []struct {
		MatchTypeID, Player1ID, Player2ID int64
	}
	RecordResultCalls []struct {
		Fixture Fixture
		Result  Result
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerByNicknameCalls = nil
	m.FindFixtureCalls = nil
	m.RecordResultCalls = nil
}

func (m *MockStore) MatchTypeByIdentifier(ctx context.Context, identifier string) (MatchType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MatchTypeByIdentifierFunc != nil {
		return m.MatchTypeByIdentifierFunc(ctx, identifier)
	}
	return MatchType{}, ErrMatchTypeNotFound
}

func (m *MockStore) MatchTypeByID(ctx context.Context, id int64) (MatchType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MatchTypeByIDFunc != nil {
		return m.MatchTypeByIDFunc(ctx, id)
	}
	return MatchType{}, ErrMatchTypeNotFound
}

func (m *MockStore) PlayerByNickname(ctx context.Context, nickname string) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayerByNicknameCalls = append(m.PlayerByNicknameCalls, nickname)
	if m.PlayerByNicknameFunc != nil {
		return m.PlayerByNicknameFunc(ctx, nickname)
	}
	return Player{}, ErrPlayerNotFound
}

func (m *MockStore) FindFixture(ctx context.Context, matchTypeID, player1ID, player2ID int64) (Fixture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindFixtureCalls = append(m.FindFixtureCalls, struct {
		MatchTypeID, Player1ID, Player2ID int64
	}{matchTypeID, player1ID, player2ID})
	if m.FindFixtureFunc != nil {
		return m.FindFixtureFunc(ctx, matchTypeID, player1ID, player2ID)
	}
	return Fixture{}, ErrFixtureNotFound
}

func (m *MockStore) RecordResult(ctx context.Context, fixture Fixture, result Result) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordResultCalls = append(m.RecordResultCalls, struct {
		Fixture Fixture
		Result  Result
	}{fixture, result})
	if m.RecordResultFunc != nil {
		return m.RecordResultFunc(ctx, fixture, result)
	}
	result.FixtureID = fixture.ID
	result.MatchTypeID = fixture.MatchTypeID
	return result, nil
}

func (m *MockStore) ResultsForFixture(ctx context.Context, fixtureID int64) ([]Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ResultsForFixtureFunc != nil {
		return m.ResultsForFixtureFunc(ctx, fixtureID)
	}
	return nil, nil
}

func (m *MockStore) ListResults(ctx context.Context, matchTypeID int64) ([]Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(ctx, matchTypeID)
	}
	return nil, nil
}

func (m *MockStore) RemainingFixtures(ctx context.Context, matchTypeID int64) ([]Fixture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemainingFixturesFunc != nil {
		return m.RemainingFixturesFunc(ctx, matchTypeID)
	}
	return nil, nil
}

func (m *MockStore) Standings(ctx context.Context, matchTypeID int64) ([]Standing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StandingsFunc != nil {
		return m.StandingsFunc(ctx, matchTypeID)
	}
	return nil, nil
}

func (m *MockStore) AddPlayer(ctx context.Context, name, nickname, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(ctx, name, nickname, email)
	}
	return 0, nil
}

func (m *MockStore) AddMatchType(ctx context.Context, title, identifier string, active bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddMatchTypeFunc != nil {
		return m.AddMatchTypeFunc(ctx, title, identifier, active)
	}
	return 0, nil
}

func (m *MockStore) GenerateFixtures(ctx context.Context, matchTypeID int64, playerIDs []int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GenerateFixturesFunc != nil {
		return m.GenerateFixturesFunc(ctx, matchTypeID, playerIDs)
	}
	return 0, nil
}
