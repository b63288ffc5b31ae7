package league_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/mauv0809/league-inbox/internal/database"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return league.New(db), db, dbTeardown
}

// seedPair registers Alice (1), Bob (2), match type sort4 (3) and a fixture
// stored as (Alice, Bob).
func seedPair(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO players (id, name, nickname) VALUES (1, 'Alice A', 'Alice'), (2, 'Bob B', 'Bob')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_types (id, title, identifier) VALUES (3, 'Sorting 4', 'sort4')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO fixtures (id, match_type_id, player1_id, player2_id) VALUES (10, 3, 1, 2)`)
	require.NoError(t, err)
}

func sampleResult() league.Result {
	return league.Result{
		Player1ID:     1,
		Player2ID:     2,
		Player1Points: 8,
		Player2Points: 7,
		Player1PR:     55.5,
		Player2PR:     60.0,
		Player1Luck:   -2.1,
		Player2Luck:   1.0,
		GameLength:    8,
		MessageID:     "<abc@example.com>",
	}
}

func TestRegistryLookups(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedPair(t, db)
	ctx := context.Background()

	mt, err := store.MatchTypeByIdentifier(ctx, "sort4")
	require.NoError(t, err)
	assert.Equal(t, int64(3), mt.ID)
	assert.True(t, mt.Active)

	byID, err := store.MatchTypeByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, mt, byID)

	_, err = store.MatchTypeByID(ctx, 99)
	assert.ErrorIs(t, err, league.ErrMatchTypeNotFound)

	_, err = store.MatchTypeByIdentifier(ctx, "sort9")
	assert.ErrorIs(t, err, league.ErrMatchTypeNotFound)

	p, err := store.PlayerByNickname(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)
	assert.Equal(t, "Bob B", p.Name)

	_, err = store.PlayerByNickname(ctx, "Carol")
	assert.ErrorIs(t, err, league.ErrPlayerNotFound)
}

func TestFindFixture(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedPair(t, db)
	ctx := context.Background()

	t.Run("either player order resolves the same fixture", func(t *testing.T) {
		ab, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)
		ba, err := store.FindFixture(ctx, 3, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
		assert.Equal(t, int64(10), ab.ID)
		assert.False(t, ab.Completed)
	})

	t.Run("wrong match type is not found", func(t *testing.T) {
		_, err := store.FindFixture(ctx, 4, 1, 2)
		assert.ErrorIs(t, err, league.ErrFixtureNotFound)
	})

	t.Run("duplicate fixtures prefer the incomplete one", func(t *testing.T) {
		_, err := db.Exec(`UPDATE fixtures SET completed = 1 WHERE id = 10`)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO fixtures (id, match_type_id, player1_id, player2_id) VALUES (11, 3, 2, 1), (12, 3, 1, 2)`)
		require.NoError(t, err)

		f, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(11), f.ID)
	})
}

func TestRecordResult(t *testing.T) {
	ctx := context.Background()

	t.Run("records once and completes the fixture", func(t *testing.T) {
		store, db, teardown := setupTestDB(t)
		defer teardown()
		seedPair(t, db)

		fixture, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)

		recorded, err := store.RecordResult(ctx, fixture, sampleResult())
		require.NoError(t, err)
		assert.NotZero(t, recorded.ID)
		assert.Equal(t, int64(10), recorded.FixtureID)
		assert.Equal(t, int64(3), recorded.MatchTypeID)
		assert.False(t, recorded.RecordedAt.IsZero())

		after, err := store.FindFixture(ctx, 3, 2, 1)
		require.NoError(t, err)
		assert.True(t, after.Completed)

		results, err := store.ResultsForFixture(ctx, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 8, results[0].Player1Points)
		assert.Equal(t, 7, results[0].Player2Points)
		assert.Equal(t, -2.1, results[0].Player1Luck)
		assert.Equal(t, "<abc@example.com>", results[0].MessageID)
	})

	t.Run("repeat recording yields already completed and no new rows", func(t *testing.T) {
		store, db, teardown := setupTestDB(t)
		defer teardown()
		seedPair(t, db)

		fixture, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)
		_, err = store.RecordResult(ctx, fixture, sampleResult())
		require.NoError(t, err)

		// Same stale snapshot: the conditional update catches it.
		_, err = store.RecordResult(ctx, fixture, sampleResult())
		assert.ErrorIs(t, err, league.ErrFixtureAlreadyCompleted)

		// Fresh snapshot: the precondition catches it.
		fresh, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)
		_, err = store.RecordResult(ctx, fresh, sampleResult())
		assert.ErrorIs(t, err, league.ErrFixtureAlreadyCompleted)

		results, err := store.ResultsForFixture(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("concurrent recorders produce exactly one result", func(t *testing.T) {
		store, db, teardown := setupTestDB(t)
		defer teardown()
		seedPair(t, db)

		fixture, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 5)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = store.RecordResult(ctx, fixture, sampleResult())
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, league.ErrFixtureAlreadyCompleted)
		}
		assert.Equal(t, 1, successes)

		results, err := store.ResultsForFixture(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("unknown fixture is reported", func(t *testing.T) {
		store, _, teardown := setupTestDB(t)
		defer teardown()

		_, err := store.RecordResult(ctx, league.Fixture{ID: 99, MatchTypeID: 3}, sampleResult())
		assert.ErrorIs(t, err, league.ErrFixtureNotFound)
	})

	t.Run("failed insert rolls back the completed flag", func(t *testing.T) {
		store, db, teardown := setupTestDB(t)
		defer teardown()
		seedPair(t, db)

		fixture, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)

		bad := sampleResult()
		bad.Player2ID = 404 // violates the players foreign key
		_, err = store.RecordResult(ctx, fixture, bad)
		assert.ErrorIs(t, err, league.ErrWriteFailed)

		after, err := store.FindFixture(ctx, 3, 1, 2)
		require.NoError(t, err)
		assert.False(t, after.Completed, "fixture must stay open when the result row was not written")
	})
}

func TestGenerateFixtures(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	mt, err := store.AddMatchType(ctx, "2025 Series 2 League A", "s2a", true)
	require.NoError(t, err)

	var ids []int64
	for _, nick := range []string{"Alice", "Bob", "Carol", "Dave"} {
		id, err := store.AddPlayer(ctx, nick+" Surname", nick, "")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	created, err := store.GenerateFixtures(ctx, mt, ids)
	require.NoError(t, err)
	assert.Equal(t, 6, created)

	// Re-running with the order reversed creates nothing new.
	reversed := []int64{ids[3], ids[2], ids[1], ids[0]}
	created, err = store.GenerateFixtures(ctx, mt, reversed)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	remaining, err := store.RemainingFixtures(ctx, mt)
	require.NoError(t, err)
	assert.Len(t, remaining, 6)

	_, err = store.GenerateFixtures(ctx, mt, ids[:1])
	assert.Error(t, err)
}

func TestStandings(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()
	seedPair(t, db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO players (id, name, nickname) VALUES (5, 'Carol C', 'Carol')`)
	require.NoError(t, err)
	created, err := store.GenerateFixtures(ctx, 3, []int64{1, 2, 5})
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	record := func(p1, p2 int64, pts1, pts2 int) {
		f, err := store.FindFixture(ctx, 3, p1, p2)
		require.NoError(t, err)
		_, err = store.RecordResult(ctx, f, league.Result{
			Player1ID: p1, Player2ID: p2,
			Player1Points: pts1, Player2Points: pts2,
			Player1PR: 5, Player2PR: 7,
			GameLength: 7,
		})
		require.NoError(t, err)
	}
	record(1, 2, 7, 3) // Alice beats Bob
	record(5, 1, 7, 6) // Carol beats Alice
	record(2, 5, 7, 1) // Bob beats Carol

	standings, err := store.Standings(ctx, 3)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	// All on one win; ordered by points difference: Alice +3, Bob +2, Carol -5.
	assert.Equal(t, "Alice", standings[0].Nickname)
	assert.Equal(t, 1, standings[0].Won)
	assert.Equal(t, 1, standings[0].Lost)
	assert.Equal(t, 13, standings[0].PointsFor)
	assert.Equal(t, 10, standings[0].PointsAgainst)
	assert.Equal(t, "Bob", standings[1].Nickname)
	assert.Equal(t, "Carol", standings[2].Nickname)
	assert.Equal(t, 2, standings[2].Played)
	assert.InDelta(t, 6.0, standings[2].AveragePR, 0.0001)

	remaining, err := store.RemainingFixtures(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
