package metrics

import (
	"sync"
	"testing"

	"github.com/mauv0809/league-inbox/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (MetricsStore, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	return New(db), teardown
}

func TestIncrementAndGetAll(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	// 1. Initially, there should be no metrics
	metrics, err := store.GetAll()
	require.NoError(t, err)
	assert.Empty(t, metrics)

	// 2. Increment a new key
	store.Increment("results_recorded")
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"results_recorded": 1}, metrics)

	// 3. Increment the same key again
	store.Increment("results_recorded")
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"results_recorded": 2}, metrics)

	// 4. Increment a different key
	store.Increment("skipped_player_not_found")
	metrics, err = store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"results_recorded":         2,
		"skipped_player_not_found": 1,
	}, metrics)
}

func TestIncrementConcurrent(t *testing.T) {
	store, teardown := setupTestDB(t)
	defer teardown()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Increment("poll_cycles")
		}()
	}
	wg.Wait()

	metrics, err := store.GetAll()
	require.NoError(t, err)
	assert.Equal(t, 20, metrics["poll_cycles"])
}

func TestGetAllOnClosedDatabase(t *testing.T) {
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	store := New(db)
	store.Increment("poll_cycles")
	teardown()

	store.Increment("poll_cycles")
	metrics, err := store.GetAll()
	assert.Error(t, err)
	assert.Nil(t, metrics)
}

func TestTallyMock(t *testing.T) {
	var tally MetricsStore = NewTallyMock()
	tally.Increment("a")
	tally.Increment("a")
	all, err := tally.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2}, all)
}
