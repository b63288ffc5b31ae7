package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mauv0809/league-inbox/internal/config"
	"github.com/mauv0809/league-inbox/internal/database"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/ledger"
	"github.com/mauv0809/league-inbox/internal/mailbox"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/notifier"
	"github.com/mauv0809/league-inbox/internal/processor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playedSubject = "Admin: A league match was played between Alice (10 8 55.5 -2.1) and Bob (7 8 60.0 1.0)"

type testServer struct {
	*Server
	db       *sql.DB
	notifier *notifier.Mock
}

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, batches ...[]mailbox.Message) *testServer {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	_, err = db.Exec(`INSERT INTO players (id, name, nickname) VALUES (1, 'Alice A', 'Alice'), (2, 'Bob B', 'Bob')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO match_types (id, title, identifier) VALUES (3, 'Sorting 4', 'sort4')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO fixtures (id, match_type_id, player1_id, player2_id) VALUES (10, 3, 1, 2)`)
	require.NoError(t, err)

	store := league.New(db)
	tally := metrics.New(db)
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	notif := notifier.NewMock()
	proc := processor.New(mailbox.NewMock(batches...), store, ledger.NewSQL(db), tally, notif, nil, metricsSvc, processor.Config{
		SubjectFilter: "Admin: A league match was played",
		PollInterval:  time.Minute,
		RunBudget:     time.Hour,
	})

	server := NewServer(store, tally, metrics.NewMetricsHandler(reg), config.Config{}, notif, proc)
	return &testServer{Server: server, db: db, notifier: notif}
}

func (s *testServer) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func playedMessage(id string) mailbox.Message {
	return mailbox.Message{
		ID:         id,
		Subject:    playedSubject,
		Recipients: []mailbox.Address{{Mailbox: "league+sort4", Host: "example.com"}},
	}
}

func TestHealthCheckHandler(t *testing.T) {
	s := setupTestServer(t)
	rec := s.do(http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestProcessHandler(t *testing.T) {
	t.Run("records results and reports the cycle", func(t *testing.T) {
		s := setupTestServer(t, []mailbox.Message{playedMessage("<a@example.com>")})

		rec := s.do(http.MethodPost, "/process")
		require.Equal(t, http.StatusOK, rec.Code)

		var summary processor.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, 1, summary.Seen)
		assert.Equal(t, 1, summary.Recorded)
		assert.False(t, summary.DryRun)

		results := s.do(http.MethodGet, "/results?match_type=3")
		require.Equal(t, http.StatusOK, results.Code)
		var recorded []league.Result
		require.NoError(t, json.Unmarshal(results.Body.Bytes(), &recorded))
		require.Len(t, recorded, 1)
		assert.Equal(t, 8, recorded[0].Player1Points)
		assert.Equal(t, "<a@example.com>", recorded[0].MessageID)

		stats := s.do(http.MethodGet, "/stats")
		var tally map[string]int
		require.NoError(t, json.Unmarshal(stats.Body.Bytes(), &tally))
		assert.Equal(t, 1, tally["results_recorded"])
		assert.Equal(t, 1, tally["poll_cycles"])

		metricsRec := s.do(http.MethodGet, "/metrics")
		assert.Contains(t, metricsRec.Body.String(), "league_inbox_results_recorded_total 1")
	})

	t.Run("dry run query parameter", func(t *testing.T) {
		s := setupTestServer(t, []mailbox.Message{playedMessage("<b@example.com>")})

		rec := s.do(http.MethodPost, "/process?dry_run=true")
		require.Equal(t, http.StatusOK, rec.Code)
		var summary processor.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.True(t, summary.DryRun)

		remaining := s.do(http.MethodGet, "/fixtures/remaining?match_type=3")
		var fixtures []league.Fixture
		require.NoError(t, json.Unmarshal(remaining.Body.Bytes(), &fixtures))
		assert.Len(t, fixtures, 1, "dry run must leave the fixture open")
	})

	t.Run("GET is not allowed", func(t *testing.T) {
		s := setupTestServer(t)
		rec := s.do(http.MethodGet, "/process")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestStandingsHandlers(t *testing.T) {
	s := setupTestServer(t, []mailbox.Message{playedMessage("<c@example.com>")})
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/process").Code)

	t.Run("standings", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/standings?match_type=3")
		require.Equal(t, http.StatusOK, rec.Code)
		var standings []league.Standing
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &standings))
		require.Len(t, standings, 2)
		assert.Equal(t, "Alice", standings[0].Nickname)
		assert.Equal(t, 1, standings[0].Won)
	})

	t.Run("empty match type returns an empty list", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/results?match_type=42")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("results of a fixture", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/fixtures/10/results")
		require.Equal(t, http.StatusOK, rec.Code)
		var results []league.Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		require.Len(t, results, 1)
		assert.Equal(t, int64(10), results[0].FixtureID)
		assert.Equal(t, "<c@example.com>", results[0].MessageID)
	})

	t.Run("results of an unplayed fixture", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/fixtures/99/results")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("invalid fixture id", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/fixtures/abc/results")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid match type", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/standings?match_type=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("announce", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/standings/announce?match_type=3&dry_run=true")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Standings for Sorting 4 sent!", rec.Body.String())
		require.Len(t, s.notifier.SendStandingsCalls, 1)
		call := s.notifier.SendStandingsCalls[0]
		assert.True(t, call.DryRun)
		assert.Equal(t, "sort4", call.MatchType.Identifier)
		assert.Len(t, call.Standings, 2)
	})

	t.Run("announce unknown match type", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/standings/announce?match_type=9")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("announce failure", func(t *testing.T) {
		s.notifier.SendStandingsFunc = func(league.MatchType, []league.Standing, bool) error {
			return errors.New("slack down")
		}
		rec := s.do(http.MethodPost, "/standings/announce?match_type=3")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
