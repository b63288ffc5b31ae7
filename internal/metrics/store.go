package metrics

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

const (
	bumpTallySQL = `INSERT INTO metrics (key, value) VALUES (?, 1)
		ON CONFLICT(key) DO UPDATE SET value = value + 1`
	readTallySQL = `SELECT key, value FROM metrics`
)

// New returns a MetricsStore over the metrics table. Keys are outcome labels
// such as results_recorded or skipped_player_not_found.
func New(db *sql.DB) MetricsStore {
	return &store{db: db}
}

// Increment adds one to the tally for key. Failures are logged and dropped.
func (s *store) Increment(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(bumpTallySQL, key); err != nil {
		log.Error("Failed to bump outcome tally", "key", key, "error", err)
		return
	}
	log.Debug("Bumped outcome tally", "key", key)
}

// GetAll returns every tally keyed by outcome label.
func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(readTallySQL)
	if err != nil {
		return nil, fmt.Errorf("query outcome tallies: %w", err)
	}
	defer rows.Close()

	tallies := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scan outcome tally: %w", err)
		}
		tallies[key] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome tallies: %w", err)
	}
	return tallies, nil
}
