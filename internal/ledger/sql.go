package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

var _ Ledger = (*SQLLedger)(nil)

// NewSQL creates a ledger on an already migrated database.
func NewSQL(db *sql.DB) *SQLLedger {
	return &SQLLedger{db: db, now: time.Now}
}

func (l *SQLLedger) Seen(ctx context.Context, messageID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var outcome string
	err := l.db.QueryRowContext(ctx, `SELECT outcome FROM processed_messages WHERE message_id = ?`, messageID).Scan(&outcome)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up message %s: %w", messageID, err)
	}
	return true, nil
}

func (l *SQLLedger) Mark(ctx context.Context, messageID, outcome string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO processed_messages (message_id, outcome, processed_at) VALUES (?, ?, ?)
		ON CONFLICT(message_id) DO NOTHING
	`, messageID, outcome, l.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to mark message %s: %w", messageID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug("Message already marked", "message_id", messageID)
	}
	return nil
}

// Outcomes returns the stored outcome per message id.
func (l *SQLLedger) Outcomes(ctx context.Context) (map[string]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx, `SELECT message_id, outcome FROM processed_messages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var id, outcome string
		if err := rows.Scan(&id, &outcome); err != nil {
			return nil, err
		}
		out[id] = outcome
	}
	return out, rows.Err()
}
