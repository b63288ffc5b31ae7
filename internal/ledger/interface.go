package ledger

import "context"

// Ledger records which notification messages have already been attempted, so
// each message is processed at most once across restarts and replays.
type Ledger interface {
	// Seen reports whether messageID has been marked before.
	Seen(ctx context.Context, messageID string) (bool, error)
	// Mark records the outcome for messageID. Marking an already marked
	// message keeps the first outcome.
	Mark(ctx context.Context, messageID, outcome string) error
}
