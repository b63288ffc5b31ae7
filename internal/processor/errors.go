package processor

import (
	"context"
	"errors"

	"github.com/mauv0809/league-inbox/internal/extract"
	"github.com/mauv0809/league-inbox/internal/league"
)

// ErrDuplicateMessage marks a message the ledger has already seen.
var ErrDuplicateMessage = errors.New("message already processed")

var reasons = []struct {
	err    error
	reason string
}{
	{ErrDuplicateMessage, "duplicate_message"},
	{extract.ErrIdentifierNotFound, "identifier_not_found"},
	{league.ErrMatchTypeNotFound, "match_type_not_found"},
	{extract.ErrSubjectNoMatch, "subject_no_match"},
	{extract.ErrMalformedFragment, "malformed_fragment"},
	{league.ErrPlayerNotFound, "player_not_found"},
	{league.ErrFixtureNotFound, "fixture_not_found"},
	{league.ErrFixtureAlreadyCompleted, "fixture_already_completed"},
	{league.ErrWriteFailed, "write_failed"},
	{context.Canceled, "cancelled"},
	{context.DeadlineExceeded, "cancelled"},
}

// Reason maps a pipeline error to a stable snake_case label used in logs,
// metric labels and the persistent tally.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "internal_error"
}

// expected reports whether err describes a problem with the message itself
// rather than with the store or the process.
func expected(err error) bool {
	switch Reason(err) {
	case "write_failed", "internal_error", "cancelled":
		return false
	}
	return true
}
