package league

import "errors"

var (
	ErrMatchTypeNotFound       = errors.New("match type not found")
	ErrPlayerNotFound          = errors.New("player not found")
	ErrFixtureNotFound         = errors.New("fixture not found")
	ErrFixtureAlreadyCompleted = errors.New("fixture already completed")
	// ErrWriteFailed means a result could not be committed. The transaction is
	// rolled back, so neither the result row nor the completed flag is applied.
	ErrWriteFailed = errors.New("failed to record result")
)
