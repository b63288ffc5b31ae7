package extract

import "errors"

var (
	// ErrIdentifierNotFound means no strategy could find a match-type token in the message.
	ErrIdentifierNotFound = errors.New("match type identifier not found")
	// ErrSubjectNoMatch means the subject is not a played-match notification.
	ErrSubjectNoMatch = errors.New("subject does not describe a played match")
	// ErrMalformedFragment means a stat fragment could not be decoded into four numbers.
	ErrMalformedFragment = errors.New("malformed stat fragment")
)
