package mailbox

import (
	"context"
	"time"
)

// Address is one recipient as it appears in a message envelope.
type Address struct {
	Mailbox string // local part, e.g. "league+sort4"
	Host    string // domain, e.g. "example.com"
}

// String renders the address as mailbox@host.
func (a Address) String() string {
	if a.Host == "" {
		return a.Mailbox
	}
	return a.Mailbox + "@" + a.Host
}

// Message is a single notification pulled from a mailbox. It is read-only for
// the rest of the pipeline.
type Message struct {
	ID         string
	Subject    string
	Recipients []Address
	Body       string
	Date       time.Time
	// UID identifies the message on an IMAP server; zero for other sources.
	UID uint32
}

// Source lists notifications that have not been processed yet.
type Source interface {
	// ListUnseen returns every unseen message whose subject contains
	// subjectFilter. Listing does not change the seen state.
	ListUnseen(ctx context.Context, subjectFilter string) ([]Message, error)
	// MarkSeen records that msg was handled so it is not listed again.
	MarkSeen(ctx context.Context, msg Message) error
	Close() error
}
