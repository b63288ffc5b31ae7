package mailbox

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
)

// imapClient is the subset of *client.Client used by IMAPSource. It keeps the
// source testable without a live server.
type imapClient interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	UidStore(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	Logout() error
}

// IMAPConfig holds what is needed to reach the notification mailbox.
type IMAPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Mailbox  string
}

// IMAPSource lists notifications from an IMAP mailbox. Bodies are fetched with
// BODY.PEEK so listing never changes flags; MarkSeen sets \Seen once a message
// has been dealt with.
type IMAPSource struct {
	client  imapClient
	mailbox string
	// dial re-establishes the session when the server has dropped it. Nil
	// disables reconnecting.
	dial func() (imapClient, error)
}

var _ Source = (*IMAPSource)(nil)

// DialIMAP connects over TLS and logs in. A failure here is a startup failure.
func DialIMAP(cfg IMAPConfig) (*IMAPSource, error) {
	dial := func() (imapClient, error) {
		addr := cfg.Host + ":" + strconv.Itoa(cfg.Port)
		log.Info("Connecting to mail server", "addr", addr, "user", cfg.User)
		c, err := client.DialTLS(addr, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mail server %s: %w", addr, err)
		}
		if err := c.Login(cfg.User, cfg.Password); err != nil {
			c.Logout()
			return nil, fmt.Errorf("failed to log in as %s: %w", cfg.User, err)
		}
		return c, nil
	}
	c, err := dial()
	if err != nil {
		return nil, err
	}
	src := NewIMAPSource(c, cfg.Mailbox)
	src.dial = dial
	return src, nil
}

// NewIMAPSource wraps an already authenticated client.
func NewIMAPSource(c imapClient, mailbox string) *IMAPSource {
	if mailbox == "" {
		mailbox = "INBOX"
	}
	return &IMAPSource{client: c, mailbox: mailbox}
}

// ListUnseen searches for UNSEEN messages whose subject contains subjectFilter
// and fetches them without marking them read. When the fetch fails part way
// the messages already received are returned along with the error.
func (s *IMAPSource) ListUnseen(ctx context.Context, subjectFilter string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.selectMailbox(); err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	if subjectFilter != "" {
		criteria.Header.Add("Subject", subjectFilter)
	}
	uids, err := s.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search mailbox %s: %w", s.mailbox, err)
	}
	log.Debug("Searched mailbox", "mailbox", s.mailbox, "filter", subjectFilter, "found", len(uids))
	if len(uids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, imap.FetchEnvelope, section.FetchItem()}

	fetched := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- s.client.UidFetch(seqset, items, fetched)
	}()

	var messages []Message
	for m := range fetched {
		msg, err := fromIMAP(m, section)
		if err != nil {
			log.Warn("Skipping unreadable message", "uid", m.Uid, "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	if err := <-done; err != nil {
		return messages, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// MarkSeen flags msg \Seen so later searches skip it.
func (s *IMAPSource) MarkSeen(ctx context.Context, msg Message) error {
	if msg.UID == 0 {
		return fmt.Errorf("message %s has no uid", msg.ID)
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(msg.UID)
	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := s.client.UidStore(seqset, item, []interface{}{imap.SeenFlag}, nil); err != nil {
		return fmt.Errorf("failed to flag message %s seen: %w", msg.ID, err)
	}
	return nil
}

// Close logs out of the server.
func (s *IMAPSource) Close() error {
	return s.client.Logout()
}

// selectMailbox selects the configured mailbox, logging in again once if the
// session turns out to be dead.
func (s *IMAPSource) selectMailbox() error {
	_, err := s.client.Select(s.mailbox, false)
	if err == nil {
		return nil
	}
	if s.dial == nil {
		return fmt.Errorf("failed to select mailbox %s: %w", s.mailbox, err)
	}

	log.Warn("Mailbox select failed, reconnecting", "mailbox", s.mailbox, "error", err)
	s.client.Logout()
	c, dialErr := s.dial()
	if dialErr != nil {
		return fmt.Errorf("failed to select mailbox %s: %w", s.mailbox, dialErr)
	}
	s.client = c
	if _, err := s.client.Select(s.mailbox, false); err != nil {
		return fmt.Errorf("failed to select mailbox %s after reconnecting: %w", s.mailbox, err)
	}
	return nil
}

func fromIMAP(m *imap.Message, section *imap.BodySectionName) (Message, error) {
	literal := m.GetBody(section)
	if literal == nil {
		return Message{}, fmt.Errorf("server returned no body")
	}
	msg, err := Parse(literal)
	if err != nil {
		return Message{}, err
	}
	msg.UID = m.Uid
	if msg.ID == "" {
		msg.ID = "uid:" + strconv.FormatUint(uint64(m.Uid), 10)
	}

	// The envelope is authoritative for recipients when the server provides it.
	if env := m.Envelope; env != nil {
		var rcpts []Address
		for _, list := range [][]*imap.Address{env.To, env.Cc} {
			for _, a := range list {
				if a == nil || a.MailboxName == "" {
					continue
				}
				rcpts = append(rcpts, Address{Mailbox: a.MailboxName, Host: a.HostName})
			}
		}
		if len(rcpts) > 0 {
			msg.Recipients = rcpts
		}
		if env.Subject != "" {
			msg.Subject = DecodeHeader(env.Subject)
		}
	}
	return msg, nil
}
