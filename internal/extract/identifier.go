package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mauv0809/league-inbox/internal/mailbox"
)

var (
	subAddressPattern  = regexp.MustCompile(`\+([^@]+)@`)
	forwardedToPattern = regexp.MustCompile(`To:.*<(.+?)>`)
)

// IdentifierStrategy pulls a match-type token out of a message. Extract reports
// false when the strategy does not apply to the message.
type IdentifierStrategy struct {
	Name    string
	Extract func(msg mailbox.Message) (string, bool)
}

// DefaultIdentifierStrategies is the order tokens are looked for: the envelope
// recipients first, then the original To: header quoted in a forwarded body.
var DefaultIdentifierStrategies = []IdentifierStrategy{
	{Name: "recipient", Extract: FromRecipients},
	{Name: "forwarded_header", Extract: FromForwardedHeader},
}

// ResolveIdentifier tries each strategy in order and returns the first token
// found together with the name of the strategy that produced it.
func ResolveIdentifier(msg mailbox.Message, strategies []IdentifierStrategy) (string, string, error) {
	for _, s := range strategies {
		if token, ok := s.Extract(msg); ok {
			return token, s.Name, nil
		}
	}
	return "", "", fmt.Errorf("message %s: %w", msg.ID, ErrIdentifierNotFound)
}

// FromRecipients returns the sub-addressing token of the first recipient whose
// local part carries one, e.g. "sort4" for league+sort4@example.com.
func FromRecipients(msg mailbox.Message) (string, bool) {
	for _, rcpt := range msg.Recipients {
		if token, ok := subAddressToken(rcpt.Mailbox + "@" + rcpt.Host); ok {
			return token, true
		}
	}
	return "", false
}

// FromForwardedHeader looks for a quoted `To: "Name" <addr>` line in the body
// and returns the sub-addressing token of the embedded address.
func FromForwardedHeader(msg mailbox.Message) (string, bool) {
	for _, m := range forwardedToPattern.FindAllStringSubmatch(msg.Body, -1) {
		if token, ok := subAddressToken(m[1]); ok {
			return token, true
		}
	}
	return "", false
}

func subAddressToken(address string) (string, bool) {
	m := subAddressPattern.FindStringSubmatch(address)
	if m == nil {
		return "", false
	}
	token := strings.TrimSpace(m[1])
	if token == "" {
		return "", false
	}
	return token, true
}
