package mailbox

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-mbox"
)

// MboxSource replays notifications from an mbox file. It has no seen state of
// its own; every matching message is listed on each call.
type MboxSource struct {
	path string
}

var _ Source = (*MboxSource)(nil)

// NewMboxSource creates a source reading from path.
func NewMboxSource(path string) *MboxSource {
	return &MboxSource{path: path}
}

// ListUnseen returns every message in the file whose subject contains subjectFilter.
func (s *MboxSource) ListUnseen(ctx context.Context, subjectFilter string) ([]Message, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mbox %s: %w", s.path, err)
	}
	defer f.Close()
	return ReadMbox(ctx, f, subjectFilter)
}

// MarkSeen is a no-op; replays rely on the attempt ledger instead.
func (s *MboxSource) MarkSeen(ctx context.Context, msg Message) error {
	return nil
}

// Close is a no-op; the file is only held open while listing.
func (s *MboxSource) Close() error {
	return nil
}

// ReadMbox parses every message of an mbox stream, keeping those whose subject
// contains subjectFilter. Messages that cannot be parsed are logged and skipped.
// A message without a Message-ID is identified by a hash of its content, so
// the same message gets the same id in every export it appears in.
func ReadMbox(ctx context.Context, r io.Reader, subjectFilter string) ([]Message, error) {
	reader := mbox.NewReader(r)
	var messages []Message
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return messages, err
		}
		mr, err := reader.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return messages, fmt.Errorf("failed to read mbox message %d: %w", i, err)
		}
		raw, err := io.ReadAll(mr)
		if err != nil {
			return messages, fmt.Errorf("failed to read mbox message %d: %w", i, err)
		}
		msg, err := Parse(bytes.NewReader(raw))
		if err != nil {
			log.Warn("Skipping unparsable mbox message", "index", i, "error", err)
			continue
		}
		if msg.ID == "" {
			msg.ID = contentID(raw)
		}
		if subjectFilter != "" && !strings.Contains(msg.Subject, subjectFilter) {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func contentID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return "mbox:" + hex.EncodeToString(sum[:12])
}
