package mailbox

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// Parse reads a raw RFC 5322 message. The body is the first text part of the
// message with transfer and charset encodings removed.
func Parse(r io.Reader) (Message, error) {
	m, err := mail.ReadMessage(r)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read message: %w", err)
	}

	msg := Message{
		ID:      strings.TrimSpace(m.Header.Get("Message-Id")),
		Subject: DecodeHeader(m.Header.Get("Subject")),
	}
	if date, err := m.Header.Date(); err == nil {
		msg.Date = date
	}
	for _, field := range []string{"To", "Cc", "Delivered-To"} {
		msg.Recipients = append(msg.Recipients, parseAddresses(m.Header.Get(field))...)
	}

	body, err := firstTextPart(m.Header, m.Body)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read body of %s: %w", msg.ID, err)
	}
	msg.Body = body
	return msg, nil
}

// DecodeHeader decodes RFC 2047 encoded-words, leaving the value untouched if
// it cannot be decoded.
func DecodeHeader(value string) string {
	decoded, err := wordDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func parseAddresses(header string) []Address {
	if header == "" {
		return nil
	}
	parser := mail.AddressParser{WordDecoder: wordDecoder}
	list, err := parser.ParseList(header)
	if err != nil {
		return nil
	}
	var out []Address
	for _, a := range list {
		out = append(out, SplitAddress(a.Address))
	}
	return out
}

// SplitAddress splits mailbox@host at the last '@'.
func SplitAddress(address string) Address {
	i := strings.LastIndex(address, "@")
	if i < 0 {
		return Address{Mailbox: address}
	}
	return Address{Mailbox: address[:i], Host: address[i+1:]}
}

type header interface{ Get(string) string }

// firstTextPart walks the MIME tree depth first and returns the first
// text/plain part, falling back to the first text/html part.
func firstTextPart(h header, body io.Reader) (string, error) {
	var plain, html string
	var walk func(h header, body io.Reader) error
	walk = func(h header, body io.Reader) error {
		if plain != "" {
			return nil
		}
		ctype, params, err := mime.ParseMediaType(h.Get("Content-Type"))
		if err != nil {
			ctype, params = "text/plain", map[string]string{}
		}

		if strings.HasPrefix(ctype, "multipart/") {
			mr := multipart.NewReader(body, params["boundary"])
			for {
				p, err := mr.NextPart()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if err := walk(p.Header, p); err != nil {
					return err
				}
			}
		}

		if disp, _, err := mime.ParseMediaType(h.Get("Content-Disposition")); err == nil && disp == "attachment" {
			return nil
		}
		if ctype != "text/plain" && ctype != "text/html" {
			return nil
		}

		text, err := decodePart(h, params["charset"], body)
		if err != nil {
			return err
		}
		if ctype == "text/plain" {
			plain = text
		} else if html == "" {
			html = text
		}
		return nil
	}

	if err := walk(h, body); err != nil {
		return "", err
	}
	if plain != "" {
		return plain, nil
	}
	return html, nil
}

func decodePart(h header, charset string, body io.Reader) (string, error) {
	reader := body
	switch strings.ToLower(strings.TrimSpace(h.Get("Content-Transfer-Encoding"))) {
	case "base64":
		reader = base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		reader = quotedprintable.NewReader(body)
	}
	reader, err := charsetReader(charset, reader)
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	if charset == "" {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(strings.ToLower(charset))
	if err != nil || enc == nil {
		return input, nil
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
