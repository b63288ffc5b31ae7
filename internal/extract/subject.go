package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var forwardPrefix = regexp.MustCompile(`^(Fwd:|Re:)\s*`)

// subjectPatterns are tried in order. The first enforces the full stat grammar;
// the second accepts any parenthesised text so a garbled fragment is reported
// as malformed rather than as an unrelated subject.
var subjectPatterns = []*regexp.Regexp{
	regexp.MustCompile(`between ([\w\s]+) \((\d+\s+\d+\s+\d+(?:\.\d+)?\s+[+-]?\d+(?:\.\d+)?)\) and ([\w\s]+) \((\d+\s+\d+\s+\d+(?:\.\d+)?\s+[+-]?\d+(?:\.\d+)?)\)`),
	regexp.MustCompile(`between ([\w\s]+) \(([^)]+)\) and ([\w\s]+) \(([^)]+)\)`),
}

// Side is one player's half of a parsed subject, before any lookups.
type Side struct {
	Nickname string
	Fragment string
}

// ParsedSubject holds both sides of a played-match subject line.
type ParsedSubject struct {
	First  Side
	Second Side
}

// CleanSubject strips a single leading "Fwd:" or "Re:".
func CleanSubject(subject string) string {
	return forwardPrefix.ReplaceAllString(subject, "")
}

// ParseSubject extracts the two nickname / stat fragment pairs from a subject
// such as "... between Alice (10 8 55.5 -2.1) and Bob (7 8 60.0 1.0)".
func ParseSubject(subject string) (ParsedSubject, error) {
	cleaned := CleanSubject(subject)
	for _, p := range subjectPatterns {
		m := p.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		first := Side{Nickname: strings.TrimSpace(m[1]), Fragment: m[2]}
		second := Side{Nickname: strings.TrimSpace(m[3]), Fragment: m[4]}
		if first.Nickname == "" || second.Nickname == "" {
			break
		}
		return ParsedSubject{First: first, Second: second}, nil
	}
	return ParsedSubject{}, fmt.Errorf("%w: %q", ErrSubjectNoMatch, subject)
}

// DecodeBoth decodes both fragments of a parsed subject.
func (p ParsedSubject) DecodeBoth() (StatTuple, StatTuple, error) {
	first, err := DecodeStats(p.First.Fragment)
	if err != nil {
		return StatTuple{}, StatTuple{}, fmt.Errorf("%s: %w", p.First.Nickname, err)
	}
	second, err := DecodeStats(p.Second.Fragment)
	if err != nil {
		return StatTuple{}, StatTuple{}, fmt.Errorf("%s: %w", p.Second.Nickname, err)
	}
	return first, second, nil
}
