package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Token shapes of a stat fragment. strconv alone would also take signs,
// exponents and hex floats.
var (
	countToken  = regexp.MustCompile(`^\d+$`)
	ratingToken = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	luckToken   = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?$`)
)

// StatTuple is the raw quartet a notification reports for one player.
type StatTuple struct {
	Points            int
	GameLength        int
	PerformanceRating float64
	Luck              float64
}

// NormalizedPoints caps the reported points at the match length. Upstream
// sometimes reports a combined figure larger than the games actually played.
func (s StatTuple) NormalizedPoints() int {
	return min(s.Points, s.GameLength)
}

// String renders the tuple in the same shape DecodeStats accepts.
func (s StatTuple) String() string {
	return fmt.Sprintf("%d %d %s %s",
		s.Points,
		s.GameLength,
		strconv.FormatFloat(s.PerformanceRating, 'f', -1, 64),
		strconv.FormatFloat(s.Luck, 'f', -1, 64),
	)
}

// DecodeStats parses "<points> <length> <pr> <luck>". Points and length are
// unsigned integers, pr an unsigned decimal and luck a decimal with an
// optional sign.
func DecodeStats(fragment string) (StatTuple, error) {
	fields := strings.Fields(fragment)
	if len(fields) != 4 {
		return StatTuple{}, fmt.Errorf("%w: %q has %d tokens, want 4", ErrMalformedFragment, fragment, len(fields))
	}

	points, err := parseCount(fields[0])
	if err != nil {
		return StatTuple{}, fmt.Errorf("%w: points %q: %v", ErrMalformedFragment, fields[0], err)
	}
	length, err := parseCount(fields[1])
	if err != nil {
		return StatTuple{}, fmt.Errorf("%w: game length %q: %v", ErrMalformedFragment, fields[1], err)
	}
	pr, err := parseDecimal(fields[2], ratingToken)
	if err != nil {
		return StatTuple{}, fmt.Errorf("%w: performance rating %q: %v", ErrMalformedFragment, fields[2], err)
	}
	luck, err := parseDecimal(fields[3], luckToken)
	if err != nil {
		return StatTuple{}, fmt.Errorf("%w: luck %q: %v", ErrMalformedFragment, fields[3], err)
	}

	return StatTuple{
		Points:            points,
		GameLength:        length,
		PerformanceRating: pr,
		Luck:              luck,
	}, nil
}

func parseCount(s string) (int, error) {
	if !countToken.MatchString(s) {
		return 0, fmt.Errorf("not an unsigned integer")
	}
	return strconv.Atoi(s)
}

func parseDecimal(s string, shape *regexp.Regexp) (float64, error) {
	if !shape.MatchString(s) {
		return 0, fmt.Errorf("not a decimal of the form %s", shape)
	}
	return strconv.ParseFloat(s, 64)
}
