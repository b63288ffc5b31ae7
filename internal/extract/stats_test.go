package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStats(t *testing.T) {
	t.Run("points above length are capped", func(t *testing.T) {
		s, err := DecodeStats("10 8 55.5 -2.1")
		require.NoError(t, err)
		assert.Equal(t, StatTuple{Points: 10, GameLength: 8, PerformanceRating: 55.5, Luck: -2.1}, s)
		assert.Equal(t, 8, s.NormalizedPoints())
	})

	t.Run("points below length are kept", func(t *testing.T) {
		s, err := DecodeStats("5 8 55.5 -2.1")
		require.NoError(t, err)
		assert.Equal(t, 5, s.NormalizedPoints())
	})

	t.Run("signed luck and integer pr are accepted", func(t *testing.T) {
		s, err := DecodeStats("3 5 9 +0.25")
		require.NoError(t, err)
		assert.Equal(t, StatTuple{Points: 3, GameLength: 5, PerformanceRating: 9, Luck: 0.25}, s)
	})

	t.Run("extra whitespace is tolerated", func(t *testing.T) {
		s, err := DecodeStats("  7   8 60.0\t1.0 ")
		require.NoError(t, err)
		assert.Equal(t, StatTuple{Points: 7, GameLength: 8, PerformanceRating: 60, Luck: 1}, s)
	})

	malformed := map[string]string{
		"too few tokens":      "7 8 60.0",
		"too many tokens":     "7 8 60.0 1.0 2",
		"non numeric points":  "ten 8 60.0 1.0",
		"fractional length":   "7 8.5 60.0 1.0",
		"non numeric pr":      "7 8 abc 1.0",
		"non numeric luck":    "7 8 60.0 lucky",
		"negative points":     "-1 8 60.0 1.0",
		"not a finite number": "7 8 NaN 1.0",
		"empty":               "",
		"signed points":       "+10 8 55.5 -2.1",
		"signed length":       "10 +8 55.5 1.0",
		"exponent pr":         "10 8 1e2 1.0",
		"hex float luck":      "10 8 55.5 0x1p1",
		"signed pr":           "10 8 -55.5 -2.1",
		"bare fraction pr":    "10 8 .5 1.0",
		"trailing dot pr":     "10 8 55. 1.0",
		"exponent luck":       "10 8 55.5 1e1",
		"infinite luck":       "10 8 55.5 -Inf",
	}
	for name, fragment := range malformed {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeStats(fragment)
			assert.ErrorIs(t, err, ErrMalformedFragment)
		})
	}
}

func TestStatTuple_String(t *testing.T) {
	s := StatTuple{Points: 7, GameLength: 8, PerformanceRating: 60, Luck: -1.25}
	assert.Equal(t, "7 8 60 -1.25", s.String())
}
