package extract

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playedSubject = "Admin: A league match was played between Alice (10 8 55.5 -2.1) and Bob (7 8 60.0 1.0)"

func TestParseSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    ParsedSubject
		wantErr error
	}{
		{
			name:    "plain subject",
			subject: playedSubject,
			want: ParsedSubject{
				First:  Side{Nickname: "Alice", Fragment: "10 8 55.5 -2.1"},
				Second: Side{Nickname: "Bob", Fragment: "7 8 60.0 1.0"},
			},
		},
		{
			name:    "forwarded subject",
			subject: "Fwd: " + playedSubject,
			want: ParsedSubject{
				First:  Side{Nickname: "Alice", Fragment: "10 8 55.5 -2.1"},
				Second: Side{Nickname: "Bob", Fragment: "7 8 60.0 1.0"},
			},
		},
		{
			name:    "reply subject with nicknames containing spaces",
			subject: "Re: Admin: A league match was played between Mary Ann (3 5 9 +0.25) and Big_Jim (5 5 4.75 -0.25)",
			want: ParsedSubject{
				First:  Side{Nickname: "Mary Ann", Fragment: "3 5 9 +0.25"},
				Second: Side{Nickname: "Big_Jim", Fragment: "5 5 4.75 -0.25"},
			},
		},
		{
			name:    "garbled fragment still splits so decoding can report it",
			subject: "Admin: A league match was played between Alice (ten 8 55.5 -2.1) and Bob (7 8 60.0 1.0)",
			want: ParsedSubject{
				First:  Side{Nickname: "Alice", Fragment: "ten 8 55.5 -2.1"},
				Second: Side{Nickname: "Bob", Fragment: "7 8 60.0 1.0"},
			},
		},
		{
			name:    "missing between and shape",
			subject: "Admin: A league match was played",
			wantErr: ErrSubjectNoMatch,
		},
		{
			name:    "prefix is case sensitive",
			subject: "FWD: unrelated",
			wantErr: ErrSubjectNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubject(tt.subject)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSubject() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsedSubject_DecodeBoth(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		wantErr error
	}{
		{
			name:    "well formed tuples",
			subject: playedSubject,
		},
		{
			name:    "exponent and hex float in first tuple",
			subject: "Admin: A league match was played between Alice (+10 8 1e2 0x1p1) and Bob (7 8 60.0 1.0)",
			wantErr: ErrMalformedFragment,
		},
		{
			name:    "signed performance rating in second tuple",
			subject: "Admin: A league match was played between Alice (10 8 55.5 -2.1) and Bob (7 8 -60.0 1.0)",
			wantErr: ErrMalformedFragment,
		},
		{
			name:    "signed length in second tuple",
			subject: "Admin: A league match was played between Alice (10 8 55.5 -2.1) and Bob (7 +8 60.0 1.0)",
			wantErr: ErrMalformedFragment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseSubject(tt.subject)
			require.NoError(t, err)
			_, _, err = parsed.DecodeBoth()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCleanSubject(t *testing.T) {
	assert.Equal(t, "hello", CleanSubject("Fwd: hello"))
	assert.Equal(t, "hello", CleanSubject("Re:hello"))
	assert.Equal(t, "Re: hello", CleanSubject("Fwd: Re: hello"), "only one prefix is stripped")
	assert.Equal(t, "fwd: hello", CleanSubject("fwd: hello"))
}

func TestParseThenDecode_RoundTrip(t *testing.T) {
	faker := gofakeit.New(20240601)

	randomTuple := func() StatTuple {
		return StatTuple{
			Points:            faker.IntRange(0, 25),
			GameLength:        faker.IntRange(1, 25),
			PerformanceRating: faker.Float64Range(0, 40),
			Luck:              faker.Float64Range(-30, 30),
		}
	}

	for i := 0; i < 200; i++ {
		name1 := faker.Regex(`[A-Z][a-z]{2,9}`)
		name2 := faker.Regex(`[A-Z][a-z]{2,9}_[0-9]{1,3}`)
		want1, want2 := randomTuple(), randomTuple()

		subject := fmt.Sprintf("Admin: A league match was played between %s (%s) and %s (%s)", name1, want1, name2, want2)
		parsed, err := ParseSubject(subject)
		require.NoError(t, err, subject)
		assert.Equal(t, name1, parsed.First.Nickname)
		assert.Equal(t, name2, parsed.Second.Nickname)

		got1, got2, err := parsed.DecodeBoth()
		require.NoError(t, err, subject)
		if diff := cmp.Diff(want1, got1); diff != "" {
			t.Fatalf("first tuple mismatch for %q (-want +got):\n%s", subject, diff)
		}
		if diff := cmp.Diff(want2, got2); diff != "" {
			t.Fatalf("second tuple mismatch for %q (-want +got):\n%s", subject, diff)
		}
	}
}
