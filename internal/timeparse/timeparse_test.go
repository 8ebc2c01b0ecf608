package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	// Saturday, 2018-03-10 12:34:56.789 EST.
	now := time.Date(2018, 3, 10, 12, 34, 56, 789, est)

	tests := []struct {
		give string
		want time.Time
	}{
		{"", time.Date(2018, 3, 10, 12, 34, 56, 0, est)},
		{"now", time.Date(2018, 3, 10, 12, 34, 56, 0, est)},
		{"Today", time.Date(2018, 3, 10, 0, 0, 0, 0, est)},
		{"yesterday", time.Date(2018, 3, 9, 0, 0, 0, 0, est)},
		{"month", time.Date(2018, 3, 1, 0, 0, 0, 0, est)},
		{"YEAR", time.Date(2018, 1, 1, 0, 0, 0, 0, est)},
		{"2018-03-01T09:00:00Z", time.Date(2018, 3, 1, 9, 0, 0, 0, time.UTC)},
		{"2018-03-01 09:15", time.Date(2018, 3, 1, 9, 15, 0, 0, est)},
		{"2018-03-01 09:15:30", time.Date(2018, 3, 1, 9, 15, 30, 0, est)},
		{"2018-03-01", time.Date(2018, 3, 1, 0, 0, 0, 0, est)},
		{"08:30", time.Date(2018, 3, 10, 8, 30, 0, 0, est)},
		{"-1h30m", time.Date(2018, 3, 10, 11, 4, 56, 0, est)},
		{"+15m", time.Date(2018, 3, 10, 12, 49, 56, 0, est)},
	}
	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			got, err := Resolve(tt.give, now, est)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestResolve_Unparseable(t *testing.T) {
	for _, give := range []string{"tomorrowish", "1h", "2018-13-01", "25:00"} {
		_, err := Resolve(give, time.Now(), time.UTC)
		assert.ErrorIs(t, err, ErrUnparseable, give)
	}
}

func TestRange(t *testing.T) {
	now := time.Date(2018, 3, 10, 12, 0, 0, 0, time.UTC)

	from, to, err := Range("", "", now, time.UTC, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 3, 5, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2018, 3, 12, 0, 0, 0, 0, time.UTC), to)

	from, to, err = Range("2018-03-01", "today", now, time.UTC, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2018, 3, 10, 0, 0, 0, 0, time.UTC), to)

	from, to, err = Range("year", "month", now, time.UTC, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, err = Range("bogus", "", now, time.UTC, time.Monday)
	assert.ErrorIs(t, err, ErrUnparseable)
}
