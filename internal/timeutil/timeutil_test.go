package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2018, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestStartOfWeek(t *testing.T) {
	// 2018-01-01 is a Monday.
	tests := []struct {
		name      string
		give      time.Time
		weekStart time.Weekday
		want      time.Time
	}{
		{"monday itself", day(1).Add(15 * time.Hour), time.Monday, day(1)},
		{"midweek", day(4).Add(time.Hour), time.Monday, day(1)},
		{"sunday with monday start", day(7).Add(23 * time.Hour), time.Monday, day(1)},
		{"sunday with sunday start", day(7), time.Sunday, day(7)},
		{"saturday with sunday start", day(6), time.Sunday, time.Date(2017, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartOfWeek(tt.give, tt.weekStart))
		})
	}
}

func TestDays(t *testing.T) {
	var want []time.Time
	for i := 1; i <= 14; i++ {
		want = append(want, day(i))
	}
	assert.Equal(t, want, Days(day(1), day(14).Add(23*time.Hour+59*time.Minute), false))
}

func TestDays_WeekdaysOnly(t *testing.T) {
	weekends := map[int]bool{6: true, 7: true, 13: true, 14: true}
	var want []time.Time
	for i := 1; i <= 14; i++ {
		if !weekends[i] {
			want = append(want, day(i))
		}
	}
	assert.Equal(t, want, Days(day(1), day(14), true))
}

func TestWeeks(t *testing.T) {
	got := Weeks(day(3), time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	want := []time.Time{day(1), day(8), day(15), day(22), day(29)}
	assert.Equal(t, want, got)

	assert.Empty(t, Weeks(day(8), day(8), time.Monday))
}

func TestStartOfMonthAndYear(t *testing.T) {
	ts := time.Date(2018, 3, 17, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(ts))
	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), StartOfYear(ts))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		give time.Duration
		want string
	}{
		{0, "00:00"},
		{59 * time.Second, "00:00"},
		{90 * time.Minute, "01:30"},
		{56*time.Hour + 5*time.Minute, "56:05"},
		{-15 * time.Minute, "-00:15"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.give))
	}
}

func TestWeekTitle(t *testing.T) {
	assert.Equal(t, "Jan 01 - Jan 07, 2018", WeekTitle(day(1)))
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		give string
		want time.Weekday
	}{
		{"", time.Monday},
		{"monday", time.Monday},
		{"MONday", time.Monday},
		{" Mon ", time.Monday},
		{"sunday", time.Sunday},
		{"SUN", time.Sunday},
	}
	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			wd, err := ParseWeekday(tt.give)
			require.NoError(t, err)
			assert.Equal(t, tt.want, wd)
		})
	}

	_, err := ParseWeekday("friday")
	assert.Error(t, err)
}
