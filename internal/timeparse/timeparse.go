// Package timeparse resolves the short timestamp phrases accepted on the
// command line and by the HTTP API.
package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"timetrack/internal/timeutil"
)

// ErrUnparseable is returned for phrases none of the known forms match.
var ErrUnparseable = errors.New("unrecognised time")

var absoluteLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var clockLayouts = []string{"15:04:05", "15:04"}

// Resolve turns phrase into an instant, relative to now and in loc where
// the phrase carries no zone. Accepted forms:
//
//	now | "" | today | yesterday
//	month | year (their first midnight)
//	RFC 3339 instants
//	2006-01-02 15:04[:05], 2006-01-02
//	15:04[:05] (today)
//	signed durations relative to now: -1h30m, +15m
//
// The result is truncated to the second.
func Resolve(phrase string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	p := strings.TrimSpace(phrase)

	switch strings.ToLower(p) {
	case "", "now":
		return now.Truncate(time.Second), nil
	case "today":
		return timeutil.StartOfDay(now), nil
	case "yesterday":
		return timeutil.StartOfDay(now).AddDate(0, 0, -1), nil
	case "month":
		return timeutil.StartOfMonth(now), nil
	case "year":
		return timeutil.StartOfYear(now), nil
	}

	if t, err := time.Parse(time.RFC3339, p); err == nil {
		return t.Truncate(time.Second), nil
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, p, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation(time.DateOnly, p, loc); err == nil {
		return t, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, p, loc); err == nil {
			y, m, d := now.Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	if strings.HasPrefix(p, "-") || strings.HasPrefix(p, "+") {
		if d, err := time.ParseDuration(p); err == nil {
			return now.Add(d).Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, phrase)
}

// Range resolves an optional begin/end pair. Empty phrases default to the
// week containing now, starting on weekStart.
func Range(begin, end string, now time.Time, loc *time.Location, weekStart time.Weekday) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	from := timeutil.StartOfWeek(now, weekStart)
	to := from.AddDate(0, 0, 7)

	var err error
	if begin != "" {
		if from, err = Resolve(begin, now, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("begin: %w", err)
		}
	}
	if end != "" {
		if to, err = Resolve(end, now, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
		}
	}
	return from, to, nil
}
