// Package timeutil holds calendar helpers shared by reports and the CLI.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DefaultWeekStart is the first day of a reporting week.
const DefaultWeekStart = time.Monday

// StartOfDay returns midnight of t's date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the most recent weekStart on or before t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// StartOfYear returns midnight of January 1st of t's year.
func StartOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// Days returns midnight of every date from start's date through end's date,
// inclusive. With weekdaysOnly, Saturdays and Sundays are skipped.
func Days(start, end time.Time, weekdaysOnly bool) []time.Time {
	var days []time.Time
	for d := StartOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if weekdaysOnly && IsWeekend(d) {
			continue
		}
		days = append(days, d)
	}
	return days
}

// Weeks returns the start of every week that intersects [start, end).
func Weeks(start, end time.Time, weekStart time.Weekday) []time.Time {
	var weeks []time.Time
	for w := StartOfWeek(start, weekStart); w.Before(end); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}
	return weeks
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// FormatDuration renders d as "HH:MM", truncating seconds.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}

// WeekTitle renders the span of the week starting at start,
// e.g. "Jan 01 - Jan 07, 2018".
func WeekTitle(start time.Time) string {
	end := start.AddDate(0, 0, 6)
	return fmt.Sprintf("%s - %s", start.Format("Jan 02"), end.Format("Jan 02, 2006"))
}

// ParseWeekday accepts "monday" or "sunday" (any case) and the empty string,
// which selects DefaultWeekStart.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultWeekStart, nil
	case "monday", "mon":
		return time.Monday, nil
	case "sunday", "sun":
		return time.Sunday, nil
	}
	return 0, fmt.Errorf("unsupported week start %q: want monday or sunday", s)
}
