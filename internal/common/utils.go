package common

import (
	"strings"
	"time"
)

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// DayOf truncates t to midnight UTC of its calendar date.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether ts falls on the UTC calendar date day.
func SameDay(day, ts time.Time) bool {
	return DayOf(day).Equal(DayOf(ts))
}
