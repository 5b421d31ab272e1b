package domain

import (
	"fmt"
	"time"
)

// DayLayout is the calendar date format used for all daily records.
// Lexicographic order of Day values equals chronological order.
const DayLayout = "2006-01-02"

// Day represents a calendar date as an ISO "YYYY-MM-DD" string.
type Day string

// ParseDay validates and normalizes a calendar date string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("day %q: %w", s, ErrValidation)
	}
	return Day(t.Format(DayLayout)), nil
}

// DayOf truncates a time to its UTC calendar date.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(DayLayout))
}

// String returns the string representation of Day.
func (d Day) String() string {
	return string(d)
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	t, _ := time.Parse(DayLayout, string(d))
	return t
}

// AddDays returns the day shifted by n calendar days (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// DaysBetween returns the number of calendar days from a to b.
// Negative when b precedes a.
func DaysBetween(a, b Day) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}
