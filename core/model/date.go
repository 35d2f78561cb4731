package model

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the canonical calendar day format.
const DayLayout = "2006-01-02"

var dayLayouts = []string{DayLayout, time.RFC3339, "2006-01-02T15:04:05", "2006/01/02"}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the day n calendar days after t.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b. It is negative
// when b is before a.
func DaysBetween(a, b time.Time) int {
	// calendar arithmetic on UTC midnights avoids DST drift
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// ParseDay parses a calendar day in one of the accepted layouts.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return Day(t).Format(DayLayout)
}

// EachDay calls fn for every calendar day in [from, to].
func EachDay(from, to time.Time, fn func(day time.Time)) {
	for d := Day(from); !d.After(Day(to)); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}
