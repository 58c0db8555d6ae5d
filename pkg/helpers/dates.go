package helpers

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// StartOfDay returns local midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateString formats t's calendar day as YYYY-MM-DD in t's location.
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseClock parses an "HH:mm" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}
	return t.Hour(), t.Minute(), nil
}

// AtClock returns t's calendar day at hour:minute in t's location.
func AtClock(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}
