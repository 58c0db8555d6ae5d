package bootstrap

import "time"

// clockIn returns a clock reporting wall time in loc, so calendar dates follow
// the configured timezone.
func clockIn(loc *time.Location) func() time.Time {
	return func() time.Time { return time.Now().In(loc) }
}
