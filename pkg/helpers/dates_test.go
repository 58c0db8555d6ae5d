package helpers

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("09:30")
	if err != nil {
		t.Fatalf("ParseClock error: %v", err)
	}
	if h != 9 || m != 30 {
		t.Fatalf("ParseClock = %d:%d", h, m)
	}
	if _, _, err := ParseClock("9am"); err == nil {
		t.Fatalf("expected error for malformed clock")
	}
}

func TestStartOfDayKeepsLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 3, 10, 23, 45, 0, 0, loc)

	got := StartOfDay(now)
	if !got.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, loc)) {
		t.Fatalf("StartOfDay = %v", got)
	}
	if DateString(now) != "2025-03-10" {
		t.Fatalf("DateString = %q", DateString(now))
	}
}
