package models

import "time"

// SessionMarker is the dismissUntil value stored for session-scoped dismissals.
const SessionMarker = "session"

// ReminderDismissal is a persisted dismissal. Exactly one of Until or Session applies.
type ReminderDismissal struct {
	DismissUntil string    `json:"dismissUntil"` // RFC3339 timestamp or SessionMarker
	SessionID    string    `json:"sessionId,omitempty"`
	DismissedAt  time.Time `json:"dismissedAt"`
}

// Until returns the expiry of a time-scoped dismissal.
func (d ReminderDismissal) Until() (time.Time, bool) {
	if d.DismissUntil == "" || d.DismissUntil == SessionMarker {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, d.DismissUntil)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (d ReminderDismissal) IsSession() bool {
	return d.DismissUntil == SessionMarker
}

type ReminderDismissals map[string]ReminderDismissal
