package dto

import "github.com/GregMSThompson/pocket-ledger/internal/models"

// Dismissal durations.
const (
	DismissHour    = "hour"
	DismissDay     = "day"
	DismissSession = "session"
)

type Reminder struct {
	Transaction models.Transaction `json:"transaction"`
	DaysUntil   int                `json:"daysUntil"`
	Overdue     bool               `json:"overdue"`
}

type DismissReminderRequest struct {
	Duration string `json:"duration"`
}
