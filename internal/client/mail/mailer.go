package mailclient

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/GregMSThompson/pocket-ledger/internal/currency"
	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	sender sender
	from   string
	to     string
}

func NewMailer(host string, port int, user, pass, to string) *Mailer {
	return &Mailer{
		sender: gomail.NewDialer(host, port, user, pass),
		from:   user,
		to:     to,
	}
}

// SendReminderDigest emails the given reminders. An empty list sends nothing.
func (m *Mailer) SendReminderDigest(ctx context.Context, reminders []dto.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("Pocket Ledger: %d payment reminder(s)", len(reminders)))
	msg.SetBody("text/plain", DigestBody(reminders))

	if err := m.sender.DialAndSend(msg); err != nil {
		return errs.NewExternalServiceError("smtp", "send reminder digest", true, err)
	}
	logger.FromContext(ctx).Info("reminder digest sent", "to", m.to, "count", len(reminders))
	return nil
}

// DigestBody renders one line per reminder.
func DigestBody(reminders []dto.Reminder) string {
	var b strings.Builder
	b.WriteString("Upcoming and overdue transactions:\n\n")
	for _, r := range reminders {
		tx := r.Transaction
		amount := string(tx.Amount)
		if d, err := tx.Amount.Decimal(); err == nil {
			amount = currency.Format(d, tx.Currency)
		}
		label := tx.Payee
		if label == "" {
			label = tx.Category
		}
		if label == "" {
			label = tx.Description
		}
		fmt.Fprintf(&b, "- %s  %s  %s  (%s)\n", tx.Date, label, amount, dueText(r))
	}
	return b.String()
}

func dueText(r dto.Reminder) string {
	switch {
	case r.Overdue:
		return "overdue"
	case r.DaysUntil <= 1:
		return "due today"
	default:
		return fmt.Sprintf("due in %d days", r.DaysUntil-1)
	}
}
