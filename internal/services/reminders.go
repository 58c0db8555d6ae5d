package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

// ReminderPolicy holds the day windows of the reminder rules.
type ReminderPolicy struct {
	// AlwaysWindowPast is how many days overdue an "always" reminder keeps showing.
	AlwaysWindowPast int
	// AlwaysWindowAhead is how far ahead an "always" reminder starts showing.
	AlwaysWindowAhead int
	// FallbackLeadDays applies to specific-date reminders without a date and records
	// with no reminder type.
	FallbackLeadDays int
}

var DefaultReminderPolicy = ReminderPolicy{
	AlwaysWindowPast:  7,
	AlwaysWindowAhead: 30,
	FallbackLeadDays:  1,
}

// UpcomingReminders returns the transactions whose reminder rule fires at now,
// sorted by date ascending. Dates are interpreted in now's location.
func UpcomingReminders(txs []models.Transaction, now time.Time, policy ReminderPolicy, dismissed func(id string) bool) []dto.Reminder {
	today := helpers.DateString(now)
	out := make([]dto.Reminder, 0)
	for _, tx := range txs {
		if tx.Status != models.StatusPending && tx.Status != models.StatusInFuture {
			continue
		}
		if dismissed != nil && dismissed(tx.ID) {
			continue
		}
		days, ok := DaysUntil(tx.Date, now)
		if !ok {
			continue
		}
		if !SpecFor(tx, policy).Fires(days, today) {
			continue
		}
		out = append(out, dto.Reminder{
			Transaction: tx,
			DaysUntil:   days,
			Overdue:     tx.Date < today,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Transaction.Date < out[j].Transaction.Date
	})
	return out
}

// DaysUntil returns ceil((date at 12:00 - today at 00:00) / 24h) in now's
// location. Noon anchoring keeps the result stable across DST shifts.
func DaysUntil(date string, now time.Time) (int, bool) {
	loc := now.Location()
	d, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return 0, false
	}
	due := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
	diff := due.Sub(helpers.StartOfDay(now)).Hours() / 24
	return int(math.Ceil(diff)), true
}

// ReminderKind is the resolved rule a transaction's reminder fields describe.
type ReminderKind int

const (
	KindNever ReminderKind = iota
	KindWindow
	KindOnDate
	KindLeadDays
)

// ReminderSpec is the normalized reminder rule of a transaction. Window uses
// From/To, OnDate uses Date, LeadDays uses Lead.
type ReminderSpec struct {
	Kind ReminderKind
	From int
	To   int
	Date string
	Lead int
}

// SpecFor resolves the reminder fields of tx under policy. A missing or
// unrecognised reminderType falls back to the lead-day rule; malformed
// fields of a known type resolve to KindNever.
func SpecFor(tx models.Transaction, policy ReminderPolicy) ReminderSpec {
	switch tx.ReminderType {
	case models.ReminderNone:
		return ReminderSpec{Kind: KindNever}
	case models.ReminderAlways:
		return ReminderSpec{Kind: KindWindow, From: -policy.AlwaysWindowPast, To: policy.AlwaysWindowAhead}
	case models.ReminderSpecificDate:
		if tx.ReminderDate == "" {
			return ReminderSpec{Kind: KindLeadDays, Lead: policy.FallbackLeadDays}
		}
		if _, err := time.Parse(models.DateLayout, tx.ReminderDate); err != nil {
			return ReminderSpec{Kind: KindNever}
		}
		return ReminderSpec{Kind: KindOnDate, Date: tx.ReminderDate}
	case models.ReminderCustomDuration:
		lead, ok := ReminderLeadDays(tx.ReminderValue, tx.ReminderUnit)
		if !ok {
			return ReminderSpec{Kind: KindNever}
		}
		return ReminderSpec{Kind: KindLeadDays, Lead: lead}
	default:
		return ReminderSpec{Kind: KindLeadDays, Lead: policy.FallbackLeadDays}
	}
}

// Fires reports whether the rule triggers for a transaction daysUntil away.
func (r ReminderSpec) Fires(daysUntil int, today string) bool {
	switch r.Kind {
	case KindWindow:
		return daysUntil >= r.From && daysUntil <= r.To
	case KindOnDate:
		return r.Date <= today
	case KindLeadDays:
		return daysUntil <= r.Lead
	default:
		return false
	}
}

// ReminderLeadDays converts a custom duration to days using 1/7/30 day units.
// Unknown units count as days.
func ReminderLeadDays(value models.FlexNumber, unit models.ReminderUnit) (int, bool) {
	n, ok := value.Int()
	if !ok || n < 0 {
		return 0, false
	}
	switch unit {
	case models.UnitWeeks:
		return n * 7, true
	case models.UnitMonths:
		return n * 30, true
	default:
		return n, true
	}
}

type reminderSettingsStore interface {
	ReminderSettings(ctx context.Context) (models.ReminderSettings, error)
	SaveReminderSettings(ctx context.Context, settings models.ReminderSettings) error
	Dismissals(ctx context.Context) (models.ReminderDismissals, error)
	SaveDismissals(ctx context.Context, dismissals models.ReminderDismissals) error
}

type reminderTxStore interface {
	List(ctx context.Context) ([]models.Transaction, error)
}

type reminderService struct {
	settings reminderSettingsStore
	txs      reminderTxStore
	policy   ReminderPolicy
	now      func() time.Time

	mu        sync.Mutex
	sessionID string
	session   map[string]struct{}
}

func NewReminderService(settings reminderSettingsStore, txs reminderTxStore, policy ReminderPolicy, now func() time.Time) *reminderService {
	if now == nil {
		now = time.Now
	}
	return &reminderService{
		settings:  settings,
		txs:       txs,
		policy:    policy,
		now:       now,
		sessionID: uuid.NewString(),
		session:   map[string]struct{}{},
	}
}

// SessionID identifies the current process session for "session" dismissals.
func (s *reminderService) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *reminderService) GetSettings(ctx context.Context) (models.ReminderSettings, error) {
	return s.settings.ReminderSettings(ctx)
}

func (s *reminderService) SaveSettings(ctx context.Context, settings models.ReminderSettings) (models.ReminderSettings, error) {
	if err := validateReminderSettings(settings); err != nil {
		return settings, err
	}
	if err := s.settings.SaveReminderSettings(ctx, settings); err != nil {
		return settings, err
	}
	if _, err := s.PruneDismissals(ctx); err != nil {
		logger.FromContext(ctx).Warn("prune reminder dismissals failed", "error", err)
	}
	return settings, nil
}

func validateReminderSettings(settings models.ReminderSettings) error {
	switch settings.DefaultReminderType {
	case "", models.ReminderNone, models.ReminderAlways, models.ReminderCustomDuration, models.ReminderSpecificDate:
	default:
		return errs.NewValidationError("invalid defaultReminderType")
	}
	switch settings.DefaultReminderUnit {
	case "", models.UnitDays, models.UnitWeeks, models.UnitMonths:
	default:
		return errs.NewValidationError("invalid defaultReminderUnit")
	}
	if settings.DefaultReminderValue < 0 {
		return errs.NewValidationError("defaultReminderValue must not be negative")
	}
	return nil
}

// GetUpcomingReminders evaluates every transaction against the reminder rules.
// It returns nothing when reminders are disabled.
func (s *reminderService) GetUpcomingReminders(ctx context.Context) ([]dto.Reminder, error) {
	settings, err := s.settings.ReminderSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.IsEnabled() {
		return []dto.Reminder{}, nil
	}
	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	dismissals, err := s.settings.Dismissals(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	return UpcomingReminders(txs, now, s.policy, func(id string) bool {
		return s.isDismissedLocked(id, dismissals, now)
	}), nil
}

// DismissForSession hides a reminder until ClearSessionDismissals or restart.
func (s *reminderService) DismissForSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session[id] = struct{}{}
}

// DismissReminder persists a dismissal for an hour, a day or the current session.
func (s *reminderService) DismissReminder(ctx context.Context, id, duration string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValidationError("transaction id is required")
	}
	now := s.now()
	dismissal := models.ReminderDismissal{DismissedAt: now.UTC()}
	switch duration {
	case dto.DismissHour:
		dismissal.DismissUntil = now.Add(time.Hour).UTC().Format(time.RFC3339)
	case dto.DismissDay:
		dismissal.DismissUntil = now.Add(24 * time.Hour).UTC().Format(time.RFC3339)
	case dto.DismissSession:
		dismissal.DismissUntil = models.SessionMarker
		dismissal.SessionID = s.SessionID()
		s.DismissForSession(id)
	default:
		return errs.NewValidationError("duration must be one of hour, day, session")
	}

	dismissals, err := s.settings.Dismissals(ctx)
	if err != nil {
		return err
	}
	dismissals[id] = dismissal
	if err := s.settings.SaveDismissals(ctx, dismissals); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("reminder dismissed", "transaction_id", id, "duration", duration)
	return nil
}

func (s *reminderService) IsReminderDismissed(ctx context.Context, id string) (bool, error) {
	dismissals, err := s.settings.Dismissals(ctx)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isDismissedLocked(id, dismissals, s.now()), nil
}

// ClearSessionDismissals starts a new session: in-memory dismissals are
// dropped and persisted "session" dismissals stop applying.
func (s *reminderService) ClearSessionDismissals() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = map[string]struct{}{}
	s.sessionID = uuid.NewString()
}

// PruneDismissals removes expired and foreign-session dismissals. It returns
// the number of entries removed.
func (s *reminderService) PruneDismissals(ctx context.Context) (int, error) {
	dismissals, err := s.settings.Dismissals(ctx)
	if err != nil {
		return 0, err
	}
	now := s.now()
	sessionID := s.SessionID()

	removed := 0
	for id, d := range dismissals {
		if dismissalLive(d, sessionID, now) {
			continue
		}
		delete(dismissals, id)
		removed++
	}
	if removed == 0 {
		return 0, nil
	}
	if err := s.settings.SaveDismissals(ctx, dismissals); err != nil {
		return 0, err
	}
	logger.FromContext(ctx).Debug("reminder dismissals pruned", "removed", removed)
	return removed, nil
}

func (s *reminderService) isDismissedLocked(id string, dismissals models.ReminderDismissals, now time.Time) bool {
	if _, ok := s.session[id]; ok {
		return true
	}
	d, ok := dismissals[id]
	if !ok {
		return false
	}
	return dismissalLive(d, s.sessionID, now)
}

func dismissalLive(d models.ReminderDismissal, sessionID string, now time.Time) bool {
	if d.IsSession() {
		return d.SessionID != "" && d.SessionID == sessionID
	}
	until, ok := d.Until()
	if !ok {
		return false
	}
	return now.Before(until)
}
