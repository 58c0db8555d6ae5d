package services

import (
	"testing"
	"time"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
)

var reminderNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func dayOffset(now time.Time, days int) string {
	return now.AddDate(0, 0, days).Format(models.DateLayout)
}

func pendingTx(id, date string, rt models.ReminderType) models.Transaction {
	return models.Transaction{
		ID:           id,
		Type:         models.TypeExpense,
		Amount:       "10",
		Date:         date,
		Status:       models.StatusPending,
		ReminderType: rt,
	}
}

func reminderIDs(reminders []dto.Reminder) []string {
	ids := make([]string, 0, len(reminders))
	for _, r := range reminders {
		ids = append(ids, r.Transaction.ID)
	}
	return ids
}

func containsID(reminders []dto.Reminder, id string) bool {
	for _, r := range reminders {
		if r.Transaction.ID == id {
			return true
		}
	}
	return false
}

type mutableClock struct{ now time.Time }

func (c *mutableClock) Now() time.Time { return c.now }

func TestDaysUntilAnchorsAtNoon(t *testing.T) {
	cases := map[int]int{-2: -1, -1: 0, 0: 1, 1: 2, 2: 3, 29: 30}
	for offset, want := range cases {
		got, ok := DaysUntil(dayOffset(reminderNow, offset), reminderNow)
		if !ok {
			t.Fatalf("DaysUntil(%d) not ok", offset)
		}
		if got != want {
			t.Fatalf("DaysUntil(offset %d) = %d, want %d", offset, got, want)
		}
	}
	if _, ok := DaysUntil("2025-13-40", reminderNow); ok {
		t.Fatalf("expected malformed date to fail")
	}
}

func TestDaysUntilAcrossDSTShift(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	// Clocks spring forward on 2025-03-09.
	now := time.Date(2025, 3, 8, 20, 0, 0, 0, loc)
	got, ok := DaysUntil("2025-03-10", now)
	if !ok || got != 3 {
		t.Fatalf("DaysUntil across DST = %d, want 3", got)
	}
}

func TestCustomDurationBoundary(t *testing.T) {
	mk := func(id string, offset int) models.Transaction {
		tx := pendingTx(id, dayOffset(reminderNow, offset), models.ReminderCustomDuration)
		tx.ReminderValue = "3"
		tx.ReminderUnit = models.UnitDays
		return tx
	}
	txs := []models.Transaction{mk("before", 2), mk("next", 3), mk("after", 4)}

	got := UpcomingReminders(txs, reminderNow, DefaultReminderPolicy, nil)
	if !containsID(got, "before") {
		t.Fatalf("expected reminder due in 2 days to fire, got %v", reminderIDs(got))
	}
	if containsID(got, "after") {
		t.Fatalf("reminder due in 4 days must not fire, got %v", reminderIDs(got))
	}
	if got[0].DaysUntil != 3 {
		t.Fatalf("daysUntil = %d, want 3 (exact match included)", got[0].DaysUntil)
	}
}

func TestCustomDurationUnits(t *testing.T) {
	weeks := pendingTx("weeks", dayOffset(reminderNow, 13), models.ReminderCustomDuration)
	weeks.ReminderValue = "2"
	weeks.ReminderUnit = models.UnitWeeks
	months := pendingTx("months", dayOffset(reminderNow, 29), models.ReminderCustomDuration)
	months.ReminderValue = "1"
	months.ReminderUnit = models.UnitMonths
	bad := pendingTx("bad", dayOffset(reminderNow, 0), models.ReminderCustomDuration)
	bad.ReminderValue = "soon"

	got := UpcomingReminders([]models.Transaction{weeks, months, bad}, reminderNow, DefaultReminderPolicy, nil)
	if !containsID(got, "weeks") || !containsID(got, "months") {
		t.Fatalf("expected week and month reminders, got %v", reminderIDs(got))
	}
	if containsID(got, "bad") {
		t.Fatalf("malformed reminderValue must be excluded")
	}
}

func TestAlwaysWindow(t *testing.T) {
	txs := []models.Transaction{
		pendingTx("past-in", dayOffset(reminderNow, -8), models.ReminderAlways),
		pendingTx("past-out", dayOffset(reminderNow, -9), models.ReminderAlways),
		pendingTx("ahead-in", dayOffset(reminderNow, 29), models.ReminderAlways),
		pendingTx("ahead-out", dayOffset(reminderNow, 30), models.ReminderAlways),
	}

	got := UpcomingReminders(txs, reminderNow, DefaultReminderPolicy, nil)
	ids := reminderIDs(got)
	if len(ids) != 2 || ids[0] != "past-in" || ids[1] != "ahead-in" {
		t.Fatalf("always window = %v", ids)
	}
	if !got[0].Overdue || got[1].Overdue {
		t.Fatalf("overdue flags wrong: %+v", got)
	}
}

func TestSpecificDate(t *testing.T) {
	due := pendingTx("due", dayOffset(reminderNow, 5), models.ReminderSpecificDate)
	due.ReminderDate = dayOffset(reminderNow, 0)
	later := pendingTx("later", dayOffset(reminderNow, 5), models.ReminderSpecificDate)
	later.ReminderDate = dayOffset(reminderNow, 1)
	malformed := pendingTx("malformed", dayOffset(reminderNow, 0), models.ReminderSpecificDate)
	malformed.ReminderDate = "03/10/2025"
	fallback := pendingTx("fallback", dayOffset(reminderNow, 0), models.ReminderSpecificDate)

	got := UpcomingReminders([]models.Transaction{due, later, malformed, fallback}, reminderNow, DefaultReminderPolicy, nil)
	ids := reminderIDs(got)
	if len(ids) != 2 || !containsID(got, "due") || !containsID(got, "fallback") {
		t.Fatalf("specific date reminders = %v", ids)
	}
}

func TestLegacyFallbackWithoutReminderType(t *testing.T) {
	txs := []models.Transaction{
		pendingTx("today", dayOffset(reminderNow, 0), ""),
		pendingTx("tomorrow", dayOffset(reminderNow, 1), ""),
		pendingTx("none", dayOffset(reminderNow, 0), models.ReminderNone),
	}
	got := UpcomingReminders(txs, reminderNow, DefaultReminderPolicy, nil)
	ids := reminderIDs(got)
	if len(ids) != 1 || ids[0] != "today" {
		t.Fatalf("fallback reminders = %v", ids)
	}
}

func TestUnknownReminderTypeUsesFallback(t *testing.T) {
	txs := []models.Transaction{
		pendingTx("weekly-today", dayOffset(reminderNow, 0), "weekly"),
		pendingTx("weekly-later", dayOffset(reminderNow, 2), "weekly"),
	}
	got := UpcomingReminders(txs, reminderNow, DefaultReminderPolicy, nil)
	ids := reminderIDs(got)
	if len(ids) != 1 || ids[0] != "weekly-today" {
		t.Fatalf("unknown reminderType reminders = %v", ids)
	}
}

func TestStatusGating(t *testing.T) {
	done := pendingTx("done", dayOffset(reminderNow, 0), models.ReminderAlways)
	done.Status = models.StatusDone
	future := pendingTx("future", dayOffset(reminderNow, 0), models.ReminderAlways)
	future.Status = models.StatusInFuture
	custom := pendingTx("custom", dayOffset(reminderNow, 0), models.ReminderAlways)
	custom.Status = "Scheduled"

	got := UpcomingReminders([]models.Transaction{done, future, custom}, reminderNow, DefaultReminderPolicy, nil)
	ids := reminderIDs(got)
	if len(ids) != 1 || ids[0] != "future" {
		t.Fatalf("status gating = %v", ids)
	}
}

func TestMalformedDateExcluded(t *testing.T) {
	got := UpcomingReminders([]models.Transaction{pendingTx("x", "not-a-date", models.ReminderAlways)}, reminderNow, DefaultReminderPolicy, nil)
	if len(got) != 0 {
		t.Fatalf("expected malformed date to be excluded, got %v", reminderIDs(got))
	}
}

func TestRemindersSortedByDateStable(t *testing.T) {
	txs := []models.Transaction{
		pendingTx("c", dayOffset(reminderNow, 3), models.ReminderAlways),
		pendingTx("a1", dayOffset(reminderNow, 1), models.ReminderAlways),
		pendingTx("b", dayOffset(reminderNow, 2), models.ReminderAlways),
		pendingTx("a2", dayOffset(reminderNow, 1), models.ReminderAlways),
	}
	ids := reminderIDs(UpcomingReminders(txs, reminderNow, DefaultReminderPolicy, nil))
	want := []string{"a1", "a2", "b", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestPolicyIsConfigurable(t *testing.T) {
	tx := pendingTx("x", dayOffset(reminderNow, 40), models.ReminderAlways)
	policy := DefaultReminderPolicy
	policy.AlwaysWindowAhead = 60
	if got := UpcomingReminders([]models.Transaction{tx}, reminderNow, policy, nil); len(got) != 1 {
		t.Fatalf("expected widened window to include transaction")
	}
}

func TestGetUpcomingRemindersExample(t *testing.T) {
	tx := pendingTx("rent", dayOffset(reminderNow, 2), models.ReminderCustomDuration)
	tx.ReminderValue = "3"
	tx.ReminderUnit = models.UnitDays
	txs := &fakeTxStore{txs: []models.Transaction{tx}}
	settings := newFakeSettings()
	svc := NewReminderService(settings, txs, DefaultReminderPolicy, helpers.FixedClock(reminderNow))

	got, err := svc.GetUpcomingReminders(helpers.TestCtx())
	if err != nil {
		t.Fatalf("GetUpcomingReminders error: %v", err)
	}
	if len(got) != 1 || got[0].Transaction.ID != "rent" {
		t.Fatalf("reminders = %v", reminderIDs(got))
	}

	txs.txs[0].ReminderValue = "1"
	got, err = svc.GetUpcomingReminders(helpers.TestCtx())
	if err != nil {
		t.Fatalf("GetUpcomingReminders error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no reminders, got %v", reminderIDs(got))
	}
}

func TestGetUpcomingRemindersDisabled(t *testing.T) {
	settings := newFakeSettings()
	settings.reminders.Enabled = helpers.Ptr(false)
	txs := &fakeTxStore{txs: []models.Transaction{pendingTx("x", dayOffset(reminderNow, 0), models.ReminderAlways)}}
	svc := NewReminderService(settings, txs, DefaultReminderPolicy, helpers.FixedClock(reminderNow))

	got, err := svc.GetUpcomingReminders(helpers.TestCtx())
	if err != nil {
		t.Fatalf("GetUpcomingReminders error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no reminders while disabled")
	}
}

func TestSessionDismissalClearedOnNewSession(t *testing.T) {
	txs := &fakeTxStore{txs: []models.Transaction{pendingTx("x", dayOffset(reminderNow, 0), models.ReminderAlways)}}
	svc := NewReminderService(newFakeSettings(), txs, DefaultReminderPolicy, helpers.FixedClock(reminderNow))
	ctx := helpers.TestCtx()

	svc.DismissForSession("x")
	got, _ := svc.GetUpcomingReminders(ctx)
	if len(got) != 0 {
		t.Fatalf("dismissed reminder still returned")
	}

	svc.ClearSessionDismissals()
	got, _ = svc.GetUpcomingReminders(ctx)
	if len(got) != 1 {
		t.Fatalf("expected reminder to reappear after session boundary")
	}
}

func TestPersistedSessionDismissalScopedToSession(t *testing.T) {
	settings := newFakeSettings()
	txs := &fakeTxStore{txs: []models.Transaction{pendingTx("x", dayOffset(reminderNow, 0), models.ReminderAlways)}}
	svc := NewReminderService(settings, txs, DefaultReminderPolicy, helpers.FixedClock(reminderNow))
	ctx := helpers.TestCtx()

	if err := svc.DismissReminder(ctx, "x", dto.DismissSession); err != nil {
		t.Fatalf("DismissReminder error: %v", err)
	}
	if settings.dismissals["x"].SessionID != svc.SessionID() {
		t.Fatalf("persisted dismissal missing session id: %+v", settings.dismissals["x"])
	}

	// A restarted process gets a fresh session id.
	restarted := NewReminderService(settings, txs, DefaultReminderPolicy, helpers.FixedClock(reminderNow))
	dismissed, err := restarted.IsReminderDismissed(ctx, "x")
	if err != nil {
		t.Fatalf("IsReminderDismissed error: %v", err)
	}
	if dismissed {
		t.Fatalf("session dismissal leaked into a new session")
	}
}

func TestTimedDismissalExpires(t *testing.T) {
	clock := &mutableClock{now: reminderNow}
	settings := newFakeSettings()
	txs := &fakeTxStore{txs: []models.Transaction{pendingTx("x", dayOffset(reminderNow, 0), models.ReminderAlways)}}
	svc := NewReminderService(settings, txs, DefaultReminderPolicy, clock.Now)
	ctx := helpers.TestCtx()

	if err := svc.DismissReminder(ctx, "x", dto.DismissHour); err != nil {
		t.Fatalf("DismissReminder error: %v", err)
	}
	if ok, _ := svc.IsReminderDismissed(ctx, "x"); !ok {
		t.Fatalf("expected dismissal to apply")
	}

	clock.now = reminderNow.Add(61 * time.Minute)
	if ok, _ := svc.IsReminderDismissed(ctx, "x"); ok {
		t.Fatalf("expected dismissal to expire after an hour")
	}
}

func TestDismissReminderRejectsUnknownDuration(t *testing.T) {
	svc := NewReminderService(newFakeSettings(), &fakeTxStore{}, DefaultReminderPolicy, helpers.FixedClock(reminderNow))
	if err := svc.DismissReminder(helpers.TestCtx(), "x", "forever"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestSaveSettingsPrunesDismissals(t *testing.T) {
	settings := newFakeSettings()
	settings.dismissals = models.ReminderDismissals{
		"expired": {DismissUntil: reminderNow.Add(-time.Hour).Format(time.RFC3339)},
		"live":    {DismissUntil: reminderNow.Add(time.Hour).Format(time.RFC3339)},
		"foreign": {DismissUntil: models.SessionMarker, SessionID: "old-session"},
	}
	svc := NewReminderService(settings, &fakeTxStore{}, DefaultReminderPolicy, helpers.FixedClock(reminderNow))

	if _, err := svc.SaveSettings(helpers.TestCtx(), models.DefaultReminderSettings()); err != nil {
		t.Fatalf("SaveSettings error: %v", err)
	}
	if len(settings.dismissals) != 1 {
		t.Fatalf("dismissals after prune = %+v", settings.dismissals)
	}
	if _, ok := settings.dismissals["live"]; !ok {
		t.Fatalf("live dismissal pruned")
	}
}
