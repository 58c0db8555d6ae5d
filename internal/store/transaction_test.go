package store

import (
	"context"
	"testing"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

func TestTransactionStoreNormalizesLegacyRecords(t *testing.T) {
	kv := NewMemoryKV()
	kv.SetRaw(KeyTransactions, []byte(`[
		{"id":"t1","type":"expense","amount":"12.50","date":"2025-01-10","status":"Pending","reminderFrequency":"never"},
		{"id":"t2","type":"expense","amount":3,"date":"2025-01-11","status":"Pending","reminderFrequency":"always"},
		{"id":"t3","type":"expense","amount":"bad","date":"2025-01-12","status":"Pending","reminderFrequency":"custom_date","reminderDate":"2025-01-05"},
		{"id":"t4","type":"income","amount":"7","date":"2025-01-13","reminderFrequency":"weekly","reminderValue":"2","reminderUnit":"weeks","currency":"EUR","accountId":"acc-2"}
	]`))

	txs, err := NewTransactionStore(kv).List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(txs) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(txs))
	}

	want := []models.ReminderType{
		models.ReminderNone,
		models.ReminderAlways,
		models.ReminderSpecificDate,
		models.ReminderCustomDuration,
	}
	for i, tx := range txs {
		if tx.ReminderType != want[i] {
			t.Fatalf("%s reminderType = %q, want %q", tx.ID, tx.ReminderType, want[i])
		}
		if tx.ReminderFrequency != "" {
			t.Fatalf("%s legacy field not cleared", tx.ID)
		}
	}

	if txs[0].Currency != "USD" || txs[0].AccountID != models.DefaultAccountID {
		t.Fatalf("defaults not applied: %+v", txs[0])
	}
	if txs[3].Currency != "EUR" || txs[3].AccountID != "acc-2" {
		t.Fatalf("explicit values overwritten: %+v", txs[3])
	}
	if txs[2].Amount.Valid() {
		t.Fatalf("malformed amount reported valid")
	}
	if v, ok := txs[3].ReminderValue.Int(); !ok || v != 2 {
		t.Fatalf("reminderValue = %v %v, want 2", v, ok)
	}
}

func TestTransactionStoreKeepsReminderTypeOverLegacyField(t *testing.T) {
	tx := models.Transaction{ReminderType: models.ReminderAlways, ReminderFrequency: "never"}
	NormalizeTransaction(&tx)
	if tx.ReminderType != models.ReminderAlways {
		t.Fatalf("reminderType = %q, want always", tx.ReminderType)
	}
}

func TestTransactionStoreSaveAllRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	s := NewTransactionStore(kv)
	ctx := context.Background()

	in := []models.Transaction{{ID: "a", Type: models.TypeExpense, Amount: "9.99", Date: "2025-02-01"}}
	if err := s.SaveAll(ctx, in); err != nil {
		t.Fatalf("SaveAll error: %v", err)
	}
	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(out) != 1 || out[0].ID != "a" || string(out[0].Amount) != "9.99" {
		t.Fatalf("unexpected transactions: %+v", out)
	}
}

func TestTagStoreSeedsMissingKinds(t *testing.T) {
	kv := NewMemoryKV()
	kv.SetRaw(KeyTags, []byte(`{"categories":[{"name":"Rent"}]}`))

	tags, err := NewTagStore(kv).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(tags[models.TagCategories]) != 1 || tags[models.TagCategories][0].Name != "Rent" {
		t.Fatalf("stored categories replaced: %+v", tags[models.TagCategories])
	}
	if len(tags[models.TagStatuses]) != 3 {
		t.Fatalf("statuses not seeded: %+v", tags[models.TagStatuses])
	}
}

func TestSettingsStoreDefaults(t *testing.T) {
	s := NewSettingsStore(NewMemoryKV())
	ctx := context.Background()

	rs, err := s.ReminderSettings(ctx)
	if err != nil {
		t.Fatalf("ReminderSettings error: %v", err)
	}
	if !rs.IsEnabled() {
		t.Fatal("reminders should default to enabled")
	}

	bs, err := s.ScheduledBackupSettings(ctx)
	if err != nil {
		t.Fatalf("ScheduledBackupSettings error: %v", err)
	}
	if bs.Enabled || bs.BackupTime != "09:00" || bs.Frequency != models.FrequencyDaily {
		t.Fatalf("unexpected backup defaults: %+v", bs)
	}

	if err := s.SetPinHash(ctx, "hash"); err != nil {
		t.Fatalf("SetPinHash error: %v", err)
	}
	if err := s.SetPinHash(ctx, ""); err != nil {
		t.Fatalf("clear pin error: %v", err)
	}
	if h, _ := s.PinHash(ctx); h != "" {
		t.Fatalf("pin hash not cleared: %q", h)
	}
}
