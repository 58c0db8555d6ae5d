package services

import (
	"context"
	"sync"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

type fakeSettings struct {
	mu sync.Mutex

	reminders      models.ReminderSettings
	dismissals     models.ReminderDismissals
	backup         models.ScheduledBackupSettings
	lastBackupDate string
	currency       models.CurrencySettings
	rates          models.ExchangeRates
	pinHash        string

	err          error
	saveDismissN int
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{
		reminders:  models.DefaultReminderSettings(),
		dismissals: models.ReminderDismissals{},
		backup:     models.DefaultScheduledBackupSettings(),
		currency:   models.DefaultCurrencySettings(),
	}
}

func (f *fakeSettings) ReminderSettings(ctx context.Context) (models.ReminderSettings, error) {
	return f.reminders, f.err
}

func (f *fakeSettings) SaveReminderSettings(ctx context.Context, s models.ReminderSettings) error {
	f.reminders = s
	return f.err
}

func (f *fakeSettings) Dismissals(ctx context.Context) (models.ReminderDismissals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := models.ReminderDismissals{}
	for k, v := range f.dismissals {
		out[k] = v
	}
	return out, f.err
}

func (f *fakeSettings) SaveDismissals(ctx context.Context, d models.ReminderDismissals) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissals = d
	f.saveDismissN++
	return f.err
}

func (f *fakeSettings) ScheduledBackupSettings(ctx context.Context) (models.ScheduledBackupSettings, error) {
	return f.backup, f.err
}

func (f *fakeSettings) SaveScheduledBackupSettings(ctx context.Context, s models.ScheduledBackupSettings) error {
	f.backup = s
	return f.err
}

func (f *fakeSettings) LastBackupDate(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBackupDate, f.err
}

func (f *fakeSettings) SetLastBackupDate(ctx context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastBackupDate = date
	return f.err
}

func (f *fakeSettings) CurrencySettings(ctx context.Context) (models.CurrencySettings, error) {
	return f.currency, f.err
}

func (f *fakeSettings) SaveCurrencySettings(ctx context.Context, s models.CurrencySettings) error {
	f.currency = s
	return f.err
}

func (f *fakeSettings) ExchangeRates(ctx context.Context) (models.ExchangeRates, error) {
	return f.rates, f.err
}

func (f *fakeSettings) SaveExchangeRates(ctx context.Context, r models.ExchangeRates) error {
	f.rates = r
	return f.err
}

func (f *fakeSettings) PinHash(ctx context.Context) (string, error) {
	return f.pinHash, f.err
}

func (f *fakeSettings) SetPinHash(ctx context.Context, hash string) error {
	f.pinHash = hash
	return f.err
}

type fakeTxStore struct {
	txs     []models.Transaction
	listErr error
	saveErr error
	saves   int
}

func (f *fakeTxStore) List(ctx context.Context) ([]models.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Transaction, len(f.txs))
	copy(out, f.txs)
	return out, nil
}

func (f *fakeTxStore) SaveAll(ctx context.Context, txs []models.Transaction) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.txs = txs
	return nil
}

type fakeAccountStore struct {
	accounts []models.Account
	activeID string
	err      error
	saveErr  error
}

func (f *fakeAccountStore) List(ctx context.Context) ([]models.Account, error) {
	return append([]models.Account(nil), f.accounts...), f.err
}

func (f *fakeAccountStore) SaveAll(ctx context.Context, accounts []models.Account) error {
	if f.err != nil {
		return f.err
	}
	if f.saveErr != nil {
		return f.saveErr
	}
	f.accounts = accounts
	return nil
}

func (f *fakeAccountStore) ActiveID(ctx context.Context) (string, error) {
	return f.activeID, f.err
}

func (f *fakeAccountStore) SetActiveID(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.activeID = id
	return nil
}
