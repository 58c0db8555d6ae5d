package store

import (
	"context"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

// settingsStore is the settings repository injected into the reminder and
// scheduled-backup services.
type settingsStore struct {
	kv KV
}

func NewSettingsStore(kv KV) *settingsStore {
	return &settingsStore{kv: kv}
}

func (s *settingsStore) ReminderSettings(ctx context.Context) (models.ReminderSettings, error) {
	settings := models.DefaultReminderSettings()
	if _, err := s.kv.Get(ctx, KeyReminderSettings, &settings); err != nil {
		return models.DefaultReminderSettings(), err
	}
	return settings, nil
}

func (s *settingsStore) SaveReminderSettings(ctx context.Context, settings models.ReminderSettings) error {
	return s.kv.Set(ctx, KeyReminderSettings, settings)
}

func (s *settingsStore) Dismissals(ctx context.Context) (models.ReminderDismissals, error) {
	dismissals := models.ReminderDismissals{}
	if _, err := s.kv.Get(ctx, KeyReminderDismissals, &dismissals); err != nil {
		return nil, err
	}
	if dismissals == nil {
		dismissals = models.ReminderDismissals{}
	}
	return dismissals, nil
}

func (s *settingsStore) SaveDismissals(ctx context.Context, dismissals models.ReminderDismissals) error {
	return s.kv.Set(ctx, KeyReminderDismissals, dismissals)
}

func (s *settingsStore) ScheduledBackupSettings(ctx context.Context) (models.ScheduledBackupSettings, error) {
	settings := models.DefaultScheduledBackupSettings()
	if _, err := s.kv.Get(ctx, KeyScheduledBackupSettings, &settings); err != nil {
		return models.DefaultScheduledBackupSettings(), err
	}
	if settings.BackupTime == "" {
		settings.BackupTime = models.DefaultBackupTime
	}
	if settings.Frequency == "" {
		settings.Frequency = models.FrequencyDaily
	}
	return settings, nil
}

func (s *settingsStore) SaveScheduledBackupSettings(ctx context.Context, settings models.ScheduledBackupSettings) error {
	return s.kv.Set(ctx, KeyScheduledBackupSettings, settings)
}

// LastBackupDate returns the YYYY-MM-DD of the last recorded backup, or "".
func (s *settingsStore) LastBackupDate(ctx context.Context) (string, error) {
	var date string
	if _, err := s.kv.Get(ctx, KeyLastBackupDate, &date); err != nil {
		return "", err
	}
	return date, nil
}

func (s *settingsStore) SetLastBackupDate(ctx context.Context, date string) error {
	return s.kv.Set(ctx, KeyLastBackupDate, date)
}

func (s *settingsStore) CurrencySettings(ctx context.Context) (models.CurrencySettings, error) {
	settings := models.DefaultCurrencySettings()
	if _, err := s.kv.Get(ctx, KeyCurrencySettings, &settings); err != nil {
		return models.DefaultCurrencySettings(), err
	}
	return settings, nil
}

func (s *settingsStore) SaveCurrencySettings(ctx context.Context, settings models.CurrencySettings) error {
	return s.kv.Set(ctx, KeyCurrencySettings, settings)
}

// ExchangeRates returns the stored rate table; nil when none was saved.
func (s *settingsStore) ExchangeRates(ctx context.Context) (models.ExchangeRates, error) {
	var rates models.ExchangeRates
	if _, err := s.kv.Get(ctx, KeyExchangeRates, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *settingsStore) SaveExchangeRates(ctx context.Context, rates models.ExchangeRates) error {
	return s.kv.Set(ctx, KeyExchangeRates, rates)
}

func (s *settingsStore) PinHash(ctx context.Context) (string, error) {
	var hash string
	if _, err := s.kv.Get(ctx, KeyPinHash, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *settingsStore) SetPinHash(ctx context.Context, hash string) error {
	if hash == "" {
		return s.kv.Delete(ctx, KeyPinHash)
	}
	return s.kv.Set(ctx, KeyPinHash, hash)
}
