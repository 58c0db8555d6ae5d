package models

type ReminderSettings struct {
	Enabled              *bool        `json:"enabled,omitempty"` // nil means enabled
	ShowOnStartup        bool         `json:"showOnStartup"`
	DefaultReminderType  ReminderType `json:"defaultReminderType,omitempty"`
	DefaultReminderValue int          `json:"defaultReminderValue,omitempty"`
	DefaultReminderUnit  ReminderUnit `json:"defaultReminderUnit,omitempty"`
}

func (s ReminderSettings) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		ShowOnStartup:        true,
		DefaultReminderType:  ReminderCustomDuration,
		DefaultReminderValue: 1,
		DefaultReminderUnit:  UnitDays,
	}
}

type BackupFrequency string

const (
	FrequencyDaily  BackupFrequency = "daily"
	FrequencyWeekly BackupFrequency = "weekly"
)

const DefaultBackupTime = "09:00"

type ScheduledBackupSettings struct {
	Enabled    bool            `json:"enabled"`
	BackupTime string          `json:"backupTime"` // HH:mm local
	Frequency  BackupFrequency `json:"frequency"`
}

func DefaultScheduledBackupSettings() ScheduledBackupSettings {
	return ScheduledBackupSettings{
		BackupTime: DefaultBackupTime,
		Frequency:  FrequencyDaily,
	}
}

type CurrencySettings struct {
	BaseCurrency    string `json:"baseCurrency"`
	DefaultCurrency string `json:"defaultCurrency"`
	ReportCurrency  string `json:"reportCurrency"`
}

func DefaultCurrencySettings() CurrencySettings {
	return CurrencySettings{
		BaseCurrency:    DefaultCurrency,
		DefaultCurrency: DefaultCurrency,
		ReportCurrency:  DefaultCurrency,
	}
}

// ExchangeRates maps a currency code to its rate relative to the base currency.
type ExchangeRates map[string]float64

// AppSettings is the settings section of a backup document.
type AppSettings struct {
	Reminders       ReminderSettings        `json:"reminders"`
	ScheduledBackup ScheduledBackupSettings `json:"scheduledBackup"`
	LastBackupDate  string                  `json:"lastBackupDate,omitempty"`
}
