package models

import (
	"encoding/json"
	"time"
)

const CurrentBackupVersion = "2.0"

// BackupFileName is the file name of a backup taken at t.
func BackupFileName(t time.Time) string {
	return "pocket-ledger-backup-" + t.Format(DateLayout) + ".json"
}

type BackupMeta struct {
	Version      string     `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	App          string     `json:"app,omitempty"`
	MigratedFrom string     `json:"migratedFrom,omitempty"`
	MigratedAt   *time.Time `json:"migratedAt,omitempty"`
}

type BackupStats struct {
	TransactionCount int    `json:"transactionCount"`
	AccountCount     int    `json:"accountCount"`
	TotalIncome      string `json:"totalIncome"`
	TotalExpenses    string `json:"totalExpenses"`
	Balance          string `json:"balance"`
	Currency         string `json:"currency"`
}

// BackupDocument is the current (2.0) backup schema.
type BackupDocument struct {
	Meta             BackupMeta       `json:"meta"`
	Stats            BackupStats      `json:"stats"`
	Transactions     []Transaction    `json:"transactions"`
	Tags             Tags             `json:"tags"`
	Settings         AppSettings      `json:"settings"`
	CurrencySettings CurrencySettings `json:"currencySettings"`
	ExchangeRates    ExchangeRates    `json:"exchangeRates"`
	Accounts         []Account        `json:"accounts"`
	ActiveAccountID  string           `json:"activeAccountId"`
}

// BackupDocumentV1 is the pre-accounts schema. Unknown fields are ignored.
type BackupDocumentV1 struct {
	Meta             BackupMeta       `json:"meta"`
	Transactions     []Transaction    `json:"transactions"`
	Tags             Tags             `json:"tags"`
	Settings         json.RawMessage  `json:"settings"`
	CurrencySettings CurrencySettings `json:"currencySettings"`
	ExchangeRates    ExchangeRates    `json:"exchangeRates"`
}
