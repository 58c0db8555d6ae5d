package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/pocket-ledger/internal/currency"
	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/internal/store"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

const backupApp = "pocket-ledger"

// backupMigrations upgrades a document of the keyed major version to the
// current schema.
var backupMigrations = map[int]func(raw []byte, now time.Time) (*models.BackupDocument, error){
	1: migrateV1,
}

type backupTxSource interface {
	List(ctx context.Context) ([]models.Transaction, error)
}

type backupTagSource interface {
	Load(ctx context.Context) (models.Tags, error)
}

type backupAccountSource interface {
	List(ctx context.Context) ([]models.Account, error)
	ActiveID(ctx context.Context) (string, error)
}

type backupSettingsSource interface {
	ReminderSettings(ctx context.Context) (models.ReminderSettings, error)
	ScheduledBackupSettings(ctx context.Context) (models.ScheduledBackupSettings, error)
	LastBackupDate(ctx context.Context) (string, error)
	CurrencySettings(ctx context.Context) (models.CurrencySettings, error)
	ExchangeRates(ctx context.Context) (models.ExchangeRates, error)
}

type backupWriter interface {
	SetMany(ctx context.Context, values map[string]any) error
}

type backupCodec struct {
	txs      backupTxSource
	tags     backupTagSource
	accounts backupAccountSource
	settings backupSettingsSource
	kv       backupWriter
	dir      string
	now      func() time.Time
}

// NewBackupCodec builds the backup producer and importer. dir is where
// downloadable files are written; blank keeps them in memory only.
func NewBackupCodec(txs backupTxSource, tags backupTagSource, accounts backupAccountSource, settings backupSettingsSource, kv backupWriter, dir string, now func() time.Time) *backupCodec {
	if now == nil {
		now = time.Now
	}
	return &backupCodec{
		txs:      txs,
		tags:     tags,
		accounts: accounts,
		settings: settings,
		kv:       kv,
		dir:      dir,
		now:      now,
	}
}

// CreateBackupDocument snapshots every store into a current-version document.
func (c *backupCodec) CreateBackupDocument(ctx context.Context) (*models.BackupDocument, error) {
	txs, err := c.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := c.tags.Load(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := c.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	active, err := c.accounts.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	reminders, err := c.settings.ReminderSettings(ctx)
	if err != nil {
		return nil, err
	}
	scheduled, err := c.settings.ScheduledBackupSettings(ctx)
	if err != nil {
		return nil, err
	}
	last, err := c.settings.LastBackupDate(ctx)
	if err != nil {
		return nil, err
	}
	cs, err := c.settings.CurrencySettings(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := c.settings.ExchangeRates(ctx)
	if err != nil {
		return nil, err
	}

	if txs == nil {
		txs = []models.Transaction{}
	}
	if len(accounts) == 0 {
		accounts = []models.Account{models.DefaultAccount(c.now().UTC())}
	}
	if active == "" {
		active = models.DefaultAccountID
	}

	conv := currency.NewConverter(cs.BaseCurrency, rates)
	target := currency.Normalize(cs.ReportCurrency, conv.Base())
	stats := ComputeStats(txs, conv, target, dto.BucketMonthly)

	return &models.BackupDocument{
		Meta: models.BackupMeta{
			Version:   models.CurrentBackupVersion,
			CreatedAt: c.now().UTC(),
			App:       backupApp,
		},
		Stats: models.BackupStats{
			TransactionCount: len(txs),
			AccountCount:     len(accounts),
			TotalIncome:      stats.TotalIncome.String(),
			TotalExpenses:    stats.TotalExpenses.String(),
			Balance:          stats.Balance.String(),
			Currency:         target,
		},
		Transactions: txs,
		Tags:         tags,
		Settings: models.AppSettings{
			Reminders:       reminders,
			ScheduledBackup: scheduled,
			LastBackupDate:  last,
		},
		CurrencySettings: cs,
		ExchangeRates:    rates,
		Accounts:         accounts,
		ActiveAccountID:  active,
	}, nil
}

// ExportAsDownloadableFile serializes doc as pocket-ledger-backup-YYYY-MM-DD.json.
// Failures are reported in the result.
func (c *backupCodec) ExportAsDownloadableFile(ctx context.Context, doc *models.BackupDocument) dto.ExportResult {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return dto.ExportResult{Error: fmt.Sprintf("serialize backup: %v", err)}
	}
	result := dto.ExportResult{
		Success:  true,
		FileName: models.BackupFileName(c.now()),
		Data:     data,
	}
	if c.dir == "" {
		return result
	}

	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return dto.ExportResult{Error: fmt.Sprintf("create backup directory: %v", err)}
	}
	path := filepath.Join(c.dir, result.FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return dto.ExportResult{Error: fmt.Sprintf("write backup file: %v", err)}
	}
	result.Path = path
	logger.FromContext(ctx).Info("backup file written", "path", path, "bytes", len(data))
	return result
}

// Validate checks a raw backup. Errors block an import, warnings do not.
func (c *backupCodec) Validate(raw []byte) dto.BackupValidation {
	return ValidateBackup(raw)
}

func ValidateBackup(raw []byte) dto.BackupValidation {
	result := dto.BackupValidation{Errors: []string{}, Warnings: []string{}}
	fail := func(msg string) dto.BackupValidation {
		result.Errors = append(result.Errors, msg)
		return result
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return fail("file is not a valid backup: expected a JSON object")
	}

	var meta struct {
		Version string `json:"version"`
	}
	if m, ok := top["meta"]; !ok {
		result.Warnings = append(result.Warnings, "missing meta section; assuming version 1.0")
	} else if err := json.Unmarshal(m, &meta); err != nil {
		result.Warnings = append(result.Warnings, "meta section is malformed; assuming version 1.0")
	}
	version := meta.Version
	if version == "" {
		version = "1.0"
		if _, ok := top["meta"]; ok {
			result.Warnings = append(result.Warnings, "missing meta.version; assuming 1.0")
		}
	}
	major, _, ok := parseBackupVersion(version)
	if !ok {
		return fail(fmt.Sprintf("unrecognized backup version %q", version))
	}
	result.Version = version
	currentMajor, _, _ := parseBackupVersion(models.CurrentBackupVersion)
	if major > currentMajor {
		result.Warnings = append(result.Warnings, fmt.Sprintf("backup version %s is newer than supported version %s", version, models.CurrentBackupVersion))
	}

	rawTxs, ok := top["transactions"]
	if !ok {
		return fail("missing transactions")
	}
	var txs []map[string]json.RawMessage
	if err := json.Unmarshal(rawTxs, &txs); err != nil || txs == nil {
		return fail("transactions must be an array of objects")
	}
	missingID, unreadable, badFields := 0, 0, 0
	for _, tx := range txs {
		if id, ok := tx["id"]; !ok || string(id) == `""` || string(id) == "null" {
			missingID++
		}
		b, _ := json.Marshal(tx)
		var decoded models.Transaction
		if err := json.Unmarshal(b, &decoded); err != nil {
			unreadable++
			continue
		}
		if !decoded.Amount.Valid() {
			badFields++
			continue
		}
		if _, err := time.Parse(models.DateLayout, decoded.Date); err != nil {
			badFields++
		}
	}
	if missingID > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d transactions have no id; new ids will be assigned", missingID))
	}
	if unreadable > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d transactions could not be read and will be skipped", unreadable))
	}
	if badFields > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d transactions have an invalid amount or date and will be excluded from statistics", badFields))
	}

	for _, key := range []string{"tags", "settings"} {
		if _, ok := top[key]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("missing %s; defaults will be used", key))
		}
	}
	if _, ok := top["accounts"]; !ok && major >= currentMajor {
		result.Warnings = append(result.Warnings, "missing accounts; the default account will be created")
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// MigrateBackup decodes raw and upgrades it to the current schema.
func MigrateBackup(raw []byte, now time.Time) (*models.BackupDocument, error) {
	var head struct {
		Meta struct {
			Version string `json:"version"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	version := head.Meta.Version
	if version == "" {
		version = "1.0"
	}
	major, _, ok := parseBackupVersion(version)
	if !ok {
		return nil, fmt.Errorf("unrecognized backup version %q", version)
	}
	if migrate, ok := backupMigrations[major]; ok {
		return migrate(raw, now)
	}

	var wire struct {
		models.BackupDocument
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	doc := wire.BackupDocument
	txs, err := decodeTransactions(wire.Transactions)
	if err != nil {
		return nil, err
	}
	doc.Transactions = txs
	return &doc, nil
}

// decodeTransactions decodes each record on its own and skips the ones that
// do not fit the transaction schema.
func decodeTransactions(raw json.RawMessage) ([]models.Transaction, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	txs := make([]models.Transaction, 0, len(records))
	for _, rec := range records {
		var tx models.Transaction
		if err := json.Unmarshal(rec, &tx); err != nil {
			continue
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// migrateV1 adds accounts: it seeds the default account and assigns every
// transaction to it.
func migrateV1(raw []byte, now time.Time) (*models.BackupDocument, error) {
	var v1 struct {
		models.BackupDocumentV1
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(raw, &v1); err != nil {
		return nil, fmt.Errorf("decode v1 backup: %w", err)
	}
	txs, err := decodeTransactions(v1.Transactions)
	if err != nil {
		return nil, err
	}

	doc := &models.BackupDocument{
		Meta:             v1.Meta,
		Transactions:     txs,
		Tags:             v1.Tags,
		CurrencySettings: v1.CurrencySettings,
		ExchangeRates:    v1.ExchangeRates,
		Accounts:         []models.Account{models.DefaultAccount(now.UTC())},
		ActiveAccountID:  models.DefaultAccountID,
	}
	if len(v1.Settings) > 0 {
		var settings models.AppSettings
		if err := json.Unmarshal(v1.Settings, &settings); err == nil {
			doc.Settings = settings
		}
		// Early v1 files kept the reminder settings at the top of the settings object.
		if doc.Settings.Reminders == (models.ReminderSettings{}) {
			var legacy models.ReminderSettings
			if err := json.Unmarshal(v1.Settings, &legacy); err == nil {
				doc.Settings.Reminders = legacy
			}
		}
	}
	for i := range doc.Transactions {
		if doc.Transactions[i].AccountID == "" {
			doc.Transactions[i].AccountID = models.DefaultAccountID
		}
	}

	from := v1.Meta.Version
	if from == "" {
		from = "1.0"
	}
	migratedAt := now.UTC()
	doc.Meta.MigratedFrom = from
	doc.Meta.MigratedAt = &migratedAt
	doc.Meta.Version = models.CurrentBackupVersion
	if doc.Meta.App == "" {
		doc.Meta.App = backupApp
	}
	return doc, nil
}

// ImportBackup validates, migrates and normalizes raw, then replaces every
// store in one batch. Problems are reported in the result.
func (c *backupCodec) ImportBackup(ctx context.Context, raw []byte) dto.ImportResult {
	log := logger.FromContext(ctx)
	validation := ValidateBackup(raw)
	if !validation.Valid {
		return dto.ImportResult{Error: strings.Join(validation.Errors, "; "), Warnings: validation.Warnings}
	}

	now := c.now()
	doc, err := MigrateBackup(raw, now)
	if err != nil {
		return dto.ImportResult{Error: err.Error(), Warnings: validation.Warnings}
	}
	warnings := append(validation.Warnings, normalizeBackup(doc, now)...)

	values := map[string]any{
		store.KeyTransactions:            doc.Transactions,
		store.KeyTags:                    doc.Tags,
		store.KeyAccounts:                doc.Accounts,
		store.KeyActiveAccountID:         doc.ActiveAccountID,
		store.KeyReminderSettings:        doc.Settings.Reminders,
		store.KeyScheduledBackupSettings: doc.Settings.ScheduledBackup,
		store.KeyLastBackupDate:          doc.Settings.LastBackupDate,
		store.KeyCurrencySettings:        doc.CurrencySettings,
		store.KeyExchangeRates:           doc.ExchangeRates,
	}
	if err := c.kv.SetMany(ctx, values); err != nil {
		log.Error("backup import failed", "error", err)
		return dto.ImportResult{Error: fmt.Sprintf("could not save imported data: %v", err), Warnings: warnings}
	}

	log.Info("backup imported", "transactions", len(doc.Transactions), "accounts", len(doc.Accounts), "migrated_from", doc.Meta.MigratedFrom)
	return dto.ImportResult{
		Success:      true,
		Warnings:     warnings,
		Transactions: len(doc.Transactions),
		Accounts:     len(doc.Accounts),
		MigratedFrom: doc.Meta.MigratedFrom,
	}
}

// normalizeBackup enforces the store invariants on an imported document and
// returns warnings for every repair it made.
func normalizeBackup(doc *models.BackupDocument, now time.Time) []string {
	var warnings []string

	if findAccount(doc.Accounts, models.DefaultAccountID) < 0 {
		doc.Accounts = append([]models.Account{models.DefaultAccount(now.UTC())}, doc.Accounts...)
		warnings = append(warnings, "default account was missing and has been recreated")
	}
	if findAccount(doc.Accounts, doc.ActiveAccountID) < 0 {
		doc.ActiveAccountID = models.DefaultAccountID
	}

	if doc.Transactions == nil {
		doc.Transactions = []models.Transaction{}
	}
	reassigned := 0
	for i := range doc.Transactions {
		tx := &doc.Transactions[i]
		store.NormalizeTransaction(tx)
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if findAccount(doc.Accounts, tx.AccountID) < 0 {
			tx.AccountID = models.DefaultAccountID
			reassigned++
		}
	}
	if reassigned > 0 {
		warnings = append(warnings, fmt.Sprintf("%d transactions referenced unknown accounts and were moved to the default account", reassigned))
	}

	defaults := models.DefaultTags()
	if doc.Tags == nil {
		doc.Tags = models.Tags{}
	}
	for _, kind := range models.TagKinds {
		if _, ok := doc.Tags[kind]; !ok {
			doc.Tags[kind] = defaults[kind]
		}
	}

	if doc.Settings.Reminders == (models.ReminderSettings{}) {
		doc.Settings.Reminders = models.DefaultReminderSettings()
	}
	if doc.Settings.ScheduledBackup.BackupTime == "" {
		doc.Settings.ScheduledBackup.BackupTime = models.DefaultBackupTime
	}
	if doc.Settings.ScheduledBackup.Frequency == "" {
		doc.Settings.ScheduledBackup.Frequency = models.FrequencyDaily
	}

	// An empty table reads back as the built-in defaults.
	if doc.ExchangeRates == nil {
		doc.ExchangeRates = models.ExchangeRates{}
	}

	cs := &doc.CurrencySettings
	cs.BaseCurrency = currency.Normalize(cs.BaseCurrency, models.DefaultCurrency)
	cs.DefaultCurrency = currency.Normalize(cs.DefaultCurrency, cs.BaseCurrency)
	cs.ReportCurrency = currency.Normalize(cs.ReportCurrency, cs.BaseCurrency)
	return warnings
}

func parseBackupVersion(v string) (major, minor int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 3)
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return 0, 0, false
	}
	if len(parts) > 1 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, false
		}
	}
	return major, minor, true
}
