package store

import (
	"context"
	"strings"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

type transactionStore struct {
	kv KV
}

func NewTransactionStore(kv KV) *transactionStore {
	return &transactionStore{kv: kv}
}

// List returns every transaction, normalized.
func (s *transactionStore) List(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if _, err := s.kv.Get(ctx, KeyTransactions, &txs); err != nil {
		return nil, err
	}
	for i := range txs {
		NormalizeTransaction(&txs[i])
	}
	return txs, nil
}

// SaveAll replaces the full transaction list.
func (s *transactionStore) SaveAll(ctx context.Context, txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	return s.kv.Set(ctx, KeyTransactions, txs)
}

// NormalizeTransaction applies the load-time defaults and maps the legacy
// reminderFrequency field onto reminderType.
func NormalizeTransaction(tx *models.Transaction) {
	if strings.TrimSpace(tx.Currency) == "" {
		tx.Currency = models.DefaultCurrency
	}
	if tx.AccountID == "" {
		tx.AccountID = models.DefaultAccountID
	}
	if tx.ReminderType == "" && tx.ReminderFrequency != "" {
		tx.ReminderType = reminderTypeFromFrequency(tx.ReminderFrequency)
	}
	tx.ReminderFrequency = ""
}

func reminderTypeFromFrequency(freq string) models.ReminderType {
	switch freq {
	case "never":
		return models.ReminderNone
	case "always":
		return models.ReminderAlways
	case "custom_date":
		return models.ReminderSpecificDate
	default:
		return models.ReminderCustomDuration
	}
}
