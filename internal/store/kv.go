package store

import (
	"context"
	"encoding/json"

	"github.com/GregMSThompson/pocket-ledger/internal/errs"
)

// Keys used by the application. Every persisted value is JSON.
const (
	KeyTransactions            = "transactions"
	KeyTags                    = "tags"
	KeyAccounts                = "accounts"
	KeyActiveAccountID         = "activeAccountId"
	KeyReminderSettings        = "reminderSettings"
	KeyReminderDismissals      = "reminderDismissals"
	KeyScheduledBackupSettings = "scheduledBackupSettings"
	KeyLastBackupDate          = "lastBackupDate"
	KeyCurrencySettings        = "currencySettings"
	KeyExchangeRates           = "exchangeRates"
	KeyPinHash                 = "pinHash"
)

// KV is the persistence collaborator: JSON values under string keys.
type KV interface {
	// Get decodes the value stored under key into dest and reports whether it existed.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// SetMany writes all entries atomically.
	SetMany(ctx context.Context, values map[string]any) error
	Delete(ctx context.Context, key string) error
}

func encode(key string, value any) ([]byte, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, errs.NewDatabaseError("encode", "failed to encode "+key, err)
	}
	return b, nil
}

func decode(key string, raw []byte, dest any) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return errs.NewDatabaseError("decode", "failed to decode "+key, err)
	}
	return nil
}

func encodeAll(values map[string]any) (map[string][]byte, error) {
	out := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := encode(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return out, nil
}
