package services

import (
	"strings"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
)

// applyFilter returns the transactions matching f. A nil AccountID selects
// activeID; dto.AllAccounts selects every account.
func applyFilter(txs []models.Transaction, f dto.TransactionFilter, activeID string) []models.Transaction {
	account := helpers.ValueOr(f.AccountID, activeID)
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if account != dto.AllAccounts && account != "" && tx.AccountID != account {
			continue
		}
		if !matchField(f.Type, string(tx.Type)) ||
			!matchField(f.Status, tx.Status) ||
			!matchField(f.Category, tx.Category) ||
			!matchField(f.Payee, tx.Payee) ||
			!matchField(f.PaymentMethod, tx.PaymentMethod) {
			continue
		}
		if f.Currency != nil && !strings.EqualFold(*f.Currency, tx.Currency) {
			continue
		}
		// Dates are YYYY-MM-DD, so string order is calendar order.
		if f.DateFrom != nil && tx.Date < *f.DateFrom {
			continue
		}
		if f.DateTo != nil && tx.Date > *f.DateTo {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matchField(want *string, got string) bool {
	return want == nil || *want == got
}
