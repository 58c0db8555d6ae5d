package services

import (
	"context"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/pocket-ledger/internal/currency"
	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

type transactionStore interface {
	List(ctx context.Context) ([]models.Transaction, error)
	SaveAll(ctx context.Context, txs []models.Transaction) error
}

type transactionSettingsStore interface {
	ReminderSettings(ctx context.Context) (models.ReminderSettings, error)
	CurrencySettings(ctx context.Context) (models.CurrencySettings, error)
}

type transactionAccountStore interface {
	ActiveID(ctx context.Context) (string, error)
}

type transactionService struct {
	txs      transactionStore
	settings transactionSettingsStore
	accounts transactionAccountStore
	now      func() time.Time

	mu sync.Mutex
}

func NewTransactionService(txs transactionStore, settings transactionSettingsStore, accounts transactionAccountStore, now func() time.Time) *transactionService {
	if now == nil {
		now = time.Now
	}
	return &transactionService{txs: txs, settings: settings, accounts: accounts, now: now}
}

// List returns the filtered transactions, newest date first.
func (s *transactionService) List(ctx context.Context, f dto.TransactionFilter) ([]models.Transaction, error) {
	active, err := s.accounts.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	out := applyFilter(txs, f, active)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *transactionService) Get(ctx context.Context, id string) (*models.Transaction, error) {
	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if txs[i].ID == id {
			return &txs[i], nil
		}
	}
	return nil, errs.NewNotFoundError("transaction not found")
}

// Create assigns an id and timestamps and fills blank fields from settings.
func (s *transactionService) Create(ctx context.Context, tx models.Transaction) (*models.Transaction, error) {
	if err := s.applyDefaults(ctx, &tx); err != nil {
		return nil, err
	}
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	tx.ID = uuid.NewString()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.txs.SaveAll(ctx, append(txs, tx)); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("transaction created", "transaction_id", tx.ID, "account_id", tx.AccountID)
	return &tx, nil
}

// Update replaces a transaction, keeping its id and creation time.
func (s *transactionService) Update(ctx context.Context, id string, tx models.Transaction) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.txs.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOfTransaction(txs, id)
	if idx < 0 {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	existing := txs[idx]
	tx.ID = existing.ID
	tx.CreatedAt = existing.CreatedAt
	if tx.AccountID == "" {
		tx.AccountID = existing.AccountID
	}
	tx.Currency = currency.Normalize(tx.Currency, existing.Currency)
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}
	tx.UpdatedAt = s.now().UTC()
	txs[idx] = tx
	if err := s.txs.SaveAll(ctx, txs); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *transactionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.txs.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOfTransaction(txs, id)
	if idx < 0 {
		return errs.NewNotFoundError("transaction not found")
	}
	txs = append(txs[:idx], txs[idx+1:]...)
	if err := s.txs.SaveAll(ctx, txs); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("transaction deleted", "transaction_id", id)
	return nil
}

// DeleteByAccount removes every transaction of accountID and returns how many went.
func (s *transactionService) DeleteByAccount(ctx context.Context, accountID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.txs.List(ctx)
	if err != nil {
		return 0, err
	}
	kept := txs[:0]
	for _, tx := range txs {
		if tx.AccountID != accountID {
			kept = append(kept, tx)
		}
	}
	removed := len(txs) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.txs.SaveAll(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// RenameField rewrites the tag field of kind from oldName to newName on every
// transaction whose value equals oldName exactly.
func (s *transactionService) RenameField(ctx context.Context, kind models.TagKind, oldName, newName string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txs, err := s.txs.List(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	now := s.now().UTC()
	for i := range txs {
		field := tagField(&txs[i], kind)
		if field == nil || *field != oldName {
			continue
		}
		*field = newName
		txs[i].UpdatedAt = now
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	if err := s.txs.SaveAll(ctx, txs); err != nil {
		return 0, err
	}
	return changed, nil
}

// ExportCSV writes the filtered transactions as CSV with a header row.
func (s *transactionService) ExportCSV(ctx context.Context, f dto.TransactionFilter, w io.Writer) error {
	txs, err := s.List(ctx, f)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	header := []string{"id", "date", "type", "amount", "currency", "status", "category", "payee", "paymentMethod", "description", "accountId"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, tx := range txs {
		amount := string(tx.Amount)
		if d, err := tx.Amount.Decimal(); err == nil {
			amount = d.String()
		}
		row := []string{tx.ID, tx.Date, string(tx.Type), amount, tx.Currency, tx.Status, tx.Category, tx.Payee, tx.PaymentMethod, tx.Description, tx.AccountID}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *transactionService) applyDefaults(ctx context.Context, tx *models.Transaction) error {
	if tx.AccountID == "" {
		active, err := s.accounts.ActiveID(ctx)
		if err != nil {
			return err
		}
		tx.AccountID = active
		if tx.AccountID == "" {
			tx.AccountID = models.DefaultAccountID
		}
	}
	if tx.Status == "" {
		tx.Status = models.StatusDone
	}
	cs, err := s.settings.CurrencySettings(ctx)
	if err != nil {
		return err
	}
	tx.Currency = currency.Normalize(tx.Currency, currency.Normalize(cs.DefaultCurrency, models.DefaultCurrency))

	if tx.ReminderType != "" || (tx.Status != models.StatusPending && tx.Status != models.StatusInFuture) {
		return nil
	}
	rs, err := s.settings.ReminderSettings(ctx)
	if err != nil {
		return err
	}
	tx.ReminderType = rs.DefaultReminderType
	if tx.ReminderType == models.ReminderCustomDuration {
		if tx.ReminderValue == "" {
			tx.ReminderValue = models.FlexNumber(strconv.Itoa(rs.DefaultReminderValue))
		}
		if tx.ReminderUnit == "" {
			tx.ReminderUnit = rs.DefaultReminderUnit
		}
	}
	return nil
}

func validateTransaction(tx models.Transaction) error {
	switch tx.Type {
	case models.TypeExpense, models.TypeIncome:
	default:
		return errs.NewValidationError("type must be expense or income")
	}
	if _, err := time.Parse(models.DateLayout, tx.Date); err != nil {
		return errs.NewValidationError("date must be YYYY-MM-DD")
	}
	if !tx.Amount.Valid() {
		return errs.NewValidationError("amount must be a positive number")
	}
	switch tx.ReminderType {
	case "", models.ReminderNone, models.ReminderAlways, models.ReminderSpecificDate:
	case models.ReminderCustomDuration:
		if _, ok := ReminderLeadDays(tx.ReminderValue, tx.ReminderUnit); !ok {
			return errs.NewValidationError("reminderValue must be a non-negative number")
		}
	default:
		return errs.NewValidationError("invalid reminderType")
	}
	switch tx.ReminderUnit {
	case "", models.UnitDays, models.UnitWeeks, models.UnitMonths:
	default:
		return errs.NewValidationError("reminderUnit must be days, weeks or months")
	}
	if tx.ReminderDate != "" {
		if _, err := time.Parse(models.DateLayout, tx.ReminderDate); err != nil {
			return errs.NewValidationError("reminderDate must be YYYY-MM-DD")
		}
	}
	if len(strings.TrimSpace(tx.Currency)) != 3 {
		return errs.NewValidationError("currency must be a 3-letter code")
	}
	return nil
}

func indexOfTransaction(txs []models.Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}
	return -1
}

func tagField(tx *models.Transaction, kind models.TagKind) *string {
	switch kind {
	case models.TagCategories:
		return &tx.Category
	case models.TagPayees:
		return &tx.Payee
	case models.TagPaymentMethods:
		return &tx.PaymentMethod
	case models.TagStatuses:
		return &tx.Status
	default:
		return nil
	}
}
