package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

type accountRegistryStore interface {
	List(ctx context.Context) ([]models.Account, error)
	SaveAll(ctx context.Context, accounts []models.Account) error
	ActiveID(ctx context.Context) (string, error)
	SetActiveID(ctx context.Context, id string) error
}

type accountTxStore interface {
	DeleteByAccount(ctx context.Context, accountID string) (int, error)
}

type accountService struct {
	accounts accountRegistryStore
	txs      accountTxStore
	now      func() time.Time

	mu sync.Mutex
}

func NewAccountService(accounts accountRegistryStore, txs accountTxStore, now func() time.Time) *accountService {
	if now == nil {
		now = time.Now
	}
	return &accountService{accounts: accounts, txs: txs, now: now}
}

// EnsureDefault seeds the default account and repairs a dangling active id.
func (s *accountService) EnsureDefault(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureDefaultLocked(ctx)
}

func (s *accountService) ensureDefaultLocked(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	if findAccount(accounts, models.DefaultAccountID) < 0 {
		accounts = append([]models.Account{models.DefaultAccount(s.now().UTC())}, accounts...)
		if err := s.accounts.SaveAll(ctx, accounts); err != nil {
			return nil, err
		}
		logger.FromContext(ctx).Info("default account seeded")
	}

	active, err := s.accounts.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	if findAccount(accounts, active) < 0 {
		if err := s.accounts.SetActiveID(ctx, models.DefaultAccountID); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

func (s *accountService) List(ctx context.Context) ([]models.Account, error) {
	return s.EnsureDefault(ctx)
}

func (s *accountService) Create(ctx context.Context, req dto.AccountRequest) (*models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("account name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.ensureDefaultLocked(ctx)
	if err != nil {
		return nil, err
	}
	account := models.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Icon:      req.Icon,
		Color:     req.Color,
		CreatedAt: s.now().UTC(),
	}
	if err := s.accounts.SaveAll(ctx, append(accounts, account)); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("account created", "account_id", account.ID)
	return &account, nil
}

func (s *accountService) Update(ctx context.Context, id string, req dto.AccountRequest) (*models.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.NewValidationError("account name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.ensureDefaultLocked(ctx)
	if err != nil {
		return nil, err
	}
	idx := findAccount(accounts, id)
	if idx < 0 {
		return nil, errs.NewNotFoundError("account not found")
	}
	accounts[idx].Name = name
	accounts[idx].Icon = req.Icon
	accounts[idx].Color = req.Color
	if err := s.accounts.SaveAll(ctx, accounts); err != nil {
		return nil, err
	}
	account := accounts[idx]
	return &account, nil
}

// Delete removes a non-default, non-active account and its transactions.
func (s *accountService) Delete(ctx context.Context, id string) (dto.DeleteAccountResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.ensureDefaultLocked(ctx)
	if err != nil {
		return dto.DeleteAccountResult{}, err
	}
	idx := findAccount(accounts, id)
	if idx < 0 {
		return dto.DeleteAccountResult{}, errs.NewNotFoundError("account not found")
	}
	if accounts[idx].IsDefault || id == models.DefaultAccountID {
		return dto.DeleteAccountResult{}, errs.NewValidationError("the default account cannot be deleted")
	}
	active, err := s.accounts.ActiveID(ctx)
	if err != nil {
		return dto.DeleteAccountResult{}, err
	}
	if active == id {
		return dto.DeleteAccountResult{}, errs.NewValidationError("the active account cannot be deleted; switch to another account first")
	}

	// The account goes first: a failed save leaves both lists untouched, and a
	// failed transaction delete restores the account so the delete can be retried.
	remaining := make([]models.Account, 0, len(accounts)-1)
	remaining = append(remaining, accounts[:idx]...)
	remaining = append(remaining, accounts[idx+1:]...)
	if err := s.accounts.SaveAll(ctx, remaining); err != nil {
		return dto.DeleteAccountResult{}, err
	}
	removed, err := s.txs.DeleteByAccount(ctx, id)
	if err != nil {
		if rerr := s.accounts.SaveAll(ctx, accounts); rerr != nil {
			logger.FromContext(ctx).Error("account restore failed", "account_id", id, "error", rerr)
		}
		return dto.DeleteAccountResult{}, err
	}

	logger.FromContext(ctx).Info("account deleted", "account_id", id, "transactions_removed", removed)
	return dto.DeleteAccountResult{AccountID: id, RemovedTransactions: removed}, nil
}

func (s *accountService) Active(ctx context.Context) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.ensureDefaultLocked(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.accounts.ActiveID(ctx)
	if err != nil {
		return nil, err
	}
	idx := findAccount(accounts, active)
	if idx < 0 {
		idx = findAccount(accounts, models.DefaultAccountID)
	}
	account := accounts[idx]
	return &account, nil
}

func (s *accountService) SetActive(ctx context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts, err := s.ensureDefaultLocked(ctx)
	if err != nil {
		return nil, err
	}
	idx := findAccount(accounts, id)
	if idx < 0 {
		return nil, errs.NewNotFoundError("account not found")
	}
	if err := s.accounts.SetActiveID(ctx, id); err != nil {
		return nil, err
	}
	account := accounts[idx]
	return &account, nil
}

func findAccount(accounts []models.Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}
