package store

import (
	"context"

	"github.com/GregMSThompson/pocket-ledger/internal/models"
)

type accountStore struct {
	kv KV
}

func NewAccountStore(kv KV) *accountStore {
	return &accountStore{kv: kv}
}

func (s *accountStore) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if _, err := s.kv.Get(ctx, KeyAccounts, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *accountStore) SaveAll(ctx context.Context, accounts []models.Account) error {
	return s.kv.Set(ctx, KeyAccounts, accounts)
}

// ActiveID returns the stored active account id, or "" when unset.
func (s *accountStore) ActiveID(ctx context.Context) (string, error) {
	var id string
	if _, err := s.kv.Get(ctx, KeyActiveAccountID, &id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *accountStore) SetActiveID(ctx context.Context, id string) error {
	return s.kv.Set(ctx, KeyActiveAccountID, id)
}
