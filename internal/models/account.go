package models

import (
	"time"
)

type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultAccount is seeded when no accounts exist and can never be deleted.
func DefaultAccount(now time.Time) Account {
	return Account{
		ID:        DefaultAccountID,
		Name:      "Main Account",
		Icon:      "wallet",
		Color:     "#4f46e5",
		IsDefault: true,
		CreatedAt: now,
	}
}
