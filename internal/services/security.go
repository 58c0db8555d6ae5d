package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

type pinStore interface {
	PinHash(ctx context.Context) (string, error)
	SetPinHash(ctx context.Context, hash string) error
}

// securityService is a local privacy gate, not authentication. The hash only
// keeps the PIN out of plain sight in the store.
type securityService struct {
	pins pinStore
	cost int

	mu     sync.Mutex
	locked bool
}

func NewSecurityService(pins pinStore, cost int) *securityService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &securityService{pins: pins, cost: cost}
}

// LockIfProtected engages the gate at startup when a PIN is set.
func (s *securityService) LockIfProtected(ctx context.Context) error {
	hash, err := s.pins.PinHash(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.locked = hash != ""
	s.mu.Unlock()
	return nil
}

func (s *securityService) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *securityService) Status(ctx context.Context) (dto.SecurityStatus, error) {
	hash, err := s.pins.PinHash(ctx)
	if err != nil {
		return dto.SecurityStatus{}, err
	}
	return dto.SecurityStatus{PinEnabled: hash != "", Locked: s.IsLocked()}, nil
}

// SetPIN sets or changes the PIN. Changing requires the current PIN.
func (s *securityService) SetPIN(ctx context.Context, current, pin string) error {
	if err := validatePIN(pin); err != nil {
		return err
	}
	if err := s.checkCurrent(ctx, current); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.cost)
	if err != nil {
		return err
	}
	if err := s.pins.SetPinHash(ctx, string(hash)); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("pin set")
	return nil
}

func (s *securityService) RemovePIN(ctx context.Context, current string) error {
	hash, err := s.pins.PinHash(ctx)
	if err != nil {
		return err
	}
	if hash == "" {
		return errs.NewValidationError("no PIN is set")
	}
	if err := s.checkCurrent(ctx, current); err != nil {
		return err
	}
	if err := s.pins.SetPinHash(ctx, ""); err != nil {
		return err
	}
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
	logger.FromContext(ctx).Info("pin removed")
	return nil
}

func (s *securityService) Unlock(ctx context.Context, pin string) error {
	hash, err := s.pins.PinHash(ctx)
	if err != nil {
		return err
	}
	if hash != "" {
		if err := comparePIN(hash, pin); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
	return nil
}

func (s *securityService) Lock(ctx context.Context) error {
	hash, err := s.pins.PinHash(ctx)
	if err != nil {
		return err
	}
	if hash == "" {
		return errs.NewValidationError("set a PIN before locking")
	}
	s.mu.Lock()
	s.locked = true
	s.mu.Unlock()
	return nil
}

func (s *securityService) checkCurrent(ctx context.Context, current string) error {
	hash, err := s.pins.PinHash(ctx)
	if err != nil {
		return err
	}
	if hash == "" {
		return nil
	}
	return comparePIN(hash, current)
}

func comparePIN(hash, pin string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return errs.NewValidationError("incorrect PIN")
	}
	return err
}

func validatePIN(pin string) error {
	if len(pin) < 4 || len(pin) > 6 {
		return errs.NewValidationError("PIN must be 4 to 6 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errs.NewValidationError("PIN must contain digits only")
		}
	}
	return nil
}
