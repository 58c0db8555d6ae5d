package services

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
)

func TestPINLifecycle(t *testing.T) {
	settings := newFakeSettings()
	svc := NewSecurityService(settings, bcrypt.MinCost)
	ctx := helpers.TestCtx()

	for _, bad := range []string{"123", "1234567", "12a4"} {
		err := svc.SetPIN(ctx, "", bad)
		var verr *errs.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("SetPIN(%q) error = %v, want validation", bad, err)
		}
	}

	if err := svc.SetPIN(ctx, "", "1234"); err != nil {
		t.Fatalf("SetPIN error: %v", err)
	}
	if settings.pinHash == "" || settings.pinHash == "1234" {
		t.Fatalf("pin not hashed")
	}
	if err := svc.SetPIN(ctx, "0000", "5678"); err == nil {
		t.Fatalf("changing the PIN must require the current PIN")
	}

	if err := svc.LockIfProtected(ctx); err != nil {
		t.Fatalf("LockIfProtected error: %v", err)
	}
	if !svc.IsLocked() {
		t.Fatalf("expected lock at startup")
	}
	if err := svc.Unlock(ctx, "9999"); err == nil || !svc.IsLocked() {
		t.Fatalf("wrong PIN unlocked the gate")
	}
	if err := svc.Unlock(ctx, "1234"); err != nil || svc.IsLocked() {
		t.Fatalf("Unlock failed: %v", err)
	}

	if err := svc.RemovePIN(ctx, "1234"); err != nil {
		t.Fatalf("RemovePIN error: %v", err)
	}
	status, _ := svc.Status(ctx)
	if status.PinEnabled || status.Locked {
		t.Fatalf("status = %+v", status)
	}
	if err := svc.Lock(ctx); err == nil {
		t.Fatalf("lock without PIN must fail")
	}
}
