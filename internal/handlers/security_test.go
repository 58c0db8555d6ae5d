package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
)

type stubSecurityService struct {
	current, pin string
	locked       bool
	err          error
}

func (s *stubSecurityService) IsLocked() bool { return s.locked }

func (s *stubSecurityService) Status(ctx context.Context) (dto.SecurityStatus, error) {
	return dto.SecurityStatus{PinEnabled: s.pin != "", Locked: s.locked}, s.err
}

func (s *stubSecurityService) SetPIN(ctx context.Context, current, pin string) error {
	s.current, s.pin = current, pin
	return s.err
}

func (s *stubSecurityService) RemovePIN(ctx context.Context, current string) error {
	s.current = current
	return s.err
}

func (s *stubSecurityService) Unlock(ctx context.Context, pin string) error {
	s.pin = pin
	s.locked = false
	return s.err
}

func (s *stubSecurityService) Lock(ctx context.Context) error {
	s.locked = true
	return s.err
}

func TestSetPINDecodesBody(t *testing.T) {
	svc := &stubSecurityService{}
	resp := &stubResponseHandler{}
	h := NewSecurityHandlers(&Deps{ResponseHandler: resp, SecuritySvc: svc})

	body := `{"currentPin":"1234","pin":"5678"}`
	h.SetPIN(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/security/pin", strings.NewReader(body)))

	if svc.current != "1234" || svc.pin != "5678" {
		t.Fatalf("service received %q %q", svc.current, svc.pin)
	}
	if !resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess not called")
	}
}

func TestUnlockInvalidJSON(t *testing.T) {
	svc := &stubSecurityService{locked: true}
	resp := &stubResponseHandler{}
	h := NewSecurityHandlers(&Deps{ResponseHandler: resp, SecuritySvc: svc})

	h.Unlock(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/security/unlock", strings.NewReader("{")))

	if !svc.locked || !resp.handleErrorCalled {
		t.Fatalf("invalid body must not unlock")
	}
}
