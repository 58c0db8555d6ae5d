package middleware

import (
	"net/http"
	"strings"

	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type lockState interface {
	IsLocked() bool
}

type pinGate struct {
	state    lockState
	response response.ResponseHandler
	open     []string
}

// NewPinGate rejects requests with 423 while the ledger is locked. Paths with
// one of the open prefixes always pass.
func NewPinGate(state lockState, resp response.ResponseHandler, open ...string) *pinGate {
	return &pinGate{state: state, response: resp, open: open}
}

func (m *pinGate) PinGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.state.IsLocked() && !m.isOpen(r.URL.Path) {
			m.response.HandleError(w, r, errs.NewLockedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *pinGate) isOpen(path string) bool {
	for _, prefix := range m.open {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
