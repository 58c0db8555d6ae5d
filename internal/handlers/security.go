package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type securityService interface {
	IsLocked() bool
	Status(ctx context.Context) (dto.SecurityStatus, error)
	SetPIN(ctx context.Context, current, pin string) error
	RemovePIN(ctx context.Context, current string) error
	Unlock(ctx context.Context, pin string) error
	Lock(ctx context.Context) error
}

type securityHandlers struct {
	ResponseHandler response.ResponseHandler
	SecuritySvc     securityService
}

func NewSecurityHandlers(deps *Deps) *securityHandlers {
	return &securityHandlers{
		ResponseHandler: deps.ResponseHandler,
		SecuritySvc:     deps.SecuritySvc,
	}
}

func (h *securityHandlers) SecurityRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetStatus)
	r.Post("/pin", h.SetPIN)
	r.Delete("/pin", h.RemovePIN)
	r.Post("/unlock", h.Unlock)
	r.Post("/lock", h.Lock)
	return r
}

func (h *securityHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.SecuritySvc.Status(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, status)
}

func (h *securityHandlers) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req dto.SetPinRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.SecuritySvc.SetPIN(r.Context(), req.CurrentPin, req.Pin); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *securityHandlers) RemovePIN(w http.ResponseWriter, r *http.Request) {
	var req dto.PinRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.SecuritySvc.RemovePIN(r.Context(), req.Pin); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *securityHandlers) Unlock(w http.ResponseWriter, r *http.Request) {
	var req dto.PinRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.SecuritySvc.Unlock(r.Context(), req.Pin); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *securityHandlers) Lock(w http.ResponseWriter, r *http.Request) {
	if err := h.SecuritySvc.Lock(r.Context()); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
