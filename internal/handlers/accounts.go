package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type accountService interface {
	List(ctx context.Context) ([]models.Account, error)
	Create(ctx context.Context, req dto.AccountRequest) (*models.Account, error)
	Update(ctx context.Context, id string, req dto.AccountRequest) (*models.Account, error)
	Delete(ctx context.Context, id string) (dto.DeleteAccountResult, error)
	Active(ctx context.Context) (*models.Account, error)
	SetActive(ctx context.Context, id string) (*models.Account, error)
}

type accountHandlers struct {
	ResponseHandler response.ResponseHandler
	AccountSvc      accountService
}

func NewAccountHandlers(deps *Deps) *accountHandlers {
	return &accountHandlers{
		ResponseHandler: deps.ResponseHandler,
		AccountSvc:      deps.AccountSvc,
	}
}

func (h *accountHandlers) AccountRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAccounts)
	r.Post("/", h.CreateAccount)
	r.Get("/active", h.GetActive) // must be before /{id}
	r.Put("/active", h.SetActive)
	r.Put("/{id}", h.UpdateAccount)
	r.Delete("/{id}", h.DeleteAccount)
	return r
}

func (h *accountHandlers) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountSvc.List(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, accounts)
}

func (h *accountHandlers) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.AccountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account, err := h.AccountSvc.Create(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, account)
}

func (h *accountHandlers) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.AccountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account, err := h.AccountSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, account)
}

func (h *accountHandlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	res, err := h.AccountSvc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *accountHandlers) GetActive(w http.ResponseWriter, r *http.Request) {
	account, err := h.AccountSvc.Active(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, account)
}

func (h *accountHandlers) SetActive(w http.ResponseWriter, r *http.Request) {
	var req dto.SetActiveAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	account, err := h.AccountSvc.SetActive(r.Context(), req.AccountID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, account)
}
