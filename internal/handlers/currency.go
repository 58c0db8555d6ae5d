package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type currencyService interface {
	GetSettings(ctx context.Context) (models.CurrencySettings, error)
	SaveSettings(ctx context.Context, settings models.CurrencySettings) (models.CurrencySettings, error)
	GetRates(ctx context.Context) (models.ExchangeRates, error)
	SaveRates(ctx context.Context, rates models.ExchangeRates) (models.ExchangeRates, error)
	RefreshRates(ctx context.Context) (models.ExchangeRates, error)
	Convert(ctx context.Context, amount, from, to string) (dto.Conversion, error)
}

type currencyHandlers struct {
	ResponseHandler response.ResponseHandler
	CurrencySvc     currencyService
}

func NewCurrencyHandlers(deps *Deps) *currencyHandlers {
	return &currencyHandlers{
		ResponseHandler: deps.ResponseHandler,
		CurrencySvc:     deps.CurrencySvc,
	}
}

func (h *currencyHandlers) CurrencyRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.SaveSettings)
	r.Get("/rates", h.GetRates)
	r.Put("/rates", h.SaveRates)
	r.Post("/rates/refresh", h.RefreshRates)
	r.Get("/convert", h.Convert)
	return r
}

func (h *currencyHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.CurrencySvc.GetSettings(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *currencyHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.CurrencySettings
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	settings, err := h.CurrencySvc.SaveSettings(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *currencyHandlers) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.CurrencySvc.GetRates(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rates)
}

func (h *currencyHandlers) SaveRates(w http.ResponseWriter, r *http.Request) {
	var req models.ExchangeRates
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	rates, err := h.CurrencySvc.SaveRates(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rates)
}

func (h *currencyHandlers) RefreshRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.CurrencySvc.RefreshRates(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, rates)
}

func (h *currencyHandlers) Convert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	conv, err := h.CurrencySvc.Convert(r.Context(), q.Get("amount"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, conv)
}
