package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type statsService interface {
	GetStats(ctx context.Context, args dto.StatsArgs) (dto.Stats, error)
}

type statsHandlers struct {
	ResponseHandler response.ResponseHandler
	StatsSvc        statsService
}

func NewStatsHandlers(deps *Deps) *statsHandlers {
	return &statsHandlers{
		ResponseHandler: deps.ResponseHandler,
		StatsSvc:        deps.StatsSvc,
	}
}

func (h *statsHandlers) StatsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetStats)
	return r
}

func (h *statsHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := h.StatsSvc.GetStats(r.Context(), dto.StatsArgs{
		Filter:   filterFromQuery(q),
		Currency: q.Get("target"),
		Bucket:   q.Get("bucket"),
	})
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}
