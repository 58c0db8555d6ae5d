package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type reminderService interface {
	GetSettings(ctx context.Context) (models.ReminderSettings, error)
	SaveSettings(ctx context.Context, settings models.ReminderSettings) (models.ReminderSettings, error)
	GetUpcomingReminders(ctx context.Context) ([]dto.Reminder, error)
	DismissReminder(ctx context.Context, id, duration string) error
	IsReminderDismissed(ctx context.Context, id string) (bool, error)
	ClearSessionDismissals()
}

type reminderHandlers struct {
	ResponseHandler response.ResponseHandler
	ReminderSvc     reminderService
}

func NewReminderHandlers(deps *Deps) *reminderHandlers {
	return &reminderHandlers{
		ResponseHandler: deps.ResponseHandler,
		ReminderSvc:     deps.ReminderSvc,
	}
}

func (h *reminderHandlers) ReminderRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetUpcoming)
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.SaveSettings)
	r.Delete("/session", h.ClearSession)
	r.Post("/{id}/dismiss", h.Dismiss)
	r.Get("/{id}/dismissed", h.IsDismissed)
	return r
}

func (h *reminderHandlers) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.ReminderSvc.GetUpcomingReminders(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, reminders)
}

func (h *reminderHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.ReminderSvc.GetSettings(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *reminderHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.ReminderSettings
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	settings, err := h.ReminderSvc.SaveSettings(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *reminderHandlers) Dismiss(w http.ResponseWriter, r *http.Request) {
	var req dto.DismissReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.ReminderSvc.DismissReminder(r.Context(), chi.URLParam(r, "id"), req.Duration); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *reminderHandlers) IsDismissed(w http.ResponseWriter, r *http.Request) {
	dismissed, err := h.ReminderSvc.IsReminderDismissed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]bool{"dismissed": dismissed})
}

func (h *reminderHandlers) ClearSession(w http.ResponseWriter, r *http.Request) {
	h.ReminderSvc.ClearSessionDismissals()
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
