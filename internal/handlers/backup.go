package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type scheduledBackupService interface {
	GetSettings(ctx context.Context) (models.ScheduledBackupSettings, error)
	SaveSettings(ctx context.Context, settings models.ScheduledBackupSettings) (models.ScheduledBackupSettings, error)
	IsBackupDue(ctx context.Context) (dto.BackupDueResult, error)
	DismissForSession()
	DownloadBackupNow(ctx context.Context) (dto.ExportResult, error)
	RunScheduledCheck(ctx context.Context) (dto.ScheduledBackupOutcome, error)
	Status(ctx context.Context) (dto.BackupStatus, error)
}

type backupCodec interface {
	Validate(raw []byte) dto.BackupValidation
	ImportBackup(ctx context.Context, raw []byte) dto.ImportResult
}

type backupHandlers struct {
	ResponseHandler response.ResponseHandler
	BackupSvc       scheduledBackupService
	BackupCodec     backupCodec
}

func NewBackupHandlers(deps *Deps) *backupHandlers {
	return &backupHandlers{
		ResponseHandler: deps.ResponseHandler,
		BackupSvc:       deps.BackupSvc,
		BackupCodec:     deps.BackupCodec,
	}
}

func (h *backupHandlers) BackupRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.GetStatus)
	r.Get("/due", h.IsDue)
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.SaveSettings)
	r.Post("/dismiss", h.Dismiss)
	r.Post("/check", h.RunCheck)
	r.Get("/download", h.Download)
	r.Post("/validate", h.Validate)
	r.Post("/import", h.Import)
	return r
}

func (h *backupHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.BackupSvc.Status(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, status)
}

func (h *backupHandlers) IsDue(w http.ResponseWriter, r *http.Request) {
	due, err := h.BackupSvc.IsBackupDue(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, due)
}

func (h *backupHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.BackupSvc.GetSettings(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *backupHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduledBackupSettings
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	settings, err := h.BackupSvc.SaveSettings(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *backupHandlers) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.BackupSvc.DismissForSession()
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *backupHandlers) RunCheck(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.BackupSvc.RunScheduledCheck(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, outcome)
}

// Download streams the backup file itself rather than the JSON envelope.
func (h *backupHandlers) Download(w http.ResponseWriter, r *http.Request) {
	result, err := h.BackupSvc.DownloadBackupNow(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if !result.Success {
		h.ResponseHandler.WriteError(w, r, http.StatusInternalServerError, "export_failed", result.Error)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (h *backupHandlers) Validate(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.BackupCodec.Validate(raw))
}

func (h *backupHandlers) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	result := h.BackupCodec.ImportBackup(r.Context(), raw)
	if !result.Success {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusUnprocessableEntity, result)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
