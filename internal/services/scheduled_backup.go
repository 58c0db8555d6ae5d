package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/errs"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/pkg/helpers"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

// BackupDue decides whether a backup is due at now. Times are interpreted in
// now's location.
func BackupDue(settings models.ScheduledBackupSettings, lastBackupDate string, dismissed bool, now time.Time) dto.BackupDueResult {
	result := dto.BackupDueResult{LastBackupDate: lastBackupDate}
	if !settings.Enabled {
		result.Reason = "disabled"
		return result
	}
	if dismissed {
		result.Reason = "dismissed this session"
		return result
	}

	hour, minute, err := helpers.ParseClock(settings.BackupTime)
	if err != nil {
		hour, minute, _ = helpers.ParseClock(models.DefaultBackupTime)
	}
	result.ScheduledAt = helpers.AtClock(now, hour, minute)
	if now.Before(result.ScheduledAt) {
		result.Reason = "waiting for scheduled time"
		return result
	}

	today := helpers.DateString(now)
	if lastBackupDate == "" {
		result.IsDue = true
		result.Reason = "first backup"
		return result
	}

	switch settings.Frequency {
	case models.FrequencyWeekly:
		last, err := time.ParseInLocation(models.DateLayout, lastBackupDate, now.Location())
		if err != nil {
			result.IsDue = true
			result.Reason = "last backup date unreadable"
			return result
		}
		days := int(math.Floor(now.Sub(last).Hours() / 24))
		if days >= 7 {
			result.IsDue = true
			result.Reason = fmt.Sprintf("%d days since last backup", days)
			return result
		}
		result.Reason = fmt.Sprintf("backed up %d days ago", days)
	default:
		if lastBackupDate != today {
			result.IsDue = true
			result.Reason = "no backup today"
			return result
		}
		result.Reason = "already backed up today"
	}
	return result
}

type backupSettingsStore interface {
	ScheduledBackupSettings(ctx context.Context) (models.ScheduledBackupSettings, error)
	SaveScheduledBackupSettings(ctx context.Context, settings models.ScheduledBackupSettings) error
	LastBackupDate(ctx context.Context) (string, error)
	SetLastBackupDate(ctx context.Context, date string) error
}

type backupProducer interface {
	CreateBackupDocument(ctx context.Context) (*models.BackupDocument, error)
	ExportAsDownloadableFile(ctx context.Context, doc *models.BackupDocument) dto.ExportResult
}

type backupUploader interface {
	IsConnected() bool
	AutoUploadEnabled() bool
	UploadBackup(ctx context.Context, doc *models.BackupDocument) dto.UploadResult
}

type scheduledBackupService struct {
	settings backupSettingsStore
	producer backupProducer
	uploader backupUploader
	now      func() time.Time

	mu        sync.Mutex
	dismissed bool
	running   bool
	pending   *dto.ScheduledBackupOutcome
}

// NewScheduledBackupService wires the due-check engine. uploader may be nil
// when no cloud destination is configured.
func NewScheduledBackupService(settings backupSettingsStore, producer backupProducer, uploader backupUploader, now func() time.Time) *scheduledBackupService {
	if now == nil {
		now = time.Now
	}
	return &scheduledBackupService{
		settings: settings,
		producer: producer,
		uploader: uploader,
		now:      now,
	}
}

func (s *scheduledBackupService) GetSettings(ctx context.Context) (models.ScheduledBackupSettings, error) {
	return s.settings.ScheduledBackupSettings(ctx)
}

// SaveSettings persists settings and re-enables prompting for this session.
func (s *scheduledBackupService) SaveSettings(ctx context.Context, settings models.ScheduledBackupSettings) (models.ScheduledBackupSettings, error) {
	if settings.BackupTime == "" {
		settings.BackupTime = models.DefaultBackupTime
	}
	if _, _, err := helpers.ParseClock(settings.BackupTime); err != nil {
		return settings, errs.NewValidationError(err.Error())
	}
	switch settings.Frequency {
	case "":
		settings.Frequency = models.FrequencyDaily
	case models.FrequencyDaily, models.FrequencyWeekly:
	default:
		return settings, errs.NewValidationError("frequency must be daily or weekly")
	}
	if err := s.settings.SaveScheduledBackupSettings(ctx, settings); err != nil {
		return settings, err
	}

	s.mu.Lock()
	s.dismissed = false
	s.mu.Unlock()
	return settings, nil
}

func (s *scheduledBackupService) IsBackupDue(ctx context.Context) (dto.BackupDueResult, error) {
	settings, err := s.settings.ScheduledBackupSettings(ctx)
	if err != nil {
		return dto.BackupDueResult{}, err
	}
	last, err := s.settings.LastBackupDate(ctx)
	if err != nil {
		return dto.BackupDueResult{}, err
	}

	s.mu.Lock()
	dismissed := s.dismissed
	s.mu.Unlock()

	result := BackupDue(settings, last, dismissed, s.now())
	logger.FromContext(ctx).Debug("backup due check", "due", result.IsDue, "reason", result.Reason)
	return result, nil
}

// RecordBackupDownload marks today as backed up and clears the session dismissal.
func (s *scheduledBackupService) RecordBackupDownload(ctx context.Context) error {
	today := helpers.DateString(s.now())
	if err := s.settings.SetLastBackupDate(ctx, today); err != nil {
		return err
	}

	s.mu.Lock()
	s.dismissed = false
	s.pending = nil
	s.mu.Unlock()

	logger.FromContext(ctx).Info("backup recorded", "date", today)
	return nil
}

// DismissForSession suppresses prompts until settings change or the process restarts.
func (s *scheduledBackupService) DismissForSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = true
	s.pending = nil
}

// DownloadBackupNow serializes the ledger to a file and records the backup on success.
func (s *scheduledBackupService) DownloadBackupNow(ctx context.Context) (dto.ExportResult, error) {
	doc, err := s.producer.CreateBackupDocument(ctx)
	if err != nil {
		return dto.ExportResult{Success: false, Error: err.Error()}, err
	}
	result := s.producer.ExportAsDownloadableFile(ctx, doc)
	if !result.Success {
		logger.FromContext(ctx).Warn("backup export failed", "error", result.Error)
		return result, nil
	}
	if err := s.RecordBackupDownload(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// RunScheduledCheck is the timer entry point. When a backup is due it uploads
// through the cloud uploader if one is connected with auto-upload on, and
// otherwise leaves a manual-download prompt. Overlapping calls return
// immediately with Action none.
func (s *scheduledBackupService) RunScheduledCheck(ctx context.Context) (dto.ScheduledBackupOutcome, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return dto.ScheduledBackupOutcome{Action: dto.BackupActionNone, Due: dto.BackupDueResult{Reason: "check already running"}}, nil
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	due, err := s.IsBackupDue(ctx)
	if err != nil {
		return dto.ScheduledBackupOutcome{}, err
	}
	if !due.IsDue {
		return dto.ScheduledBackupOutcome{Action: dto.BackupActionNone, Due: due}, nil
	}

	log := logger.FromContext(ctx)
	outcome := dto.ScheduledBackupOutcome{Action: dto.BackupActionPromptManual, Due: due}
	if s.uploader != nil && s.uploader.IsConnected() && s.uploader.AutoUploadEnabled() {
		doc, err := s.producer.CreateBackupDocument(ctx)
		if err != nil {
			outcome.Error = err.Error()
			log.Warn("backup document creation failed", "error", err)
		} else {
			upload := s.uploader.UploadBackup(ctx, doc)
			if upload.Success {
				if err := s.RecordBackupDownload(ctx); err != nil {
					return outcome, err
				}
				log.Info("scheduled backup uploaded", "file", upload.FileName)
				return dto.ScheduledBackupOutcome{Action: dto.BackupActionUploaded, Due: due, FileName: upload.FileName}, nil
			}
			outcome.Error = upload.Error
			log.Warn("scheduled backup upload failed, falling back to manual download", "error", upload.Error)
		}
	}

	s.mu.Lock()
	s.pending = &outcome
	s.mu.Unlock()
	return outcome, nil
}

// PendingPrompt returns the manual-download prompt left by the last check, if any.
func (s *scheduledBackupService) PendingPrompt() *dto.ScheduledBackupOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

func (s *scheduledBackupService) Status(ctx context.Context) (dto.BackupStatus, error) {
	due, err := s.IsBackupDue(ctx)
	if err != nil {
		return dto.BackupStatus{}, err
	}

	s.mu.Lock()
	dismissed := s.dismissed
	s.mu.Unlock()

	status := dto.BackupStatus{
		Due:             due,
		Pending:         s.PendingPrompt(),
		LastBackupDate:  due.LastBackupDate,
		DismissedForNow: dismissed,
	}
	if s.uploader != nil {
		status.CloudConnected = s.uploader.IsConnected()
		status.AutoUpload = s.uploader.AutoUploadEnabled()
	}
	return status, nil
}
