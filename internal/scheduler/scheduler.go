package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

const jobTimeout = 3 * time.Minute

type backupChecker interface {
	RunScheduledCheck(ctx context.Context) (dto.ScheduledBackupOutcome, error)
}

type reminderSource interface {
	GetUpcomingReminders(ctx context.Context) ([]dto.Reminder, error)
	PruneDismissals(ctx context.Context) (int, error)
}

type digestSender interface {
	SendReminderDigest(ctx context.Context, reminders []dto.Reminder) error
}

type Specs struct {
	DueCheck       string
	ReminderDigest string
	Prune          string
}

type Scheduler struct {
	log       *slog.Logger
	cron      *cron.Cron
	backups   backupChecker
	reminders reminderSource
	digest    digestSender
}

// New builds a scheduler whose jobs run in loc. digest may be nil, in which
// case no reminder digest job is registered.
func New(log *slog.Logger, loc *time.Location, backups backupChecker, reminders reminderSource, digest digestSender) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		log:       log,
		cron:      cron.New(cron.WithLocation(loc)),
		backups:   backups,
		reminders: reminders,
		digest:    digest,
	}
}

func (s *Scheduler) Start(specs Specs) error {
	if _, err := s.cron.AddFunc(specs.DueCheck, s.CheckBackup); err != nil {
		return err
	}
	if specs.Prune != "" {
		if _, err := s.cron.AddFunc(specs.Prune, s.PruneDismissals); err != nil {
			return err
		}
	}
	if s.digest != nil && specs.ReminderDigest != "" {
		if _, err := s.cron.AddFunc(specs.ReminderDigest, s.SendDigest); err != nil {
			return err
		}
	}
	s.cron.Start()
	s.log.Info("scheduler started", "due_check", specs.DueCheck, "digest", s.digest != nil, "jobs", len(s.cron.Entries()))
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) jobContext(job string) (context.Context, context.CancelFunc) {
	ctx := logger.ToContext(context.Background(), s.log.With("job", job))
	return context.WithTimeout(ctx, jobTimeout)
}

func (s *Scheduler) CheckBackup() {
	ctx, cancel := s.jobContext("backup_due_check")
	defer cancel()

	outcome, err := s.backups.RunScheduledCheck(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("scheduled backup check failed", "error", err)
		return
	}
	if outcome.Action != dto.BackupActionNone {
		logger.FromContext(ctx).Info("scheduled backup check", "action", outcome.Action, "reason", outcome.Due.Reason)
	}
}

func (s *Scheduler) SendDigest() {
	ctx, cancel := s.jobContext("reminder_digest")
	defer cancel()

	reminders, err := s.reminders.GetUpcomingReminders(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("load reminders failed", "error", err)
		return
	}
	if err := s.digest.SendReminderDigest(ctx, reminders); err != nil {
		logger.FromContext(ctx).Error("send reminder digest failed", "error", err)
	}
}

func (s *Scheduler) PruneDismissals() {
	ctx, cancel := s.jobContext("prune_dismissals")
	defer cancel()

	if _, err := s.reminders.PruneDismissals(ctx); err != nil {
		logger.FromContext(ctx).Warn("prune reminder dismissals failed", "error", err)
	}
}
