package bootstrap

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	gcsclient "github.com/GregMSThompson/pocket-ledger/internal/client/gcs"
	mailclient "github.com/GregMSThompson/pocket-ledger/internal/client/mail"
	ratesclient "github.com/GregMSThompson/pocket-ledger/internal/client/rates"
	"github.com/GregMSThompson/pocket-ledger/internal/config"
	"github.com/GregMSThompson/pocket-ledger/internal/handlers"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
	"github.com/GregMSThompson/pocket-ledger/internal/scheduler"
	"github.com/GregMSThompson/pocket-ledger/internal/services"
	"github.com/GregMSThompson/pocket-ledger/internal/store"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

// App holds the wired handler dependencies and the background scheduler.
type App struct {
	Deps      *handlers.Deps
	Scheduler *scheduler.Scheduler
	Specs     scheduler.Specs
}

// Wire builds stores and services on top of bs, seeds the default account and
// engages the PIN gate when a PIN is configured.
func Wire(ctx context.Context, cfg *config.Config, bs *Bootstrap) (*App, error) {
	ctx = logger.ToContext(ctx, bs.Log)

	// stores
	txstore := store.NewTransactionStore(bs.KV)
	tagstore := store.NewTagStore(bs.KV)
	acstore := store.NewAccountStore(bs.KV)
	setstore := store.NewSettingsStore(bs.KV)

	now := clockIn(bs.Location)

	// clients
	uploader := gcsclient.NewUploader(bs.Storage, cfg.BackupBucket, cfg.BackupPrefix, cfg.BackupAutoUpload, now)
	rates := ratesclient.NewFetcher(cfg.RatesURL, nil)
	mailer := mailclient.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.ReminderEmail)

	// services
	policy := services.ReminderPolicy{
		AlwaysWindowPast:  cfg.AlwaysWindowPast,
		AlwaysWindowAhead: cfg.AlwaysWindowAhead,
		FallbackLeadDays:  cfg.FallbackLeadDays,
	}
	txserv := services.NewTransactionService(txstore, setstore, acstore, now)
	tagserv := services.NewTagService(tagstore, txserv)
	acserv := services.NewAccountService(acstore, txserv, now)
	stserv := services.NewStatsService(txstore, setstore, acstore)
	remserv := services.NewReminderService(setstore, txstore, policy, now)
	codec := services.NewBackupCodec(txstore, tagstore, acstore, setstore, bs.KV, cfg.BackupDir, now)
	bkserv := services.NewScheduledBackupService(setstore, codec, uploader, now)
	curserv := services.NewCurrencyService(setstore, rates)
	secserv := services.NewSecurityService(setstore, bcrypt.DefaultCost)

	if _, err := acserv.EnsureDefault(ctx); err != nil {
		return nil, err
	}
	if err := secserv.LockIfProtected(ctx); err != nil {
		return nil, err
	}
	if _, err := remserv.PruneDismissals(ctx); err != nil {
		bs.Log.Warn("prune reminder dismissals failed", "error", err)
	}

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = response.New(bs.Log)
	deps.TransactionSvc = txserv
	deps.StatsSvc = stserv
	deps.TagSvc = tagserv
	deps.AccountSvc = acserv
	deps.ReminderSvc = remserv
	deps.BackupSvc = bkserv
	deps.BackupCodec = codec
	deps.CurrencySvc = curserv
	deps.SecuritySvc = secserv

	return &App{
		Deps:      deps,
		Scheduler: scheduler.New(bs.Log, bs.Location, bkserv, remserv, mailer),
		Specs:     schedulerSpecs(cfg),
	}, nil
}

func schedulerSpecs(cfg *config.Config) scheduler.Specs {
	specs := scheduler.Specs{
		DueCheck: cfg.DueCheckSpec,
		Prune:    cfg.PruneSpec,
	}
	if cfg.MailEnabled() {
		specs.ReminderDigest = cfg.ReminderDigestSpec
	}
	return specs
}
