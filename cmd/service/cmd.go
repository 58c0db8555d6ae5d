package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GregMSThompson/pocket-ledger/internal/bootstrap"
	"github.com/GregMSThompson/pocket-ledger/internal/config"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// Runs the background jobs once and exits, for hosts that schedule the
// ledger's maintenance externally.
func main() {
	digest := flag.Bool("digest", false, "also send the reminder digest email")
	flag.Parse()

	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// services
	app, err := bootstrap.Wire(context.Background(), cfg, bs)
	exitOnError("wiring failed", err, bs.Log)

	// jobs
	app.Scheduler.CheckBackup()
	app.Scheduler.PruneDismissals()
	if *digest && cfg.MailEnabled() {
		app.Scheduler.SendDigest()
	}
}
