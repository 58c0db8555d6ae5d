package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"

	"github.com/GregMSThompson/pocket-ledger/internal/config"
	"github.com/GregMSThompson/pocket-ledger/internal/store"
	"github.com/GregMSThompson/pocket-ledger/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Location  *time.Location
	KV        store.KV
	SQL       *sql.DB
	Firestore *firestore.Client
	Storage   *storage.Client
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewJSONHandler)
	bs.Location, err = cfg.Location()
	if err != nil {
		return bs, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	switch cfg.StorageBackend {
	case config.StorageFirestore:
		bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID, cfg.CredentialsFile)
		if err != nil {
			return bs, err
		}
		bs.KV = store.NewFirestoreKV(bs.Firestore, cfg.LedgerID)
	case config.StorageMemory:
		bs.KV = store.NewMemoryKV()
	default:
		var kv store.KV
		kv, bs.SQL, err = store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return bs, err
		}
		bs.KV = kv
	}

	if cfg.BackupBucket != "" {
		bs.Storage, err = InitStorage(applicationCtx, cfg.CredentialsFile)
		if err != nil {
			// the app stays usable with manual downloads
			bs.Log.Warn("cloud storage unavailable", "error", err)
		}
	}

	bs.Log.Info("bootstrap complete",
		"storage", cfg.StorageBackend,
		"timezone", bs.Location.String(),
		"cloud_backup", bs.Storage != nil,
	)
	return bs, nil
}

func (b *Bootstrap) Close() {
	if b.Storage != nil {
		_ = b.Storage.Close()
	}
	if b.Firestore != nil {
		_ = b.Firestore.Close()
	}
	if b.SQL != nil {
		_ = b.SQL.Close()
	}
}
