package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/GregMSThompson/pocket-ledger/internal/errs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type sqliteKV struct {
	db *sql.DB
}

// OpenSQLite opens the database at path, applies migrations and returns the KV
// together with the handle so the caller can close it.
func OpenSQLite(path string) (*sqliteKV, *sql.DB, error) {
	if err := migrateSQLite(path); err != nil {
		return nil, nil, err
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("open", "failed to open sqlite database", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return NewSQLiteKV(db), db, nil
}

func NewSQLiteKV(db *sql.DB) *sqliteKV {
	return &sqliteKV{db: db}
}

// migrateSQLite runs migrations on a dedicated connection; closing the migrate
// instance closes that connection.
func migrateSQLite(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errs.NewDatabaseError("migrate", "failed to load migrations", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return errs.NewDatabaseError("migrate", "failed to init migrations", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errs.NewDatabaseError("migrate", "failed to apply migrations", err)
	}
	return nil
}

func (s *sqliteKV) Get(ctx context.Context, key string, dest any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errs.NewDatabaseError("read", "failed to read "+key, err)
	}
	if err := decode(key, []byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

const upsertKV = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (s *sqliteKV) Set(ctx context.Context, key string, value any) error {
	b, err := encode(key, value)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, upsertKV, key, string(b), time.Now().UTC()); err != nil {
		return errs.NewDatabaseError("update", "failed to write "+key, err)
	}
	return nil
}

func (s *sqliteKV) SetMany(ctx context.Context, values map[string]any) error {
	encoded, err := encodeAll(values)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to begin transaction", err)
	}
	now := time.Now().UTC()
	for k, b := range encoded {
		if _, err := tx.ExecContext(ctx, upsertKV, k, string(b), now); err != nil {
			_ = tx.Rollback()
			return errs.NewDatabaseError("update", "failed to write "+k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errs.NewDatabaseError("update", "failed to commit transaction", err)
	}
	return nil
}

func (s *sqliteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete "+key, err)
	}
	return nil
}
