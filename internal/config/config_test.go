package config

import "testing"

func TestNewDefaults(t *testing.T) {
	for _, k := range []string{"HTTPADDR", "STORAGEBACKEND", "SMTPPORT", "DUECHECKSPEC", "BACKUPAUTOUPLOAD", "REMINDERWINDOWAHEAD"} {
		t.Setenv(k, "")
	}
	cfg := New()

	if cfg.HTTPAddr != "127.0.0.1:8080" || cfg.StorageBackend != StorageSQLite {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SMTPPort != 587 || cfg.DueCheckSpec != "@every 1m" || !cfg.BackupAutoUpload {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.AlwaysWindowAhead != 30 {
		t.Fatalf("window ahead = %d", cfg.AlwaysWindowAhead)
	}
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("STORAGEBACKEND", "Firestore")
	t.Setenv("SMTPPORT", "2525")
	t.Setenv("BACKUPAUTOUPLOAD", "false")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	cfg := New()

	if cfg.StorageBackend != StorageFirestore || cfg.SMTPPort != 2525 || cfg.BackupAutoUpload {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Fatalf("Location = %v, %v", loc, err)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("SMTPPORT", "abc")
	if New().SMTPPort != 587 {
		t.Fatalf("invalid port should fall back to default")
	}
}
