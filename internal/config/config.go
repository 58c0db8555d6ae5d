package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type StorageBackend string

const (
	StorageSQLite    StorageBackend = "sqlite"
	StorageFirestore StorageBackend = "firestore"
	StorageMemory    StorageBackend = "memory"
)

type Config struct {
	LogLevel string
	HTTPAddr string

	StorageBackend StorageBackend
	SQLitePath     string
	ProjectID      string
	LedgerID       string

	BackupDir        string
	BackupBucket     string
	BackupPrefix     string
	BackupAutoUpload bool
	CredentialsFile  string

	RatesURL string

	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	ReminderEmail string

	DueCheckSpec       string
	ReminderDigestSpec string
	PruneSpec          string
	Timezone           string

	AlwaysWindowPast  int
	AlwaysWindowAhead int
	FallbackLeadDays  int
}

// New loads .env when present and reads the environment.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		LogLevel: os.Getenv("LOGLEVEL"),
		HTTPAddr: getString("HTTPADDR", "127.0.0.1:8080"),

		StorageBackend: getStorageBackend(os.Getenv("STORAGEBACKEND")),
		SQLitePath:     getString("SQLITEPATH", "pocket-ledger.db"),
		ProjectID:      os.Getenv("PROJECTID"),
		LedgerID:       getString("LEDGERID", "default"),

		BackupDir:        os.Getenv("BACKUPDIR"),
		BackupBucket:     os.Getenv("BACKUPBUCKET"),
		BackupPrefix:     os.Getenv("BACKUPPREFIX"),
		BackupAutoUpload: getBool("BACKUPAUTOUPLOAD", true),
		CredentialsFile:  os.Getenv("GOOGLECREDENTIALS"),

		RatesURL: os.Getenv("RATESURL"),

		SMTPHost:      os.Getenv("SMTPHOST"),
		SMTPPort:      getInt("SMTPPORT", 587),
		SMTPUser:      os.Getenv("SMTPUSER"),
		SMTPPass:      os.Getenv("SMTPPASS"),
		ReminderEmail: os.Getenv("REMINDEREMAIL"),

		DueCheckSpec:       getString("DUECHECKSPEC", "@every 1m"),
		ReminderDigestSpec: getString("REMINDERDIGESTSPEC", "0 8 * * *"),
		PruneSpec:          getString("PRUNESPEC", "@hourly"),
		Timezone:           os.Getenv("TIMEZONE"),

		AlwaysWindowPast:  getInt("REMINDERWINDOWPAST", 7),
		AlwaysWindowAhead: getInt("REMINDERWINDOWAHEAD", 30),
		FallbackLeadDays:  getInt("REMINDERFALLBACKDAYS", 1),
	}
}

// Location resolves TIMEZONE, falling back to the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.ReminderEmail != ""
}

func getStorageBackend(v string) StorageBackend {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "firestore":
		return StorageFirestore
	case "memory":
		return StorageMemory
	default: // "sqlite"
		return StorageSQLite
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return b
}
