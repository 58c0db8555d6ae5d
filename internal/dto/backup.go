package dto

import "time"

// Actions produced by a scheduled backup check.
const (
	BackupActionNone         = "none"
	BackupActionUploaded     = "uploaded"
	BackupActionPromptManual = "prompt_manual"
)

type BackupDueResult struct {
	IsDue          bool      `json:"isDue"`
	Reason         string    `json:"reason"`
	ScheduledAt    time.Time `json:"scheduledAt,omitzero"`
	LastBackupDate string    `json:"lastBackupDate,omitempty"`
}

type ScheduledBackupOutcome struct {
	Action   string          `json:"action"`
	Due      BackupDueResult `json:"due"`
	FileName string          `json:"fileName,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type BackupStatus struct {
	Due             BackupDueResult         `json:"due"`
	Pending         *ScheduledBackupOutcome `json:"pending,omitempty"`
	CloudConnected  bool                    `json:"cloudConnected"`
	AutoUpload      bool                    `json:"autoUpload"`
	LastBackupDate  string                  `json:"lastBackupDate,omitempty"`
	DismissedForNow bool                    `json:"dismissedForSession"`
}

type ExportResult struct {
	Success  bool   `json:"success"`
	FileName string `json:"filename,omitempty"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
	Data     []byte `json:"-"`
}

type UploadResult struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BackupValidation struct {
	Valid    bool     `json:"valid"`
	Version  string   `json:"version,omitempty"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type ImportResult struct {
	Success      bool     `json:"success"`
	Error        string   `json:"error,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	Transactions int      `json:"transactions"`
	Accounts     int      `json:"accounts"`
	MigratedFrom string   `json:"migratedFrom,omitempty"`
}
