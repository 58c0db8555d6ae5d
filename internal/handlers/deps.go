package handlers

import (
	"log/slog"

	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	TransactionSvc  transactionService
	StatsSvc        statsService
	TagSvc          tagService
	AccountSvc      accountService
	ReminderSvc     reminderService
	BackupSvc       scheduledBackupService
	BackupCodec     backupCodec
	CurrencySvc     currencyService
	SecuritySvc     securityService
}
