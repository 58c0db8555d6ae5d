package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/pocket-ledger/internal/handlers"
	"github.com/GregMSThompson/pocket-ledger/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewPinGate(deps.SecuritySvc, deps.ResponseHandler, "/health", "/security").PinGate)

	hh := handlers.NewHealthHandlers(deps)
	th := handlers.NewTransactionHandlers(deps)
	sh := handlers.NewStatsHandlers(deps)
	tgh := handlers.NewTagHandlers(deps)
	ah := handlers.NewAccountHandlers(deps)
	rmh := handlers.NewReminderHandlers(deps)
	bh := handlers.NewBackupHandlers(deps)
	ch := handlers.NewCurrencyHandlers(deps)
	sch := handlers.NewSecurityHandlers(deps)

	r.Mount("/health", hh.HealthRoutes())
	r.Mount("/transactions", th.TransactionRoutes())
	r.Mount("/stats", sh.StatsRoutes())
	r.Mount("/tags", tgh.TagRoutes())
	r.Mount("/accounts", ah.AccountRoutes())
	r.Mount("/reminders", rmh.ReminderRoutes())
	r.Mount("/backup", bh.BackupRoutes())
	r.Mount("/currency", ch.CurrencyRoutes())
	r.Mount("/security", sch.SecurityRoutes())
	return r
}
