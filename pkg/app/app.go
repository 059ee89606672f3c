// Package app wires the balance engine, the ledger and the event handlers
// from infrastructure dependencies.
package app

import (
	"log/slog"

	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/handler"
	"github.com/amirasaad/ledger/pkg/service/account"
	"github.com/amirasaad/ledger/pkg/service/ledger"
)

type App struct {
	Deps           config.Deps
	Config         *config.App
	AccountService *account.Service
	LedgerService  *ledger.Service
}

func New(deps config.Deps) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: deps.Config,
	}
	app.setupEventBus()

	app.AccountService = account.NewService(deps)
	app.LedgerService = app.AccountService.Ledger()
	return app
}

// setupEventBus registers all event handlers with the configured bus.
func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	ttl := handler.DefaultKeyTTL
	if a.Config != nil && a.Config.Idempotency != nil && a.Config.Idempotency.TTL > 0 {
		ttl = a.Config.Idempotency.TTL
	}
	opts := []handler.TrackerOption{handler.WithKeyTTL(ttl)}
	if a.Deps.Cache != nil {
		opts = append(opts, handler.WithKeyStore(a.Deps.Cache, ttl))
	}
	handler.RegisterAudit(a.Deps.EventBus, a.Deps.Logger, opts...)
}
