// Package app wires configuration, infrastructure dependencies and
// services into one application object consumed by the web API.
package app

import (
	"log/slog"

	"github.com/ledgerlens/ledgerlens/pkg/config"
	"github.com/ledgerlens/ledgerlens/pkg/provider"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
	"github.com/ledgerlens/ledgerlens/pkg/service/accounts"
	"github.com/ledgerlens/ledgerlens/pkg/service/link"
	"github.com/ledgerlens/ledgerlens/pkg/service/rules"
	syncsvc "github.com/ledgerlens/ledgerlens/pkg/service/sync"
)

// Deps contains the infrastructure dependencies the services are built on.
// Gateway is nil when the external provider is not configured.
type Deps struct {
	Uow       repository.UnitOfWork
	Financial provider.FinancialData
	Gateway   provider.AggregationGateway
	Logger    *slog.Logger
}

type App struct {
	Deps   *Deps
	Config *config.App

	// Syncer is the provider path selected by SYNC_PROVIDER.
	Syncer syncsvc.Syncer

	RuleService    *rules.Service
	SyncService    *syncsvc.Service
	LinkService    *link.Service
	AccountService *accounts.Service
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}

	app.RuleService = rules.New(deps.Uow, deps.Logger)
	app.SyncService = syncsvc.New(deps.Uow, deps.Financial, app.RuleService, deps.Logger)
	app.AccountService = accounts.New(deps.Uow, deps.Logger)
	if deps.Gateway != nil {
		app.LinkService = link.New(
			deps.Uow,
			deps.Gateway,
			app.RuleService,
			cfg.Vault.EncryptionKey,
			deps.Logger,
		)
	}

	syncerMap := map[string]func() syncsvc.Syncer{
		config.SyncProviderMock: func() syncsvc.Syncer {
			return app.SyncService
		},
		config.SyncProviderPlaid: func() syncsvc.Syncer {
			return app.LinkService
		},
	}
	if factory, ok := syncerMap[cfg.Sync.Provider]; ok {
		app.Syncer = factory()
	} else {
		app.Syncer = app.SyncService
	}
	return app
}
