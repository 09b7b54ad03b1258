// Package initializer builds the application dependencies from
// configuration: logger, database, unit of work and providers.
package initializer

import (
	"fmt"

	"github.com/ledgerlens/ledgerlens/infra"
	"github.com/ledgerlens/ledgerlens/infra/provider/mockfinancial"
	"github.com/ledgerlens/ledgerlens/infra/provider/plaidsync"
	infrarepo "github.com/ledgerlens/ledgerlens/infra/repository"
	"github.com/ledgerlens/ledgerlens/pkg/app"
	"github.com/ledgerlens/ledgerlens/pkg/config"
)

// InitializeDependencies initializes all the application dependencies.
// The aggregation gateway is only built when the provider credentials
// are fully configured; the mock provider is always available.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	deps := &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	deps.Uow = infrarepo.NewUoW(db)

	deps.Financial = mockfinancial.New(logger)

	if cfg.PlaidConfigured() {
		gateway, err := plaidsync.New(cfg.Plaid, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create aggregation client: %w", err)
		}
		deps.Gateway = gateway
		logger.Info("aggregation provider configured", "env", cfg.Plaid.Env)
	} else {
		logger.Info("aggregation provider not configured, external sync disabled")
	}

	return deps, nil
}
