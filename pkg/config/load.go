package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ledgerlens/ledgerlens/pkg/vault"
)

// Load reads environment variables (optionally from a .env file) into an
// App config and validates the cross-field constraints that must fail at
// startup rather than first use.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file found in current directory")
		}
	} else {
		for _, path := range envFilePath {
			if err := godotenv.Load(path); err != nil {
				logger.Debug("environment file not loaded", "path", path, "error", err)
				continue
			}
			logger.Info("environment loaded from file", "path", path)
			break
		}
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("app config loaded",
		"env", cfg.Env,
		"sync_provider", cfg.Sync.Provider,
		"db", maskValue(cfg.DB.Url),
		"plaid_env", cfg.Plaid.Env,
		"plaid_client_id", maskValue(cfg.Plaid.ClientId),
	)
	return &cfg, nil
}

// PlaidConfigured reports whether the external provider credentials are
// fully present.
func (a *App) PlaidConfigured() bool {
	return a.Plaid.ClientId != "" && a.Plaid.Secret != "" && a.Vault.EncryptionKey != ""
}

// Validate enforces startup-time configuration invariants: the Plaid
// credential set is all-or-nothing, and the encryption key, when present,
// must decode to exactly 32 bytes.
func (a *App) Validate() error {
	var missing []string
	if a.Plaid.ClientId == "" {
		missing = append(missing, "PLAID_CLIENT_ID")
	}
	if a.Plaid.Secret == "" {
		missing = append(missing, "PLAID_SECRET")
	}
	if a.Vault.EncryptionKey == "" {
		missing = append(missing, "APP_ENCRYPTION_KEY")
	}
	if len(missing) > 0 && len(missing) < 3 {
		return fmt.Errorf(
			"plaid is partially configured, set all or none of PLAID_CLIENT_ID, PLAID_SECRET, APP_ENCRYPTION_KEY (missing: %s)",
			strings.Join(missing, ", "),
		)
	}
	if a.Vault.EncryptionKey != "" {
		if _, err := vault.DecodeKey(a.Vault.EncryptionKey); err != nil {
			return fmt.Errorf("invalid APP_ENCRYPTION_KEY: %w", err)
		}
	}
	switch a.Plaid.Env {
	case "sandbox", "development", "production":
	default:
		return fmt.Errorf("PLAID_ENV must be sandbox, development, or production, got %q", a.Plaid.Env)
	}
	switch a.Sync.Provider {
	case SyncProviderMock, SyncProviderPlaid:
	default:
		return fmt.Errorf("SYNC_PROVIDER must be mock or plaid, got %q", a.Sync.Provider)
	}
	if a.Sync.Provider == SyncProviderPlaid && !a.PlaidConfigured() {
		return fmt.Errorf("SYNC_PROVIDER=plaid requires the full plaid credential set")
	}
	return nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:3] + "****" + v[len(v)-3:]
}
