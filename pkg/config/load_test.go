package config_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/pkg/config"
)

func validKey() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/ledgerlens_test")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "mock", cfg.Sync.Provider)
	assert.Equal(t, "sandbox", cfg.Plaid.Env)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.False(t, cfg.PlaidConfigured())
}

func TestLoadPartialPlaidConfigFails(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PLAID_CLIENT_ID", "client-id")

	_, err := config.Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partially configured")
	assert.Contains(t, err.Error(), "PLAID_SECRET")
	assert.Contains(t, err.Error(), "APP_ENCRYPTION_KEY")
}

func TestLoadFullPlaidConfig(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PLAID_CLIENT_ID", "client-id")
	t.Setenv("PLAID_SECRET", "shared-secret")
	t.Setenv("APP_ENCRYPTION_KEY", validKey())

	cfg, err := config.Load("does-not-exist.env")
	require.NoError(t, err)
	assert.True(t, cfg.PlaidConfigured())
}

func TestLoadRejectsShortEncryptionKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PLAID_CLIENT_ID", "client-id")
	t.Setenv("PLAID_SECRET", "shared-secret")
	t.Setenv("APP_ENCRYPTION_KEY", base64.StdEncoding.EncodeToString(make([]byte, 16)))

	_, err := config.Load("does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestLoadRejectsPlaidProviderWithoutCredentials(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SYNC_PROVIDER", "plaid")

	_, err := config.Load("does-not-exist.env")
	require.Error(t, err)
}

func TestLoadRejectsUnknownSyncProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SYNC_PROVIDER", "csv")

	_, err := config.Load("does-not-exist.env")
	require.Error(t, err)
}
