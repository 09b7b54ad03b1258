package sync_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/pkg/config"
	"github.com/ledgerlens/ledgerlens/pkg/domain"
	syncsvc "github.com/ledgerlens/ledgerlens/pkg/service/sync"
	syncweb "github.com/ledgerlens/ledgerlens/webapi/sync"
)

const testSecret = "test-secret"

type stubSyncer struct {
	result syncsvc.Result
	err    error
	userID uuid.UUID
}

func (s *stubSyncer) SyncNow(_ context.Context, userID uuid.UUID) (syncsvc.Result, error) {
	s.userID = userID
	return s.result, s.err
}

func newApp(t *testing.T, syncer syncsvc.Syncer) *fiber.App {
	t.Helper()
	app := fiber.New()
	cfg := &config.App{Auth: &config.Auth{Jwt: &config.Jwt{Secret: testSecret}}}
	syncweb.Routes(app, syncer, cfg)
	return app
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID.String()})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestSyncNowReturnsCounts(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	syncer := &stubSyncer{result: syncsvc.Result{
		AccountsSynced:      2,
		TransactionsCreated: 5,
		TransactionsUpdated: 1,
	}}
	app := newApp(t, syncer)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("Authorization", bearerToken(t, userID))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, syncer.userID)

	var body struct {
		Data syncsvc.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 5, body.Data.TransactionsCreated)
	assert.Equal(t, 2, body.Data.AccountsSynced)
}

func TestSyncNowRequiresAuth(t *testing.T) {
	t.Parallel()
	app := newApp(t, &stubSyncer{})

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.NotEqual(t, fiber.StatusOK, resp.StatusCode)
}

func TestSyncNowProviderUnavailableIsBadGateway(t *testing.T) {
	t.Parallel()
	syncer := &stubSyncer{err: domain.ErrProviderUnavailable}
	app := newApp(t, syncer)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("Authorization", bearerToken(t, uuid.New()))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
}

func TestSyncNowGenericErrorIsInternal(t *testing.T) {
	t.Parallel()
	syncer := &stubSyncer{err: errors.New("boom")}
	app := newApp(t, syncer)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("Authorization", bearerToken(t, uuid.New()))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
