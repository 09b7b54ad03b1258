package account_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/pkg/config"
	accountsvc "github.com/ledgerlens/ledgerlens/pkg/service/accounts"
	"github.com/ledgerlens/ledgerlens/pkg/testutils"
	accountweb "github.com/ledgerlens/ledgerlens/webapi/account"
)

const testSecret = "test-secret"

func newApp(t *testing.T) (*fiber.App, *testutils.MemoryUoW) {
	t.Helper()
	uow := testutils.NewMemoryUoW()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := accountsvc.New(uow, logger)
	app := fiber.New()
	cfg := &config.App{Auth: &config.Auth{Jwt: &config.Jwt{Secret: testSecret}}}
	accountweb.Routes(app, svc, cfg)
	return app, uow
}

func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID.String()})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func linkRequest(t *testing.T, userID uuid.UUID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/accounts/link", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, userID))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestLinkAccountCreates(t *testing.T) {
	t.Parallel()
	app, uow := newApp(t)
	userID := uuid.New()

	resp, err := app.Test(linkRequest(t, userID,
		`{"provider":"MOCK","name":"Everyday Checking","type":"CHECKING"}`))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Len(t, uow.Accounts, 1)
	assert.Equal(t, userID, uow.Accounts[0].UserID)
}

func TestLinkAccountDuplicateConflicts(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	userID := uuid.New()
	body := `{"provider":"MOCK","name":"Everyday Checking","type":"CHECKING"}`

	resp, err := app.Test(linkRequest(t, userID, body))
	require.NoError(t, err)
	resp.Body.Close() //nolint: errcheck
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(linkRequest(t, userID, body))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLinkAccountRejectsUnknownType(t *testing.T) {
	t.Parallel()
	app, uow := newApp(t)

	resp, err := app.Test(linkRequest(t, uuid.New(),
		`{"provider":"MOCK","name":"Savings","type":"SAVINGS"}`))
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, uow.Accounts)
}

func TestListAccountsReturnsOwnOnly(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	userID := uuid.New()

	resp, err := app.Test(linkRequest(t, userID,
		`{"provider":"MOCK","name":"Everyday Checking","type":"CHECKING"}`))
	require.NoError(t, err)
	resp.Body.Close() //nolint: errcheck

	resp, err = app.Test(linkRequest(t, uuid.New(),
		`{"provider":"MOCK","name":"Other Account","type":"CREDIT"}`))
	require.NoError(t, err)
	resp.Body.Close() //nolint: errcheck

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set("Authorization", bearerToken(t, userID))
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint: errcheck

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		Data []struct {
			Name string `json:"Name"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Everyday Checking", body.Data[0].Name)
}
