package plaidsync_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/infra/provider/plaidsync"
	"github.com/ledgerlens/ledgerlens/pkg/config"
	"github.com/ledgerlens/ledgerlens/pkg/domain"
)

func testClient(t *testing.T, handler http.Handler) *plaidsync.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := plaidsync.New(&config.Plaid{
		ClientId:    "client-id",
		Secret:      "shared-secret",
		Env:         "sandbox",
		HTTPTimeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client.WithBaseURL(server.URL)
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Parallel()
	_, err := plaidsync.New(&config.Plaid{Env: "sandbox"}, nil)
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)

	_, err = plaidsync.New(&config.Plaid{ClientId: "a", Secret: "b", Env: "staging"}, nil)
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
}

func TestCreateLinkSession(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/link/token/create", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-id", body["client_id"])
		user := body["user"].(map[string]any)
		assert.Equal(t, userID.String(), user["client_user_id"])
		_ = json.NewEncoder(w).Encode(map[string]string{"link_token": "link-sandbox-token"})
	}))

	token, err := client.CreateLinkSession(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "link-sandbox-token", token)
}

func TestExchangePublicToken(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/item/public_token/exchange", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "access-sandbox-token",
			"item_id":      "item-1",
		})
	}))

	access, itemID, err := client.ExchangePublicToken(context.Background(), "public-token")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-token", access)
	assert.Equal(t, "item-1", itemID)
}

func TestExchangePublicTokenRejectsEmptyResponse(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, _, err := client.ExchangePublicToken(context.Background(), "public-token")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestFetchAccountsFallsBackToAccountID(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/get", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"accounts": []map[string]any{
				{"account_id": "acc-1", "name": "Everyday Checking", "type": "depository", "subtype": "checking"},
				{"account_id": "acc-2", "type": "credit", "subtype": "credit card"},
			},
		})
	}))

	accounts, err := client.FetchAccounts(context.Background(), "access-token")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Everyday Checking", accounts[0].Name)
	assert.Equal(t, "acc-2", accounts[1].Name, "missing name falls back to the account id")
}

func TestSyncTransactionsForwardsCursorVerbatim(t *testing.T) {
	t.Parallel()
	var gotCursor string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/sync", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotCursor, _ = body["cursor"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"added": []map[string]any{{
				"transaction_id":    "T1",
				"account_id":        "acc-1",
				"amount":            12.34,
				"iso_currency_code": "USD",
				"date":              "2026-08-14",
				"authorized_date":   "2026-08-13",
				"name":              "STARBUCKS #1234",
				"merchant_name":     "Starbucks",
				"pending":           false,
			}},
			"modified":    []map[string]any{},
			"removed":     []map[string]any{{"transaction_id": "T0"}},
			"next_cursor": "cursor-2",
			"has_more":    true,
		})
	}))

	page, err := client.SyncTransactions(context.Background(), "access-token", "cursor-1=opaque/blob")
	require.NoError(t, err)
	assert.Equal(t, "cursor-1=opaque/blob", gotCursor)
	assert.Equal(t, "cursor-2", page.NextCursor)
	assert.True(t, page.HasMore)
	require.Len(t, page.Added, 1)
	assert.Equal(t, 12.34, page.Added[0].Amount)
	assert.Equal(t, "2026-08-13", page.Added[0].AuthorizedDate)
	assert.Equal(t, []string{"T0"}, page.Removed)
}

func TestUpstreamErrorIsRetryableAndCarriesMessage(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error_type":    "INVALID_INPUT",
			"error_code":    "INVALID_ACCESS_TOKEN",
			"error_message": "the provided access token is invalid",
		})
	}))

	_, err := client.SyncTransactions(context.Background(), "bad-token", "")
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "INVALID_ACCESS_TOKEN")
	assert.Contains(t, err.Error(), "access token is invalid")
}

func TestMalformedResponseIsRetryable(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))

	_, err := client.SyncTransactions(context.Background(), "access-token", "")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
