// Package plaidsync is the HTTP client for the external account
// aggregation service's incremental-sync API. It implements
// provider.AggregationGateway; all sync state (cursors, tokens) lives
// with the caller.
package plaidsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/config"
	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/provider"
)

var environments = map[string]string{
	"sandbox":     "https://sandbox.plaid.com",
	"development": "https://development.plaid.com",
	"production":  "https://production.plaid.com",
}

// Client calls the aggregation provider over HTTPS.
type Client struct {
	clientID   string
	secret     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a client from the provider credentials. The environment tag
// selects the API host; credentials must already be validated as complete
// by config loading.
func New(cfg *config.Plaid, logger *slog.Logger) (*Client, error) {
	if cfg.ClientId == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("%w: missing client credentials", domain.ErrProviderNotConfigured)
	}
	baseURL, ok := environments[cfg.Env]
	if !ok {
		return nil, fmt.Errorf("%w: unknown environment %q", domain.ErrProviderNotConfigured, cfg.Env)
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		clientID:   cfg.ClientId,
		secret:     cfg.Secret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("provider", "plaid"),
	}, nil
}

// WithBaseURL overrides the API host, for tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// CreateLinkSession implements provider.AggregationGateway.
func (c *Client) CreateLinkSession(ctx context.Context, userID uuid.UUID) (string, error) {
	req := linkTokenCreateRequest{
		ClientID:     c.clientID,
		Secret:       c.secret,
		ClientName:   "LedgerLens",
		Language:     "en",
		CountryCodes: []string{"US"},
		User:         linkTokenUser{ClientUserID: userID.String()},
		Products:     []string{"transactions"},
	}
	var resp linkTokenCreateResponse
	if err := c.post(ctx, "/link/token/create", req, &resp); err != nil {
		return "", err
	}
	if resp.LinkToken == "" {
		return "", fmt.Errorf("%w: provider did not return a link token", domain.ErrProviderUnavailable)
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken implements provider.AggregationGateway.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	req := publicTokenExchangeRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		PublicToken: publicToken,
	}
	var resp publicTokenExchangeResponse
	if err := c.post(ctx, "/item/public_token/exchange", req, &resp); err != nil {
		return "", "", err
	}
	if resp.AccessToken == "" || resp.ItemID == "" {
		return "", "", fmt.Errorf("%w: exchange returned no access token or item id", domain.ErrProviderUnavailable)
	}
	return resp.AccessToken, resp.ItemID, nil
}

// FetchAccounts implements provider.AggregationGateway.
func (c *Client) FetchAccounts(ctx context.Context, accessToken string) ([]provider.LinkedAccount, error) {
	req := accountsGetRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		AccessToken: accessToken,
	}
	var resp accountsGetResponse
	if err := c.post(ctx, "/accounts/get", req, &resp); err != nil {
		return nil, err
	}
	accounts := make([]provider.LinkedAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		name := a.Name
		if name == "" {
			name = a.AccountID
		}
		accounts = append(accounts, provider.LinkedAccount{
			AccountID: a.AccountID,
			Name:      name,
			Type:      a.Type,
			Subtype:   a.Subtype,
		})
	}
	return accounts, nil
}

// SyncTransactions implements provider.AggregationGateway. An empty
// cursor requests the feed from the beginning; the returned next cursor
// is opaque and forwarded verbatim on the next call.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string) (*provider.SyncPage, error) {
	req := transactionsSyncRequest{
		ClientID:    c.clientID,
		Secret:      c.secret,
		AccessToken: accessToken,
		Cursor:      cursor,
	}
	var resp transactionsSyncResponse
	if err := c.post(ctx, "/transactions/sync", req, &resp); err != nil {
		return nil, err
	}

	page := &provider.SyncPage{
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}
	for _, w := range resp.Added {
		page.Added = append(page.Added, mapWireTransaction(w))
	}
	for _, w := range resp.Modified {
		page.Modified = append(page.Modified, mapWireTransaction(w))
	}
	for _, r := range resp.Removed {
		if r.TransactionID != "" {
			page.Removed = append(page.Removed, r.TransactionID)
		}
	}
	return page, nil
}

func mapWireTransaction(w wireTransaction) provider.SyncTransaction {
	return provider.SyncTransaction{
		TransactionID:   w.TransactionID,
		AccountID:       w.AccountID,
		Amount:          w.Amount,
		ISOCurrencyCode: w.ISOCurrencyCode,
		Date:            w.Date,
		AuthorizedDate:  w.AuthorizedDate,
		Name:            w.Name,
		MerchantName:    w.MerchantName,
		Pending:         w.Pending,
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrProviderUnavailable, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr errorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.ErrorMessage != "" {
			c.logger.Warn("provider request rejected",
				"path", path,
				"status", resp.StatusCode,
				"error_code", apiErr.ErrorCode,
			)
			return fmt.Errorf("%w: %s: %s", domain.ErrProviderUnavailable, apiErr.ErrorCode, apiErr.ErrorMessage)
		}
		return fmt.Errorf("%w: %s returned status %d", domain.ErrProviderUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response from %s: %v", domain.ErrProviderUnavailable, path, err)
	}
	return nil
}
