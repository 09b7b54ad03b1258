package provider

import (
	"context"

	"github.com/google/uuid"
)

// LinkedAccount is account metadata returned by the aggregation provider
// after a token exchange.
type LinkedAccount struct {
	AccountID string
	Name      string
	Type      string
	Subtype   string
}

// SyncTransaction is one transaction delta in an incremental-sync page,
// still in the provider's own convention: amounts are positive for debits
// and dates are YYYY-MM-DD strings.
type SyncTransaction struct {
	TransactionID   string
	AccountID       string
	Amount          float64
	ISOCurrencyCode string
	Date            string
	AuthorizedDate  string
	Name            string
	MerchantName    string
	Pending         bool
}

// SyncPage is one page of an incremental change feed. NextCursor is an
// opaque token; it acknowledges consumption of every delta in this page
// and must only be stored after the page has been durably applied.
type SyncPage struct {
	Added      []SyncTransaction
	Modified   []SyncTransaction
	Removed    []string
	NextCursor string
	HasMore    bool
}

// AggregationGateway is the consumed capability of the external
// account-aggregation service.
type AggregationGateway interface {
	// CreateLinkSession starts a link session for the user and returns an
	// opaque session token for the client.
	CreateLinkSession(ctx context.Context, userID uuid.UUID) (string, error)
	// ExchangePublicToken trades a client-side public token for a long-lived
	// access token and the provider's connection (item) id.
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	// FetchAccounts lists account metadata for a connection.
	FetchAccounts(ctx context.Context, accessToken string) ([]LinkedAccount, error)
	// SyncTransactions fetches one page of deltas at the given cursor.
	// An empty cursor means a first sync.
	SyncTransactions(ctx context.Context, accessToken, cursor string) (*SyncPage, error)
}
