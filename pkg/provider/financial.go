// Package provider defines the boundary between the sync engine and the
// systems that produce transaction facts: the deterministic mock generator
// and the external incremental-sync client. Concrete implementations live
// under infra/provider and are selected by configuration at process start.
package provider

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
)

// Transaction is a normalized transaction fact emitted by a provider.
// Amounts are signed cents: negative is a debit, positive a credit.
// Provider ids are empty strings when the provider did not assign one.
type Transaction struct {
	AccountID             uuid.UUID
	AmountCents           int64
	Currency              string
	AuthorizedAt          *time.Time
	PostedAt              *time.Time
	EffectiveDate         time.Time
	MerchantName          string
	Description           string
	Status                domain.TransactionStatus
	Provider              domain.Provider
	ProviderTransactionID string
	ProviderPendingID     string
}

// Window bounds a windowed (non-cursor) fetch.
type Window struct {
	Since time.Time
	Until time.Time
}

// FinancialData produces normalized transaction facts for a set of
// connected accounts over a time window.
type FinancialData interface {
	Sync(
		ctx context.Context,
		userID uuid.UUID,
		accounts []dto.AccountRead,
		window Window,
	) ([]Transaction, error)
}
