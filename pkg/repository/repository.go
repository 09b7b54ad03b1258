// Package repository defines persistence contracts consumed by the
// services. Implementations live under infra/repository.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/dto"
)

// Transaction is the persistence contract for ledger transactions.
type Transaction interface {
	// CreateMany bulk-inserts new transactions.
	CreateMany(ctx context.Context, creates []dto.TransactionCreate) error
	// Update applies the non-nil fields of the update to one transaction.
	Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error
	// ListByUser returns the full ledger for one user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.TransactionRead, error)
	// GetByProviderTransactionID returns the user's transaction carrying the
	// given provider id, or domain.ErrNotFound.
	GetByProviderTransactionID(ctx context.Context, userID uuid.UUID, providerTxID string) (*dto.TransactionRead, error)
	// DeleteByProviderTransactionID deletes every transaction of the user
	// matching the provider id and reports how many rows went away. A no-op
	// delete is not an error.
	DeleteByProviderTransactionID(ctx context.Context, userID uuid.UUID, providerTxID string) (int64, error)
	// ListUncategorized returns the user's transactions with no category
	// that are not excluded from budgets.
	ListUncategorized(ctx context.Context, userID uuid.UUID) ([]dto.TransactionRead, error)
}

// Account is the persistence contract for connected accounts.
type Account interface {
	Create(ctx context.Context, create dto.AccountCreate) error
	// ListByUser returns the user's accounts ordered by provider then name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.AccountRead, error)
	// GetByProviderName finds a user's account by (provider, name), or
	// domain.ErrNotFound. Used for manual-link conflict detection.
	GetByProviderName(ctx context.Context, userID uuid.UUID, provider, name string) (*dto.AccountRead, error)
	// UpdateLastSync advances last_sync_at for the given accounts.
	UpdateLastSync(ctx context.Context, ids []uuid.UUID, at time.Time) error
	// UpdateLastSyncByItem advances last_sync_at for every account of a
	// sync connection.
	UpdateLastSyncByItem(ctx context.Context, itemID uuid.UUID, at time.Time) error
}

// Item is the persistence contract for provider sync connections.
type Item interface {
	Create(ctx context.Context, create dto.ItemCreate) error
	Update(ctx context.Context, id uuid.UUID, update dto.ItemUpdate) error
	// GetByItemID finds a connection by the provider's external item id
	// regardless of owning user, or domain.ErrNotFound. Callers use it to
	// detect an item already bound to a different user.
	GetByItemID(ctx context.Context, externalItemID string) (*dto.ItemRead, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.ItemRead, error)
}

// Rule is the persistence contract for categorization rules.
type Rule interface {
	// ListActiveByUser returns the user's active rules ordered by ascending
	// priority.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]dto.RuleRead, error)
}
