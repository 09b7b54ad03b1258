package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
)

// AccountRead is a read-optimized DTO for connected-account queries.
type AccountRead struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Provider       domain.Provider
	Name           string
	Type           domain.AccountType
	PlaidItemID    *uuid.UUID
	PlaidAccountID *string
	LastSyncAt     *time.Time
	CreatedAt      time.Time
}

// AccountCreate is a DTO for linking a new connected account.
type AccountCreate struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Provider       domain.Provider
	Name           string
	Type           domain.AccountType
	PlaidItemID    *uuid.UUID
	PlaidAccountID *string
}
