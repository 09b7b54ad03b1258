package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
)

// TransactionRead is a read-optimized DTO for transaction queries and API responses.
type TransactionRead struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	AccountID             uuid.UUID
	AmountCents           int64
	Currency              string
	EffectiveDate         time.Time
	AuthorizedAt          *time.Time
	PostedAt              *time.Time
	MerchantName          string
	Description           string
	Status                domain.TransactionStatus
	CategoryID            *uuid.UUID
	IsExcluded            bool
	Provider              domain.Provider
	ProviderTransactionID *string
	ProviderPendingID     *string
	CreatedAt             time.Time
}

// TransactionCreate is a DTO for creating a new transaction.
type TransactionCreate struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	AccountID             uuid.UUID
	AmountCents           int64
	Currency              string
	EffectiveDate         time.Time
	AuthorizedAt          *time.Time
	PostedAt              *time.Time
	MerchantName          string
	Description           string
	Status                domain.TransactionStatus
	Provider              domain.Provider
	ProviderTransactionID *string
	ProviderPendingID     *string
}

// TransactionUpdate is a DTO for updating one or more fields of a
// transaction. Nil fields are left untouched.
type TransactionUpdate struct {
	Status                *domain.TransactionStatus
	PostedAt              *time.Time
	MerchantName          *string
	ProviderTransactionID *string
	CategoryID            *uuid.UUID
}
