package dto

import (
	"time"

	"github.com/google/uuid"
)

// ItemRead is a read-optimized DTO for a provider sync connection.
// AccessTokenCiphertext is the vault-sealed access token, stored verbatim.
type ItemRead struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	ItemID                string
	AccessTokenCiphertext string
	Cursor                *string
	CreatedAt             time.Time
}

// ItemCreate is a DTO for creating a new sync connection.
type ItemCreate struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	ItemID                string
	AccessTokenCiphertext string
}

// ItemUpdate is a DTO for updating a sync connection. The cursor is an
// opaque provider token; it is stored and forwarded verbatim, never parsed.
type ItemUpdate struct {
	AccessTokenCiphertext *string
	Cursor                *string
}
