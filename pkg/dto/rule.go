package dto

import (
	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
)

// RuleRead is a read-optimized DTO for categorization rules.
type RuleRead struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	MatchType  domain.RuleMatchType
	MatchValue string
	CategoryID uuid.UUID
	Priority   int
	IsActive   bool
}
