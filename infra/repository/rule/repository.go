package rule

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
)

type repo struct {
	db *gorm.DB
}

// New creates a rule repository bound to the given session.
func New(db *gorm.DB) repository.Rule {
	return &repo{db: db}
}

func (r *repo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]dto.RuleRead, error) {
	var models []Rule
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true", userID).
		Order("priority asc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	reads := make([]dto.RuleRead, 0, len(models))
	for _, m := range models {
		reads = append(reads, dto.RuleRead{
			ID:         m.ID,
			UserID:     m.UserID,
			MatchType:  domain.RuleMatchType(m.MatchType),
			MatchValue: m.MatchValue,
			CategoryID: m.CategoryID,
			Priority:   m.Priority,
			IsActive:   m.IsActive,
		})
	}
	return reads, nil
}
