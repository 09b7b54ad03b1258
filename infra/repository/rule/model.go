package rule

import (
	"time"

	"github.com/google/uuid"
)

// Rule is a persisted categorization rule.
type Rule struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null"`
	MatchType  string    `gorm:"type:varchar(32);not null"`
	MatchValue string    `gorm:"type:varchar(255);not null"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null"`
	Priority   int       `gorm:"not null"`
	IsActive   bool      `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the Rule model.
func (Rule) TableName() string {
	return "rules"
}
