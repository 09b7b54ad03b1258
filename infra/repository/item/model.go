package item

import (
	"time"

	"github.com/google/uuid"
)

// Item is a persisted sync connection to the aggregation provider. The
// cursor is written only after the corresponding page's deltas have been
// applied, so it lags, never leads, persisted data.
type Item struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID                uuid.UUID `gorm:"type:uuid;index;not null"`
	ItemID                string    `gorm:"type:varchar(128);uniqueIndex;not null"`
	AccessTokenCiphertext string    `gorm:"type:text;not null"`
	Cursor                *string   `gorm:"type:text"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for the Item model.
func (Item) TableName() string {
	return "plaid_items"
}
