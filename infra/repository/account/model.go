package account

import (
	"time"

	"github.com/google/uuid"
)

// Account is a persisted connected account. The plaid columns are null
// for accounts that are not externally linked.
type Account struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	Provider       string     `gorm:"type:varchar(16);not null"`
	Name           string     `gorm:"type:varchar(255);not null"`
	Type           string     `gorm:"type:varchar(16);not null"`
	PlaidItemID    *uuid.UUID `gorm:"type:uuid;index"`
	PlaidAccountID *string    `gorm:"type:varchar(128);index"`
	LastSyncAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "connected_accounts"
}
