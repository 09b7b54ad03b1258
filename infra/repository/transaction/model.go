package transaction

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the persisted ledger row. At most one of the two provider
// ids is the current identifying key, but both stay populated after the
// pending-to-posted transition so late duplicate events still match.
type Transaction struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID                uuid.UUID `gorm:"type:uuid;index;not null"`
	AccountID             uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountCents           int64     `gorm:"not null"`
	Currency              string    `gorm:"type:varchar(3);not null"`
	EffectiveDate         time.Time `gorm:"not null"`
	AuthorizedAt          *time.Time
	PostedAt              *time.Time
	MerchantName          string `gorm:"type:varchar(255);not null"`
	Description           string
	Status                string     `gorm:"type:varchar(16);not null"`
	CategoryID            *uuid.UUID `gorm:"type:uuid;index"`
	IsExcluded            bool       `gorm:"not null"`
	Provider              string     `gorm:"type:varchar(16);not null"`
	ProviderTransactionID *string    `gorm:"type:varchar(128);index"`
	ProviderPendingID     *string    `gorm:"type:varchar(128);index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}
