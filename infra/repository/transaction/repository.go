package transaction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
)

type repo struct {
	db *gorm.DB
}

// New creates a transaction repository bound to the given session.
func New(db *gorm.DB) repository.Transaction {
	return &repo{db: db}
}

func (r *repo) CreateMany(ctx context.Context, creates []dto.TransactionCreate) error {
	if len(creates) == 0 {
		return nil
	}
	models := make([]Transaction, 0, len(creates))
	for _, c := range creates {
		models = append(models, mapCreateToModel(c))
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	updates := mapUpdateToColumns(update)
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.TransactionRead, error) {
	var models []Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("effective_date desc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	reads := make([]dto.TransactionRead, 0, len(models))
	for i := range models {
		reads = append(reads, mapModelToRead(&models[i]))
	}
	return reads, nil
}

func (r *repo) GetByProviderTransactionID(
	ctx context.Context,
	userID uuid.UUID,
	providerTxID string,
) (*dto.TransactionRead, error) {
	var model Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider_transaction_id = ?", userID, providerTxID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	read := mapModelToRead(&model)
	return &read, nil
}

func (r *repo) DeleteByProviderTransactionID(
	ctx context.Context,
	userID uuid.UUID,
	providerTxID string,
) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND provider_transaction_id = ?", userID, providerTxID).
		Delete(&Transaction{})
	return res.RowsAffected, res.Error
}

func (r *repo) ListUncategorized(ctx context.Context, userID uuid.UUID) ([]dto.TransactionRead, error) {
	var models []Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND category_id IS NULL AND is_excluded = false", userID).
		Find(&models).Error; err != nil {
		return nil, err
	}
	reads := make([]dto.TransactionRead, 0, len(models))
	for i := range models {
		reads = append(reads, mapModelToRead(&models[i]))
	}
	return reads, nil
}

func mapCreateToModel(c dto.TransactionCreate) Transaction {
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return Transaction{
		ID:                    id,
		UserID:                c.UserID,
		AccountID:             c.AccountID,
		AmountCents:           c.AmountCents,
		Currency:              c.Currency,
		EffectiveDate:         c.EffectiveDate,
		AuthorizedAt:          c.AuthorizedAt,
		PostedAt:              c.PostedAt,
		MerchantName:          c.MerchantName,
		Description:           c.Description,
		Status:                string(c.Status),
		Provider:              string(c.Provider),
		ProviderTransactionID: c.ProviderTransactionID,
		ProviderPendingID:     c.ProviderPendingID,
	}
}

func mapUpdateToColumns(u dto.TransactionUpdate) map[string]any {
	updates := map[string]any{}
	if u.Status != nil {
		updates["status"] = string(*u.Status)
	}
	if u.PostedAt != nil {
		updates["posted_at"] = *u.PostedAt
	}
	if u.MerchantName != nil {
		updates["merchant_name"] = *u.MerchantName
	}
	if u.ProviderTransactionID != nil {
		updates["provider_transaction_id"] = *u.ProviderTransactionID
	}
	if u.CategoryID != nil {
		updates["category_id"] = *u.CategoryID
	}
	return updates
}

func mapModelToRead(m *Transaction) dto.TransactionRead {
	return dto.TransactionRead{
		ID:                    m.ID,
		UserID:                m.UserID,
		AccountID:             m.AccountID,
		AmountCents:           m.AmountCents,
		Currency:              m.Currency,
		EffectiveDate:         m.EffectiveDate,
		AuthorizedAt:          m.AuthorizedAt,
		PostedAt:              m.PostedAt,
		MerchantName:          m.MerchantName,
		Description:           m.Description,
		Status:                domain.TransactionStatus(m.Status),
		CategoryID:            m.CategoryID,
		IsExcluded:            m.IsExcluded,
		Provider:              domain.Provider(m.Provider),
		ProviderTransactionID: m.ProviderTransactionID,
		ProviderPendingID:     m.ProviderPendingID,
		CreatedAt:             m.CreatedAt,
	}
}
