package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
)

type repo struct {
	db *gorm.DB
}

// New creates an account repository bound to the given session.
func New(db *gorm.DB) repository.Account {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, create dto.AccountCreate) error {
	id := create.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	model := Account{
		ID:             id,
		UserID:         create.UserID,
		Provider:       string(create.Provider),
		Name:           create.Name,
		Type:           string(create.Type),
		PlaidItemID:    create.PlaidItemID,
		PlaidAccountID: create.PlaidAccountID,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.AccountRead, error) {
	var models []Account
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("provider asc, name asc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	reads := make([]dto.AccountRead, 0, len(models))
	for i := range models {
		reads = append(reads, mapModelToRead(&models[i]))
	}
	return reads, nil
}

func (r *repo) GetByProviderName(
	ctx context.Context,
	userID uuid.UUID,
	provider, name string,
) (*dto.AccountRead, error) {
	var model Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ? AND name = ?", userID, provider, name).
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

func (r *repo) UpdateLastSync(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id IN ?", ids).
		Update("last_sync_at", at).Error
}

func (r *repo) UpdateLastSyncByItem(ctx context.Context, itemID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("plaid_item_id = ?", itemID).
		Update("last_sync_at", at).Error
}

func mapModelToRead(m *Account) dto.AccountRead {
	return dto.AccountRead{
		ID:             m.ID,
		UserID:         m.UserID,
		Provider:       domain.Provider(m.Provider),
		Name:           m.Name,
		Type:           domain.AccountType(m.Type),
		PlaidItemID:    m.PlaidItemID,
		PlaidAccountID: m.PlaidAccountID,
		LastSyncAt:     m.LastSyncAt,
		CreatedAt:      m.CreatedAt,
	}
}
