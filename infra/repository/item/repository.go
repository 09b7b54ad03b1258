package item

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

// New creates an item repository bound to the given session.
func New(db *gorm.DB) repository.Item {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, create dto.ItemCreate) error {
	id := create.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	model := Item{
		ID:                    id,
		UserID:                create.UserID,
		ItemID:                create.ItemID,
		AccessTokenCiphertext: create.AccessTokenCiphertext,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, update dto.ItemUpdate) error {
	updates := map[string]any{}
	if update.AccessTokenCiphertext != nil {
		updates["access_token_ciphertext"] = *update.AccessTokenCiphertext
	}
	if update.Cursor != nil {
		updates["cursor"] = *update.Cursor
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&Item{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repo) GetByItemID(ctx context.Context, externalItemID string) (*dto.ItemRead, error) {
	var model Item
	err := r.db.WithContext(ctx).
		Where("item_id = ?", externalItemID).
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

func (r *repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]dto.ItemRead, error) {
	var models []Item
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&models).Error; err != nil {
		return nil, err
	}
	reads := make([]dto.ItemRead, 0, len(models))
	for i := range models {
		reads = append(reads, mapModelToRead(&models[i]))
	}
	return reads, nil
}

func mapModelToRead(m *Item) dto.ItemRead {
	return dto.ItemRead{
		ID:                    m.ID,
		UserID:                m.UserID,
		ItemID:                m.ItemID,
		AccessTokenCiphertext: m.AccessTokenCiphertext,
		Cursor:                m.Cursor,
		CreatedAt:             m.CreatedAt,
	}
}
