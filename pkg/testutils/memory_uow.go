// Package testutils provides in-memory test doubles for the persistence
// contracts, so service tests run without a database.
package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
)

// MemoryUoW is an in-memory repository.UnitOfWork. Do runs the function
// against the same state; it does not simulate rollback.
type MemoryUoW struct {
	mu sync.Mutex

	Transactions []dto.TransactionRead
	Accounts     []dto.AccountRead
	Items        []dto.ItemRead
	Rules        []dto.RuleRead

	// DoErr, when set, makes the next Do call fail before running fn.
	DoErr error
}

// NewMemoryUoW creates an empty in-memory unit of work.
func NewMemoryUoW() *MemoryUoW {
	return &MemoryUoW{}
}

func (m *MemoryUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if m.DoErr != nil {
		err := m.DoErr
		m.DoErr = nil
		return err
	}
	return fn(m)
}

func (m *MemoryUoW) TransactionRepository() repository.Transaction { return &memTxRepo{m} }
func (m *MemoryUoW) AccountRepository() repository.Account         { return &memAccountRepo{m} }
func (m *MemoryUoW) ItemRepository() repository.Item               { return &memItemRepo{m} }
func (m *MemoryUoW) RuleRepository() repository.Rule               { return &memRuleRepo{m} }

type memTxRepo struct{ m *MemoryUoW }

func (r *memTxRepo) CreateMany(_ context.Context, creates []dto.TransactionCreate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, c := range creates {
		id := c.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		r.m.Transactions = append(r.m.Transactions, dto.TransactionRead{
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
			Status:                c.Status,
			Provider:              c.Provider,
			ProviderTransactionID: c.ProviderTransactionID,
			ProviderPendingID:     c.ProviderPendingID,
			CreatedAt:             time.Now(),
		})
	}
	return nil
}

func (r *memTxRepo) Update(_ context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.Transactions {
		if r.m.Transactions[i].ID != id {
			continue
		}
		t := &r.m.Transactions[i]
		if update.Status != nil {
			t.Status = *update.Status
		}
		if update.PostedAt != nil {
			t.PostedAt = update.PostedAt
		}
		if update.MerchantName != nil {
			t.MerchantName = *update.MerchantName
		}
		if update.ProviderTransactionID != nil {
			t.ProviderTransactionID = update.ProviderTransactionID
		}
		if update.CategoryID != nil {
			t.CategoryID = update.CategoryID
		}
		return nil
	}
	return domain.ErrNotFound
}

func (r *memTxRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]dto.TransactionRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []dto.TransactionRead
	for _, t := range r.m.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTxRepo) GetByProviderTransactionID(
	_ context.Context,
	userID uuid.UUID,
	providerTxID string,
) (*dto.TransactionRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.Transactions {
		if t.UserID == userID && t.ProviderTransactionID != nil && *t.ProviderTransactionID == providerTxID {
			found := t
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memTxRepo) DeleteByProviderTransactionID(
	_ context.Context,
	userID uuid.UUID,
	providerTxID string,
) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var kept []dto.TransactionRead
	var deleted int64
	for _, t := range r.m.Transactions {
		if t.UserID == userID && t.ProviderTransactionID != nil && *t.ProviderTransactionID == providerTxID {
			deleted++
			continue
		}
		kept = append(kept, t)
	}
	r.m.Transactions = kept
	return deleted, nil
}

func (r *memTxRepo) ListUncategorized(_ context.Context, userID uuid.UUID) ([]dto.TransactionRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []dto.TransactionRead
	for _, t := range r.m.Transactions {
		if t.UserID == userID && t.CategoryID == nil && !t.IsExcluded {
			out = append(out, t)
		}
	}
	return out, nil
}

type memAccountRepo struct{ m *MemoryUoW }

func (r *memAccountRepo) Create(_ context.Context, create dto.AccountCreate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	id := create.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	r.m.Accounts = append(r.m.Accounts, dto.AccountRead{
		ID:             id,
		UserID:         create.UserID,
		Provider:       create.Provider,
		Name:           create.Name,
		Type:           create.Type,
		PlaidItemID:    create.PlaidItemID,
		PlaidAccountID: create.PlaidAccountID,
		CreatedAt:      time.Now(),
	})
	return nil
}

func (r *memAccountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]dto.AccountRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []dto.AccountRead
	for _, a := range r.m.Accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memAccountRepo) GetByProviderName(
	_ context.Context,
	userID uuid.UUID,
	provider, name string,
) (*dto.AccountRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.Accounts {
		if a.UserID == userID && string(a.Provider) == provider && a.Name == name {
			found := a
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccountRepo) UpdateLastSync(_ context.Context, ids []uuid.UUID, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	idSet := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	for i := range r.m.Accounts {
		if idSet[r.m.Accounts[i].ID] {
			t := at
			r.m.Accounts[i].LastSyncAt = &t
		}
	}
	return nil
}

func (r *memAccountRepo) UpdateLastSyncByItem(_ context.Context, itemID uuid.UUID, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.Accounts {
		if r.m.Accounts[i].PlaidItemID != nil && *r.m.Accounts[i].PlaidItemID == itemID {
			t := at
			r.m.Accounts[i].LastSyncAt = &t
		}
	}
	return nil
}

type memItemRepo struct{ m *MemoryUoW }

func (r *memItemRepo) Create(_ context.Context, create dto.ItemCreate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	id := create.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	r.m.Items = append(r.m.Items, dto.ItemRead{
		ID:                    id,
		UserID:                create.UserID,
		ItemID:                create.ItemID,
		AccessTokenCiphertext: create.AccessTokenCiphertext,
		CreatedAt:             time.Now(),
	})
	return nil
}

func (r *memItemRepo) Update(_ context.Context, id uuid.UUID, update dto.ItemUpdate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.Items {
		if r.m.Items[i].ID != id {
			continue
		}
		if update.AccessTokenCiphertext != nil {
			r.m.Items[i].AccessTokenCiphertext = *update.AccessTokenCiphertext
		}
		if update.Cursor != nil {
			r.m.Items[i].Cursor = update.Cursor
		}
		return nil
	}
	return domain.ErrNotFound
}

func (r *memItemRepo) GetByItemID(_ context.Context, externalItemID string) (*dto.ItemRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, it := range r.m.Items {
		if it.ItemID == externalItemID {
			found := it
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memItemRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]dto.ItemRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []dto.ItemRead
	for _, it := range r.m.Items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memRuleRepo struct{ m *MemoryUoW }

func (r *memRuleRepo) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]dto.RuleRead, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []dto.RuleRead
	for _, rule := range r.m.Rules {
		if rule.UserID == userID && rule.IsActive {
			out = append(out, rule)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}
