// Package sync drives one windowed sync cycle per user: fetch facts from
// the configured provider, reconcile them against the persisted ledger,
// commit the result atomically, then apply categorization rules.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/provider"
	"github.com/ledgerlens/ledgerlens/pkg/reconcile"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
	"github.com/ledgerlens/ledgerlens/pkg/service/rules"
)

// defaultWindow is how far back a first sync reaches when no account has
// ever been synced.
const defaultWindow = 90 * 24 * time.Hour

// Result reports one sync cycle. The removed count is only populated by
// the incremental provider path; the windowed path never deletes.
type Result struct {
	AccountsSynced      int `json:"accountsSynced"`
	TransactionsCreated int `json:"transactionsCreated"`
	TransactionsUpdated int `json:"transactionsUpdated"`
	TransactionsRemoved int `json:"transactionsRemoved"`
}

// Syncer is the single "sync now for user X" operation exposed to the
// transport layer. Both provider paths implement it.
type Syncer interface {
	SyncNow(ctx context.Context, userID uuid.UUID) (Result, error)
}

// Service is the windowed-sync orchestrator backed by a
// provider.FinancialData source.
type Service struct {
	uow      repository.UnitOfWork
	provider provider.FinancialData
	rules    *rules.Service
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a sync orchestrator.
func New(
	uow repository.UnitOfWork,
	financial provider.FinancialData,
	ruleSvc *rules.Service,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:      uow,
		provider: financial,
		rules:    ruleSvc,
		logger:   logger.With("service", "Sync"),
		now:      time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// SyncNow runs one sync cycle for the user. The window lower bound is the
// oldest last_sync_at across the user's accounts, or 90 days back if none
// has ever synced. The create set, the update set and the last_sync_at
// advance commit as one transaction; a failure partway leaves prior state
// untouched, and a retry re-derives the same sets through reconciliation.
func (s *Service) SyncNow(ctx context.Context, userID uuid.UUID) (Result, error) {
	accounts, err := s.uow.AccountRepository().ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	if len(accounts) == 0 {
		return Result{}, nil
	}

	until := s.now()
	window := provider.Window{Since: windowSince(accounts, until), Until: until}

	incoming, err := s.provider.Sync(ctx, userID, accounts, window)
	if err != nil {
		return Result{}, fmt.Errorf("provider sync failed: %w", err)
	}

	ledger, err := s.uow.TransactionRepository().ListByUser(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	merge := reconcile.Reconcile(toExisting(ledger), incoming)

	accountIDs := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		accountIDs = append(accountIDs, a.ID)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo := uow.TransactionRepository()
		if err := txRepo.CreateMany(ctx, toCreates(userID, merge.ToCreate)); err != nil {
			return fmt.Errorf("failed to insert transactions: %w", err)
		}
		for _, up := range merge.ToUpdate {
			update := dto.TransactionUpdate{
				Status:                up.Status,
				MerchantName:          up.MerchantName,
				ProviderTransactionID: up.ProviderTransactionID,
			}
			if err := txRepo.Update(ctx, up.ID, update); err != nil {
				return fmt.Errorf("failed to update transaction %s: %w", up.ID, err)
			}
		}
		if err := uow.AccountRepository().UpdateLastSync(ctx, accountIDs, until); err != nil {
			return fmt.Errorf("failed to advance last_sync_at: %w", err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if _, err := s.rules.Apply(ctx, userID); err != nil {
		return Result{}, fmt.Errorf("failed to apply rules: %w", err)
	}

	result := Result{
		AccountsSynced:      len(accounts),
		TransactionsCreated: len(merge.ToCreate),
		TransactionsUpdated: len(merge.ToUpdate),
	}
	s.logger.Info("sync cycle complete",
		"user_id", userID,
		"accounts_synced", result.AccountsSynced,
		"created", result.TransactionsCreated,
		"updated", result.TransactionsUpdated,
	)
	return result, nil
}

// windowSince picks the oldest last_sync_at across the accounts, falling
// back to the default window when no account has ever synced.
func windowSince(accounts []dto.AccountRead, until time.Time) time.Time {
	var oldest *time.Time
	for _, a := range accounts {
		if a.LastSyncAt == nil {
			continue
		}
		if oldest == nil || a.LastSyncAt.Before(*oldest) {
			oldest = a.LastSyncAt
		}
	}
	if oldest == nil {
		return until.Add(-defaultWindow)
	}
	return *oldest
}

func toExisting(ledger []dto.TransactionRead) []reconcile.Existing {
	existing := make([]reconcile.Existing, 0, len(ledger))
	for _, t := range ledger {
		e := reconcile.Existing{
			ID:            t.ID,
			AccountID:     t.AccountID,
			AmountCents:   t.AmountCents,
			EffectiveDate: t.EffectiveDate,
			MerchantName:  t.MerchantName,
			Status:        t.Status,
		}
		if t.ProviderTransactionID != nil {
			e.ProviderTransactionID = *t.ProviderTransactionID
		}
		if t.ProviderPendingID != nil {
			e.ProviderPendingID = *t.ProviderPendingID
		}
		existing = append(existing, e)
	}
	return existing
}

func toCreates(userID uuid.UUID, facts []provider.Transaction) []dto.TransactionCreate {
	creates := make([]dto.TransactionCreate, 0, len(facts))
	for _, f := range facts {
		c := dto.TransactionCreate{
			ID:            uuid.New(),
			UserID:        userID,
			AccountID:     f.AccountID,
			AmountCents:   f.AmountCents,
			Currency:      f.Currency,
			EffectiveDate: f.EffectiveDate,
			AuthorizedAt:  f.AuthorizedAt,
			PostedAt:      f.PostedAt,
			MerchantName:  f.MerchantName,
			Description:   f.Description,
			Status:        f.Status,
			Provider:      f.Provider,
		}
		if f.ProviderTransactionID != "" {
			pid := f.ProviderTransactionID
			c.ProviderTransactionID = &pid
		}
		if f.ProviderPendingID != "" {
			pid := f.ProviderPendingID
			c.ProviderPendingID = &pid
		}
		creates = append(creates, c)
	}
	return creates
}
