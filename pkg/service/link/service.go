// Package link manages connections to the external aggregation provider:
// the link/exchange flow that stores sealed access tokens, and the
// incremental cursor-driven transaction sync.
package link

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/provider"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
	"github.com/ledgerlens/ledgerlens/pkg/service/rules"
	syncsvc "github.com/ledgerlens/ledgerlens/pkg/service/sync"
	"github.com/ledgerlens/ledgerlens/pkg/vault"
)

// Service implements the external provider path: linking connections and
// draining their incremental change feeds.
type Service struct {
	uow           repository.UnitOfWork
	gateway       provider.AggregationGateway
	rules         *rules.Service
	encryptionKey string
	logger        *slog.Logger
	now           func() time.Time
}

// New creates a link service. The encryption key seals access tokens at
// rest and must be the validated 32-byte base64 key from config.
func New(
	uow repository.UnitOfWork,
	gateway provider.AggregationGateway,
	ruleSvc *rules.Service,
	encryptionKey string,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:           uow,
		gateway:       gateway,
		rules:         ruleSvc,
		encryptionKey: encryptionKey,
		logger:        logger.With("service", "Link"),
		now:           time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateLinkSession starts a provider link session for the user.
func (s *Service) CreateLinkSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.gateway.CreateLinkSession(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create link session: %w", err)
	}
	return token, nil
}

// ExchangePublicToken trades a client public token for a long-lived
// access token, seals it, and registers the connection and its accounts.
// An item already bound to a different user is a hard conflict, never
// auto-merged. Returns the user's externally-linked accounts.
func (s *Service) ExchangePublicToken(
	ctx context.Context,
	userID uuid.UUID,
	publicToken string,
) ([]dto.AccountRead, error) {
	accessToken, externalItemID, err := s.gateway.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	payload, err := vault.Seal(accessToken, s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to seal access token: %w", err)
	}
	ciphertext, err := vault.Serialize(payload)
	if err != nil {
		return nil, err
	}

	existing, err := s.uow.ItemRepository().GetByItemID(ctx, externalItemID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up item: %w", err)
	}
	if existing != nil && existing.UserID != userID {
		return nil, fmt.Errorf("%w: item is already linked to another user", domain.ErrConflict)
	}

	linked, err := s.gateway.FetchAccounts(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		itemRepo := uow.ItemRepository()
		accountRepo := uow.AccountRepository()

		itemID := uuid.New()
		if existing != nil {
			itemID = existing.ID
			if err := itemRepo.Update(ctx, itemID, dto.ItemUpdate{
				AccessTokenCiphertext: &ciphertext,
			}); err != nil {
				return fmt.Errorf("failed to rotate access token: %w", err)
			}
		} else {
			if err := itemRepo.Create(ctx, dto.ItemCreate{
				ID:                    itemID,
				UserID:                userID,
				ItemID:                externalItemID,
				AccessTokenCiphertext: ciphertext,
			}); err != nil {
				return fmt.Errorf("failed to create item: %w", err)
			}
		}

		known, err := accountRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		knownByProviderID := make(map[string]bool, len(known))
		for _, a := range known {
			if a.PlaidAccountID != nil {
				knownByProviderID[*a.PlaidAccountID] = true
			}
		}

		for _, acc := range linked {
			if knownByProviderID[acc.AccountID] {
				continue
			}
			providerAccountID := acc.AccountID
			if err := accountRepo.Create(ctx, dto.AccountCreate{
				ID:             uuid.New(),
				UserID:         userID,
				Provider:       domain.ProviderPlaid,
				Name:           acc.Name,
				Type:           provider.InferAccountType(acc.Subtype, acc.Type),
				PlaidItemID:    &itemID,
				PlaidAccountID: &providerAccountID,
			}); err != nil {
				return fmt.Errorf("failed to create account %s: %w", acc.AccountID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	accounts, err := s.uow.AccountRepository().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	external := accounts[:0:0]
	for _, a := range accounts {
		if a.Provider == domain.ProviderPlaid {
			external = append(external, a)
		}
	}
	s.logger.Info("exchanged public token",
		"user_id", userID,
		"accounts", len(external),
	)
	return external, nil
}

// SyncNow drains the incremental change feed for every connection of the
// user. Pages are fetched and applied strictly in order; each page's
// deltas and its cursor commit together, so a crash costs at most one
// page of replay and a retry from the stored cursor is idempotent.
func (s *Service) SyncNow(ctx context.Context, userID uuid.UUID) (syncsvc.Result, error) {
	items, err := s.uow.ItemRepository().ListByUser(ctx, userID)
	if err != nil {
		return syncsvc.Result{}, fmt.Errorf("failed to load items: %w", err)
	}
	if len(items) == 0 {
		return syncsvc.Result{}, nil
	}

	accounts, err := s.uow.AccountRepository().ListByUser(ctx, userID)
	if err != nil {
		return syncsvc.Result{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	accountByProviderID := make(map[string]uuid.UUID)
	for _, a := range accounts {
		if a.PlaidAccountID != nil {
			accountByProviderID[*a.PlaidAccountID] = a.ID
		}
	}

	var totalAdded, totalModified, totalRemoved int
	for _, item := range items {
		added, modified, removed, err := s.syncItem(ctx, item, accountByProviderID)
		if err != nil {
			return syncsvc.Result{}, fmt.Errorf("sync of item %s failed: %w", item.ItemID, err)
		}
		totalAdded += added
		totalModified += modified
		totalRemoved += removed

		if err := s.uow.AccountRepository().UpdateLastSyncByItem(ctx, item.ID, s.now()); err != nil {
			return syncsvc.Result{}, fmt.Errorf("failed to advance last_sync_at: %w", err)
		}
	}

	if totalAdded > 0 || totalModified > 0 {
		// One rule pass for the whole user, not per page.
		if _, err := s.rules.Apply(ctx, userID); err != nil {
			return syncsvc.Result{}, fmt.Errorf("failed to apply rules: %w", err)
		}
	}

	s.logger.Info("incremental sync complete",
		"user_id", userID,
		"added", totalAdded,
		"modified", totalModified,
		"removed", totalRemoved,
	)
	return syncsvc.Result{
		AccountsSynced:      len(accountByProviderID),
		TransactionsCreated: totalAdded,
		TransactionsUpdated: totalModified,
		TransactionsRemoved: totalRemoved,
	}, nil
}

// syncItem pages through one connection's feed. The loop is strictly
// sequential: page N+1 is not fetched until page N's deltas and cursor
// have committed.
func (s *Service) syncItem(
	ctx context.Context,
	item dto.ItemRead,
	accountByProviderID map[string]uuid.UUID,
) (added, modified, removed int, err error) {
	payload, err := vault.Deserialize(item.AccessTokenCiphertext)
	if err != nil {
		return 0, 0, 0, err
	}
	accessToken, err := vault.Open(payload, s.encryptionKey)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to open stored access token: %w", err)
	}

	cursor := ""
	if item.Cursor != nil {
		cursor = *item.Cursor
	}

	for hasMore := true; hasMore; {
		page, err := s.gateway.SyncTransactions(ctx, accessToken, cursor)
		if err != nil {
			// The stored cursor is untouched; the caller can retry the
			// same page later.
			return added, modified, removed, err
		}

		err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			pageAdded, pageModified, pageRemoved, err := s.applyPage(ctx, uow, item.UserID, page, accountByProviderID)
			if err != nil {
				return err
			}
			added += pageAdded
			modified += pageModified
			removed += pageRemoved

			nextCursor := page.NextCursor
			return uow.ItemRepository().Update(ctx, item.ID, dto.ItemUpdate{Cursor: &nextCursor})
		})
		if err != nil {
			return added, modified, removed, err
		}

		cursor = page.NextCursor
		hasMore = page.HasMore
	}
	return added, modified, removed, nil
}

func (s *Service) applyPage(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	page *provider.SyncPage,
	accountByProviderID map[string]uuid.UUID,
) (added, modified, removed int, err error) {
	txRepo := uow.TransactionRepository()

	for _, w := range page.Added {
		accountID, ok := accountByProviderID[w.AccountID]
		if !ok {
			s.logger.Warn("added event references unknown account",
				"user_id", userID,
				"provider_account_id", w.AccountID,
			)
			continue
		}
		// Idempotent re-delivery: an id we already hold is skipped.
		_, err := txRepo.GetByProviderTransactionID(ctx, userID, w.TransactionID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return added, modified, removed, err
		}

		create := s.mapAdded(userID, accountID, w)
		if err := txRepo.CreateMany(ctx, []dto.TransactionCreate{create}); err != nil {
			return added, modified, removed, fmt.Errorf("failed to insert transaction %s: %w", w.TransactionID, err)
		}
		added++
	}

	for _, w := range page.Modified {
		existing, err := txRepo.GetByProviderTransactionID(ctx, userID, w.TransactionID)
		if errors.Is(err, domain.ErrNotFound) {
			// Incremental feeds may reference records outside our
			// retention window; skip, not fatal.
			s.logger.Warn("modified event references unknown transaction",
				"user_id", userID,
				"provider_transaction_id", w.TransactionID,
			)
			continue
		}
		if err != nil {
			return added, modified, removed, err
		}

		update := s.mapModified(existing, w)
		if update == nil {
			continue
		}
		if err := txRepo.Update(ctx, existing.ID, *update); err != nil {
			return added, modified, removed, fmt.Errorf("failed to update transaction %s: %w", w.TransactionID, err)
		}
		modified++
	}

	for _, providerTxID := range page.Removed {
		count, err := txRepo.DeleteByProviderTransactionID(ctx, userID, providerTxID)
		if err != nil {
			return added, modified, removed, fmt.Errorf("failed to remove transaction %s: %w", providerTxID, err)
		}
		removed += int(count)
	}

	return added, modified, removed, nil
}

func (s *Service) mapAdded(userID, accountID uuid.UUID, w provider.SyncTransaction) dto.TransactionCreate {
	status := domain.TransactionPosted
	if w.Pending {
		status = domain.TransactionPending
	}

	create := dto.TransactionCreate{
		ID:            uuid.New(),
		UserID:        userID,
		AccountID:     accountID,
		AmountCents:   invertAmount(w.Amount),
		Currency:      currencyOrDefault(w.ISOCurrencyCode),
		EffectiveDate: s.parseDate(firstNonEmpty(w.AuthorizedDate, w.Date)),
		MerchantName:  merchantOrFallback(w.MerchantName, w.Name),
		Description:   w.Name,
		Status:        status,
		Provider:      domain.ProviderPlaid,
	}
	providerTxID := w.TransactionID
	create.ProviderTransactionID = &providerTxID
	if w.Pending {
		pendingID := w.TransactionID
		create.ProviderPendingID = &pendingID
	} else if w.Date != "" {
		posted := s.parseDate(w.Date)
		create.PostedAt = &posted
	}
	return create
}

// mapModified updates only the attributes the event actually carries.
// Returns nil when nothing changed.
func (s *Service) mapModified(existing *dto.TransactionRead, w provider.SyncTransaction) *dto.TransactionUpdate {
	var update dto.TransactionUpdate
	changed := false

	status := domain.TransactionPosted
	if w.Pending {
		status = domain.TransactionPending
	}
	if status != existing.Status {
		update.Status = &status
		if !w.Pending && w.Date != "" {
			posted := s.parseDate(w.Date)
			update.PostedAt = &posted
		}
		changed = true
	}

	if w.MerchantName != "" || w.Name != "" {
		merchant := merchantOrFallback(w.MerchantName, w.Name)
		if merchant != existing.MerchantName {
			update.MerchantName = &merchant
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return &update
}

// invertAmount converts the provider's convention (debits positive) to
// signed cents (debits negative).
func invertAmount(amount float64) int64 {
	return -int64(math.Round(amount * 100))
}

func currencyOrDefault(code string) string {
	if code == "" {
		return "USD"
	}
	return code
}

// merchantOrFallback trims and caps the merchant name at 255 characters,
// falling back to the description field, then to "Unknown".
func merchantOrFallback(merchantName, name string) string {
	merchant := strings.TrimSpace(firstNonEmpty(merchantName, name, "Unknown"))
	if merchant == "" {
		merchant = "Unknown"
	}
	runes := []rune(merchant)
	if len(runes) > 255 {
		merchant = string(runes[:255])
	}
	return merchant
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *Service) parseDate(value string) time.Time {
	if value == "" {
		return s.now()
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return s.now()
	}
	return t
}
