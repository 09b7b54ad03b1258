// Package rules applies user-defined categorization rules to
// uncategorized transactions.
package rules

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
)

// Service applies a user's active rules to their ledger. The scan is
// O(rules x uncategorized transactions), so callers batch invocations per
// sync cycle rather than per transaction.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a rule applier service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		logger: logger.With("service", "Rules"),
	}
}

// Apply assigns a category to every uncategorized, non-excluded
// transaction whose merchant name contains an active rule's pattern,
// case-insensitively. Rules are tried in ascending priority; the first
// match wins. Transactions with no matching rule stay uncategorized.
// Returns how many transactions were categorized.
func (s *Service) Apply(ctx context.Context, userID uuid.UUID) (int, error) {
	ruleList, err := s.uow.RuleRepository().ListActiveByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load rules: %w", err)
	}
	if len(ruleList) == 0 {
		return 0, nil
	}

	transactions, err := s.uow.TransactionRepository().ListUncategorized(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}

	applied := 0
	for _, tx := range transactions {
		rule := firstMatch(ruleList, tx.MerchantName)
		if rule == nil {
			continue
		}
		categoryID := rule.CategoryID
		err := s.uow.TransactionRepository().Update(ctx, tx.ID, dto.TransactionUpdate{
			CategoryID: &categoryID,
		})
		if err != nil {
			return applied, fmt.Errorf("failed to categorize transaction %s: %w", tx.ID, err)
		}
		applied++
	}

	if applied > 0 {
		s.logger.Info("applied categorization rules",
			"user_id", userID,
			"categorized", applied,
		)
	}
	return applied, nil
}

func firstMatch(ruleList []dto.RuleRead, merchantName string) *dto.RuleRead {
	merchant := strings.ToUpper(merchantName)
	for i := range ruleList {
		r := &ruleList[i]
		if r.MatchType != domain.RuleMerchantContains {
			continue
		}
		if strings.Contains(merchant, strings.ToUpper(r.MatchValue)) {
			return r
		}
	}
	return nil
}
