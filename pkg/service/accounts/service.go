// Package accounts lists and manually links connected accounts.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
	"github.com/ledgerlens/ledgerlens/pkg/repository"
)

// Service provides connected-account operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates an accounts service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		logger: logger.With("service", "Accounts"),
	}
}

// List returns the user's connected accounts ordered by provider and name.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]dto.AccountRead, error) {
	return s.uow.AccountRepository().ListByUser(ctx, userID)
}

// Link registers a manually-connected account. Linking the same
// (provider, name) pair twice is a conflict.
func (s *Service) Link(
	ctx context.Context,
	userID uuid.UUID,
	provider domain.Provider,
	name string,
	accountType domain.AccountType,
) (*dto.AccountRead, error) {
	_, err := s.uow.AccountRepository().GetByProviderName(ctx, userID, string(provider), name)
	if err == nil {
		return nil, fmt.Errorf("%w: an account with this provider and name is already linked", domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	create := dto.AccountCreate{
		ID:       uuid.New(),
		UserID:   userID,
		Provider: provider,
		Name:     name,
		Type:     accountType,
	}
	if err := s.uow.AccountRepository().Create(ctx, create); err != nil {
		return nil, fmt.Errorf("failed to link account: %w", err)
	}

	linked, err := s.uow.AccountRepository().GetByProviderName(ctx, userID, string(provider), name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("linked account", "user_id", userID, "provider", provider, "name", name)
	return linked, nil
}
