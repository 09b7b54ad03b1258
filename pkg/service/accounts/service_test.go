package accounts_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/service/accounts"
	"github.com/ledgerlens/ledgerlens/pkg/testutils"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLinkCreatesAccount(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	uow := testutils.NewMemoryUoW()
	svc := accounts.New(uow, discardLogger())

	linked, err := svc.Link(context.Background(), userID, domain.ProviderMock, "Everyday Checking", domain.AccountChecking)

	require.NoError(t, err)
	assert.Equal(t, "Everyday Checking", linked.Name)
	assert.Equal(t, domain.AccountChecking, linked.Type)
	assert.Len(t, uow.Accounts, 1)
}

func TestLinkDuplicateProviderNameConflicts(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	uow := testutils.NewMemoryUoW()
	svc := accounts.New(uow, discardLogger())

	_, err := svc.Link(context.Background(), userID, domain.ProviderMock, "Everyday Checking", domain.AccountChecking)
	require.NoError(t, err)

	_, err = svc.Link(context.Background(), userID, domain.ProviderMock, "Everyday Checking", domain.AccountChecking)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, uow.Accounts, 1)
}

func TestLinkSameNameDifferentUsersBothSucceed(t *testing.T) {
	t.Parallel()
	uow := testutils.NewMemoryUoW()
	svc := accounts.New(uow, discardLogger())

	_, err := svc.Link(context.Background(), uuid.New(), domain.ProviderMock, "Everyday Checking", domain.AccountChecking)
	require.NoError(t, err)
	_, err = svc.Link(context.Background(), uuid.New(), domain.ProviderMock, "Everyday Checking", domain.AccountChecking)
	require.NoError(t, err)
	assert.Len(t, uow.Accounts, 2)
}

func TestListReturnsOnlyOwnAccounts(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	uow := testutils.NewMemoryUoW()
	svc := accounts.New(uow, discardLogger())

	_, err := svc.Link(context.Background(), userID, domain.ProviderMock, "Everyday Checking", domain.AccountChecking)
	require.NoError(t, err)
	_, err = svc.Link(context.Background(), uuid.New(), domain.ProviderMock, "Someone Else", domain.AccountCredit)
	require.NoError(t, err)

	list, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Everyday Checking", list[0].Name)
}
