package transaction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ledgerlens/ledgerlens/pkg/domain"
	"github.com/ledgerlens/ledgerlens/pkg/dto"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestCreateMany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	providerTxID := "T_1"
	create := dto.TransactionCreate{
		ID:                    uuid.New(),
		UserID:                uuid.New(),
		AccountID:             uuid.New(),
		AmountCents:           -1850,
		Currency:              "USD",
		EffectiveDate:         time.Now(),
		MerchantName:          "Blue Bottle Coffee",
		Status:                domain.TransactionPosted,
		Provider:              domain.ProviderMock,
		ProviderTransactionID: &providerTxID,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateMany(context.Background(), []dto.TransactionCreate{create})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateManyEmptyIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	err := repo.CreateMany(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWritesOnlySetColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	status := domain.TransactionPosted
	merchant := "STARBUCKS"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "transactions" SET (.+) WHERE id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), uuid.New(), dto.TransactionUpdate{
		Status:       &status,
		MerchantName: &merchant,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmptySetIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	err := repo.Update(context.Background(), uuid.New(), dto.TransactionUpdate{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByProviderTransactionIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT (.+) FROM "transactions" WHERE user_id = (.+) AND provider_transaction_id = (.+)`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetByProviderTransactionID(context.Background(), uuid.New(), "T_missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByProviderTransactionIDFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)
	id := uuid.New()
	userID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "user_id", "merchant_name", "status", "provider", "provider_transaction_id"}).
		AddRow(id, userID, "Blue Bottle Coffee", "POSTED", "MOCK", "T_1")
	mock.ExpectQuery(`SELECT (.+) FROM "transactions" WHERE user_id = (.+) AND provider_transaction_id = (.+)`).
		WillReturnRows(rows)

	got, err := repo.GetByProviderTransactionID(context.Background(), userID, "T_1")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, domain.TransactionPosted, got.Status)
	require.NotNil(t, got.ProviderTransactionID)
	assert.Equal(t, "T_1", *got.ProviderTransactionID)
}

func TestDeleteByProviderTransactionIDReportsCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "transactions" WHERE user_id = (.+) AND provider_transaction_id = (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	count, err := repo.DeleteByProviderTransactionID(context.Background(), uuid.New(), "T_1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListUncategorizedPropagatesError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WillReturnError(errors.New("query failed"))

	_, err := repo.ListUncategorized(context.Background(), uuid.New())
	require.Error(t, err)
}
