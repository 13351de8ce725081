package postgres

import (
	"context"
	"testing"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeVaultRepo_Credit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewFeeVaultRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE fee_vault SET balance = balance \\+").
		WithArgs(int64(20), domain.FeeVaultID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Credit(context.Background(), tx, 20)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeVaultRepo_GetForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewFeeVaultRepo(mock)
	updatedAt := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM fee_vault WHERE id = (.+) FOR UPDATE").
		WithArgs(domain.FeeVaultID).
		WillReturnRows(pgxmock.NewRows([]string{"balance", "updated_at"}).
			AddRow(int64(500), updatedAt))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	got, err := repo.GetForUpdate(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeVaultRepo_Debit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewFeeVaultRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE fee_vault SET balance = balance -").
		WithArgs(int64(100), domain.FeeVaultID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Debit(context.Background(), tx, 100)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeVaultRepo_Debit_Insufficient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewFeeVaultRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE fee_vault SET balance = balance -").
		WithArgs(int64(9999), domain.FeeVaultID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Debit(context.Background(), tx, 9999)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "below withdrawal amount")
	assert.NoError(t, mock.ExpectationsWereMet())
}
