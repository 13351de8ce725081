package postgres

import (
	"context"
	"testing"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListing(assetID, sellerID uuid.UUID) *domain.Listing {
	return &domain.Listing{
		ID:        uuid.New(),
		AssetID:   assetID,
		Price:     1000,
		SellerID:  sellerID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func listingColumnNames() []string {
	return []string{"asset_id", "id", "price", "seller_id", "created_at"}
}

func listingRow(l *domain.Listing) *pgxmock.Rows {
	return pgxmock.NewRows(listingColumnNames()).AddRow(
		l.AssetID, l.ID, l.Price, l.SellerID, l.CreatedAt,
	)
}

func TestListingRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewListingRepo(mock)
	l := newTestListing(uuid.New(), uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO listings").
		WithArgs(l.AssetID, l.ID, l.Price, l.SellerID, l.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, l)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepo_GetByAssetID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewListingRepo(mock)
	l := newTestListing(uuid.New(), uuid.New())

	mock.ExpectQuery("SELECT (.+) FROM listings WHERE asset_id").
		WithArgs(l.AssetID).
		WillReturnRows(listingRow(l))

	got, err := repo.GetByAssetID(context.Background(), l.AssetID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, l.Price, got.Price)
	assert.Equal(t, l.SellerID, got.SellerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepo_GetByAssetID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewListingRepo(mock)
	assetID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM listings WHERE asset_id").
		WithArgs(assetID).
		WillReturnRows(pgxmock.NewRows(listingColumnNames()))

	got, err := repo.GetByAssetID(context.Background(), assetID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepo_GetByAssetIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewListingRepo(mock)
	l := newTestListing(uuid.New(), uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM listings WHERE asset_id = (.+) FOR UPDATE").
		WithArgs(l.AssetID).
		WillReturnRows(listingRow(l))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	got, err := repo.GetByAssetIDForUpdate(context.Background(), tx, l.AssetID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, l.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewListingRepo(mock)
	assetID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM listings").
		WithArgs(assetID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Delete(context.Background(), tx, assetID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewListingRepo(mock)
	assetID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM listings").
		WithArgs(assetID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Delete(context.Background(), tx, assetID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "listing not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepo_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewListingRepo(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
