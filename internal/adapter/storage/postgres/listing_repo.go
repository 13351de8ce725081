package postgres

import (
	"context"
	"errors"
	"fmt"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListingRepo implements ports.ListingRepository. The listings table is
// keyed by asset_id, so a buyer's lookup is a single primary-key read
// and a second active listing for the same asset cannot exist.
type ListingRepo struct {
	pool Pool
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(pool Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

const listingColumns = `asset_id, id, price, seller_id, created_at`

// Create inserts a new listing within a transaction.
func (r *ListingRepo) Create(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	query := `INSERT INTO listings (asset_id, id, price, seller_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query, l.AssetID, l.ID, l.Price, l.SellerID, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByAssetID fetches a listing by asset id (non-locking read).
func (r *ListingRepo) GetByAssetID(ctx context.Context, assetID uuid.UUID) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE asset_id = $1`

	l, err := scanListing(r.pool.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing by asset id: %w", err)
	}
	return l, nil
}

// GetByAssetIDForUpdate fetches a listing with a pessimistic row lock.
// Racing buyers serialize here: the first committer deletes the row and
// the second read finds nothing. This MUST be called within a transaction.
func (r *ListingRepo) GetByAssetIDForUpdate(ctx context.Context, tx pgx.Tx, assetID uuid.UUID) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE asset_id = $1 FOR UPDATE`

	l, err := scanListing(tx.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing for update: %w", err)
	}
	return l, nil
}

// Delete removes a listing within a transaction.
func (r *ListingRepo) Delete(ctx context.Context, tx pgx.Tx, assetID uuid.UUID) error {
	query := `DELETE FROM listings WHERE asset_id = $1`

	tag, err := tx.Exec(ctx, query, assetID)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing not found: %s", assetID)
	}
	return nil
}

// Count returns the number of active listings.
func (r *ListingRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return count, nil
}

func scanListing(row pgx.Row) (*domain.Listing, error) {
	l := &domain.Listing{}
	err := row.Scan(&l.AssetID, &l.ID, &l.Price, &l.SellerID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}
