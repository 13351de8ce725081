package ports

import (
	"context"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// AssetRepository defines persistence operations for asset records.
// Methods accepting pgx.Tx run inside marketplace transactions and take
// row locks so that ownership transfer and escrow flips are serialized.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Asset, error)
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) error
	// SetOwnerAndStatus transfers custody: owner change and escrow flip
	// are always written together within the enclosing transaction.
	SetOwnerAndStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, ownerID uuid.UUID, status domain.AssetStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListingRepository defines persistence for the listing store (escrow
// index). Listings are keyed by asset id; the primary key makes a second
// concurrent listing for the same asset structurally impossible.
type ListingRepository interface {
	Create(ctx context.Context, tx pgx.Tx, listing *domain.Listing) error
	GetByAssetID(ctx context.Context, assetID uuid.UUID) (*domain.Listing, error)
	GetByAssetIDForUpdate(ctx context.Context, tx pgx.Tx, assetID uuid.UUID) (*domain.Listing, error)
	Delete(ctx context.Context, tx pgx.Tx, assetID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// PayoutRepository defines persistence for the per-seller payout ledger.
type PayoutRepository interface {
	// Credit adds to the seller's pending balance, creating the entry on
	// first sale. Never overwrites, always accumulates.
	Credit(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, amount int64) error
	GetBySellerForUpdate(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) (*domain.PayoutEntry, error)
	GetBySeller(ctx context.Context, sellerID uuid.UUID) (*domain.PayoutEntry, error)
	Delete(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) error
}

// FeeVaultRepository defines persistence for the single fee vault row.
type FeeVaultRepository interface {
	Credit(ctx context.Context, tx pgx.Tx, amount int64) error
	GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FeeVault, error)
	Get(ctx context.Context) (*domain.FeeVault, error)
	Debit(ctx context.Context, tx pgx.Tx, amount int64) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
