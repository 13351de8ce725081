package service

import (
	"context"
	"fmt"

	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"

	"github.com/google/uuid"
)

// QueryServiceImpl implements ports.QueryService with plain non-locking
// reads. Queries never mutate state and need no authorization.
type QueryServiceImpl struct {
	listingRepo ports.ListingRepository
	payoutRepo  ports.PayoutRepository
	feeVault    ports.FeeVaultRepository
}

// NewQueryService creates a new QueryServiceImpl.
func NewQueryService(
	listingRepo ports.ListingRepository,
	payoutRepo ports.PayoutRepository,
	feeVault ports.FeeVaultRepository,
) *QueryServiceImpl {
	return &QueryServiceImpl{
		listingRepo: listingRepo,
		payoutRepo:  payoutRepo,
		feeVault:    feeVault,
	}
}

// IsListed reports whether the asset has an active listing.
func (s *QueryServiceImpl) IsListed(ctx context.Context, assetID uuid.UUID) (bool, error) {
	listing, err := s.listingRepo.GetByAssetID(ctx, assetID)
	if err != nil {
		return false, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	return listing != nil, nil
}

// ListingPrice returns the active listing's price.
func (s *QueryServiceImpl) ListingPrice(ctx context.Context, assetID uuid.UUID) (int64, error) {
	listing, err := s.listingRepo.GetByAssetID(ctx, assetID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return 0, apperror.ErrListingNotFound()
	}
	return listing.Price, nil
}

// ListingSeller returns the active listing's seller identity.
func (s *QueryServiceImpl) ListingSeller(ctx context.Context, assetID uuid.UUID) (uuid.UUID, error) {
	listing, err := s.listingRepo.GetByAssetID(ctx, assetID)
	if err != nil {
		return uuid.Nil, apperror.InternalError(fmt.Errorf("get listing: %w", err))
	}
	if listing == nil {
		return uuid.Nil, apperror.ErrListingNotFound()
	}
	return listing.SellerID, nil
}

// FeeVaultBalance returns the accumulated marketplace fees.
func (s *QueryServiceImpl) FeeVaultBalance(ctx context.Context) (int64, error) {
	vault, err := s.feeVault.Get(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get fee vault: %w", err))
	}
	return vault.Balance, nil
}

// ListingCount returns the number of active listings.
func (s *QueryServiceImpl) ListingCount(ctx context.Context) (int64, error) {
	count, err := s.listingRepo.Count(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("count listings: %w", err))
	}
	return count, nil
}

// PendingPayout returns the seller's accrued, unclaimed proceeds; zero
// when no entry exists.
func (s *QueryServiceImpl) PendingPayout(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	entry, err := s.payoutRepo.GetBySeller(ctx, sellerID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get payout entry: %w", err))
	}
	if entry == nil {
		return 0, nil
	}
	return entry.Balance, nil
}
