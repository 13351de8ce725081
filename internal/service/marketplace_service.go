package service

import (
	"context"
	"fmt"
	"time"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MarketplaceServiceImpl implements ports.MarketplaceService. Every
// public operation runs inside a single database transaction with
// pessimistic row locks, so each call is one indivisible unit: racing
// callers serialize on the locked row and the loser observes the
// post-commit state.
type MarketplaceServiceImpl struct {
	listingRepo ports.ListingRepository
	assetRepo   ports.AssetRepository
	payoutRepo  ports.PayoutRepository
	feeVault    ports.FeeVaultRepository
	transactor  ports.DBTransactor
	events      ports.EventPublisher
	operatorID  uuid.UUID
	log         zerolog.Logger
}

// NewMarketplaceService creates a new MarketplaceServiceImpl. operatorID
// is the only identity allowed to withdraw fees; it is fixed for the
// lifetime of the service.
func NewMarketplaceService(
	listingRepo ports.ListingRepository,
	assetRepo ports.AssetRepository,
	payoutRepo ports.PayoutRepository,
	feeVault ports.FeeVaultRepository,
	transactor ports.DBTransactor,
	events ports.EventPublisher,
	operatorID uuid.UUID,
	log zerolog.Logger,
) *MarketplaceServiceImpl {
	return &MarketplaceServiceImpl{
		listingRepo: listingRepo,
		assetRepo:   assetRepo,
		payoutRepo:  payoutRepo,
		feeVault:    feeVault,
		transactor:  transactor,
		events:      events,
		operatorID:  operatorID,
		log:         log,
	}
}

// List places an asset for sale, moving it into escrow. The caller must
// hold the asset; once listed, the asset cannot be transferred, mutated,
// relisted or burned until the listing is cancelled or sold.
func (s *MarketplaceServiceImpl) List(ctx context.Context, callerID, assetID uuid.UUID, price int64) (*domain.Listing, error) {
	if price <= 0 {
		return nil, apperror.ErrInvalidPrice()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	asset, err := s.assetRepo.GetByIDForUpdate(ctx, dbTx, assetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock asset: %w", err))
	}
	if asset == nil {
		return nil, apperror.ErrAssetNotFound()
	}
	if !asset.IsOwnedBy(callerID) {
		return nil, apperror.ErrNotAssetOwner()
	}
	if asset.IsEscrowed() {
		return nil, apperror.ErrAssetAlreadyListed()
	}

	listing := &domain.Listing{
		ID:        uuid.New(),
		AssetID:   assetID,
		Price:     price,
		SellerID:  callerID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.listingRepo.Create(ctx, dbTx, listing); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create listing: %w", err))
	}
	if err := s.assetRepo.SetOwnerAndStatus(ctx, dbTx, assetID, callerID, domain.AssetStatusEscrowed); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("escrow asset: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.publish(ctx, &domain.Event{
		Type:       domain.EventListingCreated,
		AssetID:    assetID,
		ActorID:    callerID,
		Price:      &listing.Price,
		OccurredAt: time.Now().UTC(),
	})

	s.log.Info().
		Str("asset_id", assetID.String()).
		Str("seller_id", callerID.String()).
		Int64("price", price).
		Msg("asset listed")

	return listing, nil
}

// Cancel removes an active listing and returns the asset to the seller.
// Only the seller may cancel; the authorization check runs before any
// mutation, so a rejected cancel leaves the listing fully intact.
func (s *MarketplaceServiceImpl) Cancel(ctx context.Context, callerID, assetID uuid.UUID) (*domain.Asset, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err := s.listingRepo.GetByAssetIDForUpdate(ctx, dbTx, assetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrListingNotFound()
	}
	if listing.SellerID != callerID {
		return nil, apperror.ErrNotSeller()
	}

	asset, err := s.assetRepo.GetByIDForUpdate(ctx, dbTx, assetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock asset: %w", err))
	}
	if asset == nil {
		return nil, apperror.InternalError(fmt.Errorf("listed asset %s missing", assetID))
	}

	if err := s.listingRepo.Delete(ctx, dbTx, assetID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete listing: %w", err))
	}
	if err := s.assetRepo.SetOwnerAndStatus(ctx, dbTx, assetID, listing.SellerID, domain.AssetStatusAvailable); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("release asset: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	asset.OwnerID = listing.SellerID
	asset.Status = domain.AssetStatusAvailable

	s.publish(ctx, &domain.Event{
		Type:       domain.EventListingCancelled,
		AssetID:    assetID,
		ActorID:    callerID,
		OccurredAt: time.Now().UTC(),
	})

	s.log.Info().
		Str("asset_id", assetID.String()).
		Str("seller_id", callerID.String()).
		Msg("listing cancelled")

	return asset, nil
}

// Buy executes an atomic exchange: the listing is consumed, the seller
// is credited with the price minus the marketplace fee, the fee accrues
// to the vault and the asset transfers to the buyer. Everything happens
// in one transaction; any failure rolls the whole exchange back. Of two
// racing buyers, exactly one commits; the other finds the listing gone.
func (s *MarketplaceServiceImpl) Buy(ctx context.Context, callerID, assetID uuid.UUID, payment int64) (*ports.PurchaseResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	listing, err := s.listingRepo.GetByAssetIDForUpdate(ctx, dbTx, assetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock listing: %w", err))
	}
	if listing == nil {
		return nil, apperror.ErrListingNotFound()
	}
	if payment < listing.Price {
		return nil, apperror.ErrInsufficientPayment()
	}

	asset, err := s.assetRepo.GetByIDForUpdate(ctx, dbTx, assetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock asset: %w", err))
	}
	if asset == nil {
		return nil, apperror.InternalError(fmt.Errorf("listed asset %s missing", assetID))
	}

	fee := domain.Fee(listing.Price)
	sellerAmount := domain.SellerProceeds(listing.Price)

	if err := s.listingRepo.Delete(ctx, dbTx, assetID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("delete listing: %w", err))
	}
	if err := s.payoutRepo.Credit(ctx, dbTx, listing.SellerID, sellerAmount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit seller payout: %w", err))
	}
	if err := s.feeVault.Credit(ctx, dbTx, fee); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit fee vault: %w", err))
	}
	if err := s.assetRepo.SetOwnerAndStatus(ctx, dbTx, assetID, callerID, domain.AssetStatusAvailable); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("transfer asset: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	asset.OwnerID = callerID
	asset.Status = domain.AssetStatusAvailable

	result := &ports.PurchaseResult{
		Asset:    asset,
		Price:    listing.Price,
		Fee:      fee,
		SellerID: listing.SellerID,
	}
	if payment > listing.Price {
		refund := payment - listing.Price
		result.Refund = &refund
	}

	s.publish(ctx, &domain.Event{
		Type:       domain.EventListingSold,
		AssetID:    assetID,
		ActorID:    callerID,
		SellerID:   &listing.SellerID,
		Price:      &listing.Price,
		Fee:        &fee,
		OccurredAt: time.Now().UTC(),
	})

	s.log.Info().
		Str("asset_id", assetID.String()).
		Str("buyer_id", callerID.String()).
		Str("seller_id", listing.SellerID.String()).
		Int64("price", listing.Price).
		Int64("fee", fee).
		Msg("purchase completed")

	return result, nil
}

// ClaimPayout removes and returns the caller's full pending balance.
// Claiming with no pending payout is a hard failure, not a zero no-op.
func (s *MarketplaceServiceImpl) ClaimPayout(ctx context.Context, callerID uuid.UUID) (int64, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entry, err := s.payoutRepo.GetBySellerForUpdate(ctx, dbTx, callerID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("lock payout entry: %w", err))
	}
	if entry == nil {
		return 0, apperror.ErrNoPendingPayout()
	}

	if err := s.payoutRepo.Delete(ctx, dbTx, callerID); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("delete payout entry: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("seller_id", callerID.String()).
		Int64("amount", entry.Balance).
		Msg("payout claimed")

	return entry.Balance, nil
}

// WithdrawFees moves part of the accumulated fee balance to a recipient.
// Only the configured operator may withdraw; any amount up to the
// current balance is allowed.
func (s *MarketplaceServiceImpl) WithdrawFees(ctx context.Context, callerID uuid.UUID, amount int64, recipientID uuid.UUID) (*ports.Withdrawal, error) {
	if callerID != s.operatorID {
		return nil, apperror.ErrUnauthorized()
	}
	if amount <= 0 {
		return nil, apperror.Validation("withdrawal amount must be positive")
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	vault, err := s.feeVault.GetForUpdate(ctx, dbTx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock fee vault: %w", err))
	}
	if amount > vault.Balance {
		return nil, apperror.ErrInsufficientFeeBalance()
	}

	if err := s.feeVault.Debit(ctx, dbTx, amount); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit fee vault: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("recipient_id", recipientID.String()).
		Int64("amount", amount).
		Int64("remaining", vault.Balance-amount).
		Msg("fees withdrawn")

	return &ports.Withdrawal{
		Amount:      amount,
		RecipientID: recipientID,
		Remaining:   vault.Balance - amount,
	}, nil
}

// publish emits a notification, best-effort.
func (s *MarketplaceServiceImpl) publish(ctx context.Context, event *domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("type", string(event.Type)).Msg("failed to publish event")
	}
}
