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

// AssetServiceImpl implements ports.AssetService. Asset records are
// plain CRUD; the marketplace engine owns all escrow transitions, so
// these operations only need to respect the escrow flag.
type AssetServiceImpl struct {
	assetRepo ports.AssetRepository
	events    ports.EventPublisher
	log       zerolog.Logger
}

// NewAssetService creates a new AssetServiceImpl.
func NewAssetService(assetRepo ports.AssetRepository, events ports.EventPublisher, log zerolog.Logger) *AssetServiceImpl {
	return &AssetServiceImpl{
		assetRepo: assetRepo,
		events:    events,
		log:       log,
	}
}

// Mint creates a new asset record owned by the caller.
func (s *AssetServiceImpl) Mint(ctx context.Context, req ports.MintRequest) (*domain.Asset, error) {
	now := time.Now().UTC()
	asset := &domain.Asset{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		URI:         req.URI,
		OwnerID:     req.CallerID,
		Status:      domain.AssetStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create asset: %w", err))
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, &domain.Event{
			Type:       domain.EventAssetMinted,
			AssetID:    asset.ID,
			ActorID:    req.CallerID,
			OccurredAt: now,
		}); err != nil {
			s.log.Warn().Err(err).Msg("failed to publish mint event")
		}
	}

	s.log.Info().
		Str("asset_id", asset.ID.String()).
		Str("owner_id", req.CallerID.String()).
		Msg("asset minted")

	return asset, nil
}

// UpdateDescription mutates the asset's description. Name and URI are
// immutable after mint; escrowed assets cannot be mutated by the owner.
func (s *AssetServiceImpl) UpdateDescription(ctx context.Context, callerID, assetID uuid.UUID, description string) (*domain.Asset, error) {
	asset, err := s.authorize(ctx, callerID, assetID)
	if err != nil {
		return nil, err
	}

	if err := s.assetRepo.UpdateDescription(ctx, assetID, description); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update description: %w", err))
	}

	asset.Description = description
	return asset, nil
}

// Burn destroys an asset record. Escrowed assets cannot be burned.
func (s *AssetServiceImpl) Burn(ctx context.Context, callerID, assetID uuid.UUID) error {
	if _, err := s.authorize(ctx, callerID, assetID); err != nil {
		return err
	}

	if err := s.assetRepo.Delete(ctx, assetID); err != nil {
		return apperror.InternalError(fmt.Errorf("delete asset: %w", err))
	}

	s.log.Info().
		Str("asset_id", assetID.String()).
		Str("owner_id", callerID.String()).
		Msg("asset burned")

	return nil
}

// Get fetches an asset by id.
func (s *AssetServiceImpl) Get(ctx context.Context, assetID uuid.UUID) (*domain.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get asset: %w", err))
	}
	if asset == nil {
		return nil, apperror.ErrAssetNotFound()
	}
	return asset, nil
}

// authorize fetches the asset and checks ownership and escrow state.
func (s *AssetServiceImpl) authorize(ctx context.Context, callerID, assetID uuid.UUID) (*domain.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get asset: %w", err))
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
	return asset, nil
}
