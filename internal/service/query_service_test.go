package service

import (
	"context"
	"testing"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type queryTestDeps struct {
	svc         *QueryServiceImpl
	listingRepo *mocks.MockListingRepository
	payoutRepo  *mocks.MockPayoutRepository
	feeVault    *mocks.MockFeeVaultRepository
	ctrl        *gomock.Controller
}

func setupQueryService(t *testing.T) *queryTestDeps {
	ctrl := gomock.NewController(t)
	d := &queryTestDeps{
		listingRepo: mocks.NewMockListingRepository(ctrl),
		payoutRepo:  mocks.NewMockPayoutRepository(ctrl),
		feeVault:    mocks.NewMockFeeVaultRepository(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewQueryService(d.listingRepo, d.payoutRepo, d.feeVault)
	return d
}

func TestQueryService_IsListed(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	listedID := uuid.New()
	unlistedID := uuid.New()

	d.listingRepo.EXPECT().GetByAssetID(ctx, listedID).Return(&domain.Listing{AssetID: listedID}, nil)
	d.listingRepo.EXPECT().GetByAssetID(ctx, unlistedID).Return(nil, nil)

	listed, err := d.svc.IsListed(ctx, listedID)
	require.NoError(t, err)
	assert.True(t, listed)

	listed, err = d.svc.IsListed(ctx, unlistedID)
	require.NoError(t, err)
	assert.False(t, listed)
}

func TestQueryService_ListingPrice(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()

	d.listingRepo.EXPECT().GetByAssetID(ctx, assetID).Return(&domain.Listing{
		AssetID: assetID,
		Price:   1234,
	}, nil)

	price, err := d.svc.ListingPrice(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), price)
}

func TestQueryService_ListingPrice_NotListed(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()

	d.listingRepo.EXPECT().GetByAssetID(ctx, assetID).Return(nil, nil)

	_, err := d.svc.ListingPrice(ctx, assetID)
	assertAppError(t, err, "MKT_002")
}

func TestQueryService_ListingSeller(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()
	sellerID := uuid.New()

	d.listingRepo.EXPECT().GetByAssetID(ctx, assetID).Return(&domain.Listing{
		AssetID:  assetID,
		SellerID: sellerID,
	}, nil)

	got, err := d.svc.ListingSeller(ctx, assetID)
	require.NoError(t, err)
	assert.Equal(t, sellerID, got)
}

func TestQueryService_FeeVaultBalance(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.feeVault.EXPECT().Get(ctx).Return(&domain.FeeVault{Balance: 777}, nil)

	balance, err := d.svc.FeeVaultBalance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(777), balance)
}

func TestQueryService_ListingCount(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.listingRepo.EXPECT().Count(ctx).Return(int64(3), nil)

	count, err := d.svc.ListingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestQueryService_PendingPayout(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()

	d.payoutRepo.EXPECT().GetBySeller(ctx, sellerID).Return(&domain.PayoutEntry{
		SellerID: sellerID,
		Balance:  980,
	}, nil)

	pending, err := d.svc.PendingPayout(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(980), pending)
}

func TestQueryService_PendingPayout_NoEntry(t *testing.T) {
	d := setupQueryService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()

	d.payoutRepo.EXPECT().GetBySeller(ctx, sellerID).Return(nil, nil)

	pending, err := d.svc.PendingPayout(ctx, sellerID)
	require.NoError(t, err)
	assert.Zero(t, pending)
}
