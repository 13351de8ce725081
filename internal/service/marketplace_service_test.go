package service

import (
	"context"
	"testing"

	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports/mocks"
	"asset-marketplace/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type marketplaceTestDeps struct {
	svc         *MarketplaceServiceImpl
	listingRepo *mocks.MockListingRepository
	assetRepo   *mocks.MockAssetRepository
	payoutRepo  *mocks.MockPayoutRepository
	feeVault    *mocks.MockFeeVaultRepository
	transactor  *mocks.MockDBTransactor
	events      *mocks.MockEventPublisher
	operatorID  uuid.UUID
	ctrl        *gomock.Controller
}

func setupMarketplaceService(t *testing.T) *marketplaceTestDeps {
	ctrl := gomock.NewController(t)
	d := &marketplaceTestDeps{
		listingRepo: mocks.NewMockListingRepository(ctrl),
		assetRepo:   mocks.NewMockAssetRepository(ctrl),
		payoutRepo:  mocks.NewMockPayoutRepository(ctrl),
		feeVault:    mocks.NewMockFeeVaultRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		events:      mocks.NewMockEventPublisher(ctrl),
		operatorID:  uuid.New(),
		ctrl:        ctrl,
	}
	d.svc = NewMarketplaceService(
		d.listingRepo, d.assetRepo, d.payoutRepo, d.feeVault,
		d.transactor, d.events, d.operatorID, zerolog.Nop(),
	)
	return d
}

// mockTx implements pgx.Tx for testing
type mockTx struct{ pgx.Tx }

func (m *mockTx) Rollback(_ context.Context) error { return nil }
func (m *mockTx) Commit(_ context.Context) error   { return nil }

// ==================== List Tests ====================

func TestMarketplaceService_List_Success(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusAvailable,
	}, nil)
	d.listingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	d.assetRepo.EXPECT().SetOwnerAndStatus(ctx, tx, assetID, sellerID, domain.AssetStatusEscrowed).Return(nil)
	d.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	listing, err := d.svc.List(ctx, sellerID, assetID, 1000)
	require.NoError(t, err)
	require.NotNil(t, listing)
	assert.Equal(t, assetID, listing.AssetID)
	assert.Equal(t, sellerID, listing.SellerID)
	assert.Equal(t, int64(1000), listing.Price)
}

func TestMarketplaceService_List_InvalidPrice(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	for _, price := range []int64{0, -1, -1000} {
		listing, err := d.svc.List(context.Background(), uuid.New(), uuid.New(), price)
		assert.Nil(t, listing)
		assertAppError(t, err, "MKT_001")
	}
}

func TestMarketplaceService_List_AssetNotFound(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(nil, nil)

	listing, err := d.svc.List(ctx, uuid.New(), assetID, 1000)
	assert.Nil(t, listing)
	assertAppError(t, err, "AST_001")
}

func TestMarketplaceService_List_NotOwner(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: uuid.New(),
		Status:  domain.AssetStatusAvailable,
	}, nil)

	listing, err := d.svc.List(ctx, uuid.New(), assetID, 1000)
	assert.Nil(t, listing)
	assertAppError(t, err, "AST_002")
}

func TestMarketplaceService_List_AlreadyListed(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusEscrowed,
	}, nil)

	listing, err := d.svc.List(ctx, sellerID, assetID, 1000)
	assert.Nil(t, listing)
	assertAppError(t, err, "AST_003")
}

// ==================== Cancel Tests ====================

func TestMarketplaceService_Cancel_Success(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    500,
		SellerID: sellerID,
	}, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusEscrowed,
	}, nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, assetID).Return(nil)
	d.assetRepo.EXPECT().SetOwnerAndStatus(ctx, tx, assetID, sellerID, domain.AssetStatusAvailable).Return(nil)
	d.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	asset, err := d.svc.Cancel(ctx, sellerID, assetID)
	require.NoError(t, err)
	require.NotNil(t, asset)
	assert.Equal(t, sellerID, asset.OwnerID)
	assert.Equal(t, domain.AssetStatusAvailable, asset.Status)
}

func TestMarketplaceService_Cancel_ListingNotFound(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(nil, nil)

	asset, err := d.svc.Cancel(ctx, uuid.New(), assetID)
	assert.Nil(t, asset)
	assertAppError(t, err, "MKT_002")
}

func TestMarketplaceService_Cancel_NotSeller(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    500,
		SellerID: uuid.New(),
	}, nil)

	asset, err := d.svc.Cancel(ctx, uuid.New(), assetID)
	assert.Nil(t, asset)
	assertAppError(t, err, "MKT_003")
}

// ==================== Buy Tests ====================

func TestMarketplaceService_Buy_ExactPayment(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	buyerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    1000,
		SellerID: sellerID,
	}, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusEscrowed,
	}, nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, assetID).Return(nil)
	// Price 1000 -> fee 20, seller proceeds 980
	d.payoutRepo.EXPECT().Credit(ctx, tx, sellerID, int64(980)).Return(nil)
	d.feeVault.EXPECT().Credit(ctx, tx, int64(20)).Return(nil)
	d.assetRepo.EXPECT().SetOwnerAndStatus(ctx, tx, assetID, buyerID, domain.AssetStatusAvailable).Return(nil)
	d.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.Buy(ctx, buyerID, assetID, 1000)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1000), result.Price)
	assert.Equal(t, int64(20), result.Fee)
	assert.Equal(t, sellerID, result.SellerID)
	assert.Equal(t, buyerID, result.Asset.OwnerID)
	assert.Nil(t, result.Refund)
}

func TestMarketplaceService_Buy_Overpayment_Refunded(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	buyerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    1000,
		SellerID: sellerID,
	}, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusEscrowed,
	}, nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, assetID).Return(nil)
	// Seller and vault are credited from the price, not the payment.
	d.payoutRepo.EXPECT().Credit(ctx, tx, sellerID, int64(980)).Return(nil)
	d.feeVault.EXPECT().Credit(ctx, tx, int64(20)).Return(nil)
	d.assetRepo.EXPECT().SetOwnerAndStatus(ctx, tx, assetID, buyerID, domain.AssetStatusAvailable).Return(nil)
	d.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.Buy(ctx, buyerID, assetID, 1050)
	require.NoError(t, err)
	require.NotNil(t, result.Refund)
	assert.Equal(t, int64(50), *result.Refund)
}

func TestMarketplaceService_Buy_ListingNotFound(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(nil, nil)

	result, err := d.svc.Buy(ctx, uuid.New(), assetID, 1000)
	assert.Nil(t, result)
	assertAppError(t, err, "MKT_002")
}

func TestMarketplaceService_Buy_InsufficientPayment(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    1000,
		SellerID: uuid.New(),
	}, nil)

	result, err := d.svc.Buy(ctx, uuid.New(), assetID, 999)
	assert.Nil(t, result)
	assertAppError(t, err, "MKT_004")
}

func TestMarketplaceService_Buy_SellerCanBuyOwnListing(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    100,
		SellerID: sellerID,
	}, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusEscrowed,
	}, nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, assetID).Return(nil)
	// The seller still pays the fee when buying back their own listing.
	d.payoutRepo.EXPECT().Credit(ctx, tx, sellerID, int64(98)).Return(nil)
	d.feeVault.EXPECT().Credit(ctx, tx, int64(2)).Return(nil)
	d.assetRepo.EXPECT().SetOwnerAndStatus(ctx, tx, assetID, sellerID, domain.AssetStatusAvailable).Return(nil)
	d.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.Buy(ctx, sellerID, assetID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Fee)
}

func TestMarketplaceService_Buy_SmallPrice_ZeroFee(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	buyerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    49,
		SellerID: sellerID,
	}, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusEscrowed,
	}, nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, assetID).Return(nil)
	// 49 * 2 / 100 truncates to 0: the full price goes to the seller.
	d.payoutRepo.EXPECT().Credit(ctx, tx, sellerID, int64(49)).Return(nil)
	d.feeVault.EXPECT().Credit(ctx, tx, int64(0)).Return(nil)
	d.assetRepo.EXPECT().SetOwnerAndStatus(ctx, tx, assetID, buyerID, domain.AssetStatusAvailable).Return(nil)
	d.events.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	result, err := d.svc.Buy(ctx, buyerID, assetID, 49)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Fee)
}

func TestMarketplaceService_Buy_CreditFailure_Aborts(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	assetID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.listingRepo.EXPECT().GetByAssetIDForUpdate(ctx, tx, assetID).Return(&domain.Listing{
		ID:       uuid.New(),
		AssetID:  assetID,
		Price:    1000,
		SellerID: sellerID,
	}, nil)
	d.assetRepo.EXPECT().GetByIDForUpdate(ctx, tx, assetID).Return(&domain.Asset{
		ID:      assetID,
		OwnerID: sellerID,
		Status:  domain.AssetStatusEscrowed,
	}, nil)
	d.listingRepo.EXPECT().Delete(ctx, tx, assetID).Return(nil)
	d.payoutRepo.EXPECT().Credit(ctx, tx, sellerID, int64(980)).Return(assert.AnError)

	result, err := d.svc.Buy(ctx, uuid.New(), assetID, 1000)
	assert.Nil(t, result)
	assertAppError(t, err, "SYS_001")
}

// ==================== ClaimPayout Tests ====================

func TestMarketplaceService_ClaimPayout_Success(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetBySellerForUpdate(ctx, tx, sellerID).Return(&domain.PayoutEntry{
		SellerID: sellerID,
		Balance:  980,
	}, nil)
	d.payoutRepo.EXPECT().Delete(ctx, tx, sellerID).Return(nil)

	amount, err := d.svc.ClaimPayout(ctx, sellerID)
	require.NoError(t, err)
	assert.Equal(t, int64(980), amount)
}

func TestMarketplaceService_ClaimPayout_Nothing_Pending(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.payoutRepo.EXPECT().GetBySellerForUpdate(ctx, tx, sellerID).Return(nil, nil)

	amount, err := d.svc.ClaimPayout(ctx, sellerID)
	assert.Zero(t, amount)
	assertAppError(t, err, "MKT_007")
}

// ==================== WithdrawFees Tests ====================

func TestMarketplaceService_WithdrawFees_Success(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	recipientID := uuid.New()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.feeVault.EXPECT().GetForUpdate(ctx, tx).Return(&domain.FeeVault{Balance: 100}, nil)
	d.feeVault.EXPECT().Debit(ctx, tx, int64(60)).Return(nil)

	w, err := d.svc.WithdrawFees(ctx, d.operatorID, 60, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), w.Amount)
	assert.Equal(t, int64(40), w.Remaining)
	assert.Equal(t, recipientID, w.RecipientID)
}

func TestMarketplaceService_WithdrawFees_NotOperator(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	w, err := d.svc.WithdrawFees(context.Background(), uuid.New(), 10, uuid.New())
	assert.Nil(t, w)
	assertAppError(t, err, "MKT_005")
}

func TestMarketplaceService_WithdrawFees_NonPositiveAmount(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	for _, amount := range []int64{0, -5} {
		w, err := d.svc.WithdrawFees(context.Background(), d.operatorID, amount, uuid.New())
		assert.Nil(t, w)
		assertAppError(t, err, "VAL_001")
	}
}

func TestMarketplaceService_WithdrawFees_ExceedsBalance(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.feeVault.EXPECT().GetForUpdate(ctx, tx).Return(&domain.FeeVault{Balance: 20}, nil)

	w, err := d.svc.WithdrawFees(ctx, d.operatorID, 21, uuid.New())
	assert.Nil(t, w)
	assertAppError(t, err, "MKT_006")
}

func TestMarketplaceService_WithdrawFees_FullBalance(t *testing.T) {
	d := setupMarketplaceService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.feeVault.EXPECT().GetForUpdate(ctx, tx).Return(&domain.FeeVault{Balance: 20}, nil)
	d.feeVault.EXPECT().Debit(ctx, tx, int64(20)).Return(nil)

	w, err := d.svc.WithdrawFees(ctx, d.operatorID, 20, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, w.Remaining)
}

// ==================== Helper ====================

func assertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, expectedCode, appErr.Code)
}
