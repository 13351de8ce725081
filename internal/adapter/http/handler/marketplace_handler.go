package handler

import (
	"time"

	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/adapter/http/middleware"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"
	"asset-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MarketplaceHandler handles exchange endpoints: listing, cancelling,
// buying, payout claims and operator fee withdrawal.
type MarketplaceHandler struct {
	marketSvc ports.MarketplaceService
}

// NewMarketplaceHandler creates a new MarketplaceHandler.
func NewMarketplaceHandler(marketSvc ports.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketSvc: marketSvc}
}

// CreateListing handles POST /api/v1/market/listings.
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid asset id"))
		return
	}

	listing, err := h.marketSvc.List(c.Request.Context(), callerID, assetID, req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.ListingResponse{
		AssetID:   listing.AssetID.String(),
		Price:     listing.Price,
		SellerID:  listing.SellerID.String(),
		CreatedAt: listing.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// CancelListing handles DELETE /api/v1/market/listings/:asset_id.
func (h *MarketplaceHandler) CancelListing(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	assetID, err := uuid.Parse(c.Param("asset_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid asset id"))
		return
	}

	asset, err := h.marketSvc.Cancel(c.Request.Context(), callerID, assetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAssetResponse(asset))
}

// Buy handles POST /api/v1/market/listings/:asset_id/buy.
func (h *MarketplaceHandler) Buy(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	assetID, err := uuid.Parse(c.Param("asset_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid asset id"))
		return
	}

	var req dto.BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.marketSvc.Buy(c.Request.Context(), callerID, assetID, req.Payment)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PurchaseResponse{
		Asset:    toAssetResponse(result.Asset),
		Price:    result.Price,
		Fee:      result.Fee,
		SellerID: result.SellerID.String(),
		Refund:   result.Refund,
	})
}

// ClaimPayout handles POST /api/v1/market/payouts/claim.
func (h *MarketplaceHandler) ClaimPayout(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	amount, err := h.marketSvc.ClaimPayout(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ClaimPayoutResponse{Amount: amount})
}

// WithdrawFees handles POST /api/v1/market/fees/withdraw.
func (h *MarketplaceHandler) WithdrawFees(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid recipient id"))
		return
	}

	w, err := h.marketSvc.WithdrawFees(c.Request.Context(), callerID, req.Amount, recipientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WithdrawFeesResponse{
		Amount:      w.Amount,
		RecipientID: w.RecipientID.String(),
		Remaining:   w.Remaining,
	})
}
