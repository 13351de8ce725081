package handler

import (
	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/adapter/http/middleware"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"
	"asset-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QueryHandler handles read-only marketplace views.
type QueryHandler struct {
	querySvc ports.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(querySvc ports.QueryService) *QueryHandler {
	return &QueryHandler{querySvc: querySvc}
}

// GetListing handles GET /api/v1/market/listings/:asset_id.
func (h *QueryHandler) GetListing(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("asset_id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid asset id"))
		return
	}

	ctx := c.Request.Context()
	listed, err := h.querySvc.IsListed(ctx, assetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !listed {
		response.OK(c, dto.ListingQueryResponse{Listed: false})
		return
	}

	price, err := h.querySvc.ListingPrice(ctx, assetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	sellerID, err := h.querySvc.ListingSeller(ctx, assetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	seller := sellerID.String()
	response.OK(c, dto.ListingQueryResponse{
		Listed:   true,
		Price:    &price,
		SellerID: &seller,
	})
}

// GetStats handles GET /api/v1/market/stats.
func (h *QueryHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.querySvc.ListingCount(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	balance, err := h.querySvc.FeeVaultBalance(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MarketStatsResponse{
		ActiveListings:  count,
		FeeVaultBalance: balance,
	})
}

// GetPendingPayout handles GET /api/v1/market/payouts/pending.
func (h *QueryHandler) GetPendingPayout(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	pending, err := h.querySvc.PendingPayout(c.Request.Context(), callerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.PendingPayoutResponse{Pending: pending})
}
