package handler

import (
	"time"

	"asset-marketplace/internal/adapter/http/dto"
	"asset-marketplace/internal/adapter/http/middleware"
	"asset-marketplace/internal/core/domain"
	"asset-marketplace/internal/core/ports"
	"asset-marketplace/pkg/apperror"
	"asset-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AssetHandler handles asset record endpoints.
type AssetHandler struct {
	assetSvc ports.AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetSvc ports.AssetService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc}
}

// Mint handles POST /api/v1/assets.
func (h *AssetHandler) Mint(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.MintAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	asset, err := h.assetSvc.Mint(c.Request.Context(), ports.MintRequest{
		CallerID:    callerID,
		Name:        req.Name,
		Description: req.Description,
		URI:         req.URI,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAssetResponse(asset))
}

// Get handles GET /api/v1/assets/:id.
func (h *AssetHandler) Get(c *gin.Context) {
	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid asset id"))
		return
	}

	asset, err := h.assetSvc.Get(c.Request.Context(), assetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAssetResponse(asset))
}

// Update handles PATCH /api/v1/assets/:id.
func (h *AssetHandler) Update(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid asset id"))
		return
	}

	var req dto.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	asset, err := h.assetSvc.UpdateDescription(c.Request.Context(), callerID, assetID, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toAssetResponse(asset))
}

// Burn handles DELETE /api/v1/assets/:id.
func (h *AssetHandler) Burn(c *gin.Context) {
	callerID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	assetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid asset id"))
		return
	}

	if err := h.assetSvc.Burn(c.Request.Context(), callerID, assetID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"burned": assetID.String()})
}

func toAssetResponse(asset *domain.Asset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:          asset.ID.String(),
		Name:        asset.Name,
		Description: asset.Description,
		URI:         asset.URI,
		OwnerID:     asset.OwnerID.String(),
		Status:      string(asset.Status),
		CreatedAt:   asset.CreatedAt.UTC().Format(time.RFC3339),
	}
}
