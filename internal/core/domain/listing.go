package domain

import (
	"time"

	"github.com/google/uuid"
)

// FeeRatePercent is the marketplace cut of every sale.
const FeeRatePercent = 2

// Fee computes the marketplace fee for a sale price using integer
// truncation. The fee never exceeds 2% of the price and is 0 for
// prices below 50; the truncation remainder accrues to the seller.
func Fee(price int64) int64 {
	return price * FeeRatePercent / 100
}

// SellerProceeds computes the amount credited to the seller for a sale.
func SellerProceeds(price int64) int64 {
	return price - Fee(price)
}

// Listing pairs an escrowed asset with its sale price and seller.
// Listings are indexed by asset id: a buyer knows the asset, not the
// internal listing id, and an asset can carry at most one active listing.
type Listing struct {
	ID        uuid.UUID `json:"id"`
	AssetID   uuid.UUID `json:"asset_id"`
	Price     int64     `json:"price"` // Smallest currency unit, always > 0
	SellerID  uuid.UUID `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
}
