package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a marketplace notification.
type EventType string

const (
	EventAssetMinted      EventType = "asset.minted"
	EventListingCreated   EventType = "listing.created"
	EventListingCancelled EventType = "listing.cancelled"
	EventListingSold      EventType = "listing.sold"
)

// Event is a notification emitted after a successful operation. Events
// are consumed by external observers; correctness never depends on
// their delivery.
type Event struct {
	Type       EventType  `json:"type"`
	AssetID    uuid.UUID  `json:"asset_id"`
	ActorID    uuid.UUID  `json:"actor_id"`            // Minter, seller or buyer depending on type
	SellerID   *uuid.UUID `json:"seller_id,omitempty"` // Set on listing.sold
	Price      *int64     `json:"price,omitempty"`
	Fee        *int64     `json:"fee,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
