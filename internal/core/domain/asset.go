package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssetStatus represents the custody state of an asset.
type AssetStatus string

const (
	// AssetStatusAvailable means the owner holds the asset directly.
	AssetStatusAvailable AssetStatus = "AVAILABLE"
	// AssetStatusEscrowed means an active listing holds the asset; the
	// owner cannot transfer, relist, mutate or burn it until the listing
	// is cancelled or sold.
	AssetStatusEscrowed AssetStatus = "ESCROWED"
)

// Asset represents a unique, non-fungible asset record.
// ID and URI are immutable after mint; Description is mutable by the owner.
type Asset struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	URI         string      `json:"uri"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Status      AssetStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsEscrowed returns true if the asset is held by an active listing.
func (a *Asset) IsEscrowed() bool {
	return a.Status == AssetStatusEscrowed
}

// IsOwnedBy returns true if the given account holds the asset.
func (a *Asset) IsOwnedBy(accountID uuid.UUID) bool {
	return a.OwnerID == accountID
}
