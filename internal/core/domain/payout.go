package domain

import (
	"time"

	"github.com/google/uuid"
)

// PayoutEntry accumulates sale proceeds owed to a seller. Entries are
// created lazily on the first sale, grow with every subsequent sale and
// are removed in full when the seller claims; partial claims are not
// supported.
type PayoutEntry struct {
	SellerID  uuid.UUID `json:"seller_id"`
	Balance   int64     `json:"balance"` // Smallest currency unit, never negative
	UpdatedAt time.Time `json:"updated_at"`
}

// FeeVaultID is the fixed primary key of the single fee vault row.
const FeeVaultID = 1

// FeeVault is the running balance of marketplace-retained proceeds.
type FeeVault struct {
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
