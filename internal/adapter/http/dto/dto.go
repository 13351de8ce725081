package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
}

// LoginRequest is the request body for account login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// MintAssetRequest is the request body for minting an asset.
type MintAssetRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
	URI         string `json:"uri" binding:"required,max=512,asset_uri"`
}

// UpdateAssetRequest is the request body for updating an asset's
// description. Name and URI are immutable after mint.
type UpdateAssetRequest struct {
	Description string `json:"description" binding:"max=1000"`
}

// AssetResponse is the response body for asset details.
type AssetResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URI         string `json:"uri"`
	OwnerID     string `json:"owner_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// CreateListingRequest is the request body for listing an asset for sale.
type CreateListingRequest struct {
	AssetID string `json:"asset_id" binding:"required,uuid"`
	Price   int64  `json:"price" binding:"required,gt=0"`
}

// ListingResponse is the response body for an active listing.
type ListingResponse struct {
	AssetID   string `json:"asset_id"`
	Price     int64  `json:"price"`
	SellerID  string `json:"seller_id"`
	CreatedAt string `json:"created_at"`
}

// BuyRequest is the request body for purchasing a listed asset.
type BuyRequest struct {
	Payment int64 `json:"payment" binding:"required,gt=0"`
}

// PurchaseResponse is the response body for a completed purchase.
type PurchaseResponse struct {
	Asset    AssetResponse `json:"asset"`
	Price    int64         `json:"price"`
	Fee      int64         `json:"fee"`
	SellerID string        `json:"seller_id"`
	Refund   *int64        `json:"refund,omitempty"`
}

// ClaimPayoutResponse is the response body for a claimed payout.
type ClaimPayoutResponse struct {
	Amount int64 `json:"amount"`
}

// WithdrawFeesRequest is the request body for an operator fee withdrawal.
type WithdrawFeesRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
}

// WithdrawFeesResponse is the response body for a completed withdrawal.
type WithdrawFeesResponse struct {
	Amount      int64  `json:"amount"`
	RecipientID string `json:"recipient_id"`
	Remaining   int64  `json:"remaining"`
}

// ListingQueryResponse is the response for a listing lookup. Price and
// SellerID are only set when Listed is true.
type ListingQueryResponse struct {
	Listed   bool    `json:"listed"`
	Price    *int64  `json:"price,omitempty"`
	SellerID *string `json:"seller_id,omitempty"`
}

// MarketStatsResponse is the response for marketplace statistics.
type MarketStatsResponse struct {
	ActiveListings  int64 `json:"active_listings"`
	FeeVaultBalance int64 `json:"fee_vault_balance"`
}

// PendingPayoutResponse is the response for a pending payout query.
type PendingPayoutResponse struct {
	Pending int64 `json:"pending"`
}
