package ports

import (
	"context"
	"time"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
)

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(accountID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
}

// EventPublisher delivers marketplace notifications to external
// observers. Best-effort: failures are logged, never surfaced.
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event) error
}

// --- Service Ports (Business Logic) ---

// AssetService defines asset record operations.
type AssetService interface {
	Mint(ctx context.Context, req MintRequest) (*domain.Asset, error)
	UpdateDescription(ctx context.Context, callerID, assetID uuid.UUID, description string) (*domain.Asset, error)
	Burn(ctx context.Context, callerID, assetID uuid.UUID) error
	Get(ctx context.Context, assetID uuid.UUID) (*domain.Asset, error)
}

// MintRequest holds validated input for minting an asset.
type MintRequest struct {
	CallerID    uuid.UUID
	Name        string
	Description string
	URI         string
}

// MarketplaceService defines the exchange engine: every operation runs
// as one atomic unit, either fully committing or fully aborting.
type MarketplaceService interface {
	List(ctx context.Context, callerID, assetID uuid.UUID, price int64) (*domain.Listing, error)
	Cancel(ctx context.Context, callerID, assetID uuid.UUID) (*domain.Asset, error)
	Buy(ctx context.Context, callerID, assetID uuid.UUID, payment int64) (*PurchaseResult, error)
	ClaimPayout(ctx context.Context, callerID uuid.UUID) (int64, error)
	WithdrawFees(ctx context.Context, callerID uuid.UUID, amount int64, recipientID uuid.UUID) (*Withdrawal, error)
}

// PurchaseResult holds the outcome of a successful buy.
type PurchaseResult struct {
	Asset    *domain.Asset
	Price    int64
	Fee      int64
	SellerID uuid.UUID
	// Refund is the overpayment returned to the buyer; nil when the
	// payment matched the price exactly.
	Refund *int64
}

// Withdrawal holds the outcome of a fee withdrawal.
type Withdrawal struct {
	Amount      int64
	RecipientID uuid.UUID
	Remaining   int64
}

// QueryService defines the read-only marketplace views. No state
// mutation, no authorization beyond a valid caller token.
type QueryService interface {
	IsListed(ctx context.Context, assetID uuid.UUID) (bool, error)
	ListingPrice(ctx context.Context, assetID uuid.UUID) (int64, error)
	ListingSeller(ctx context.Context, assetID uuid.UUID) (uuid.UUID, error)
	FeeVaultBalance(ctx context.Context) (int64, error)
	ListingCount(ctx context.Context) (int64, error)
	PendingPayout(ctx context.Context, sellerID uuid.UUID) (int64, error)
}

// AuthService defines authentication business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Username    string
	Password    string
	DisplayName string
}
