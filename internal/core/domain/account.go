package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered caller identity. Sellers, buyers and
// the marketplace operator are all ordinary accounts; the operator is
// distinguished only by configuration.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
