package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.DBTransactor. The marketplace engine runs
// each settlement (list, cancel, buy, claim, withdraw) inside a single
// transaction obtained here, with row locks held until commit.
type Transactor struct {
	pool Pool
}

// NewTransactor wraps the connection pool as a transaction source.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a transaction at the pool's default isolation level.
// Read Committed is sufficient: all invariants rest on FOR UPDATE locks.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
