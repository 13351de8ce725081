package postgres

import (
	"context"
	"fmt"

	"asset-marketplace/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// FeeVaultRepo implements ports.FeeVaultRepository against the single
// fee_vault row (id = 1, seeded at schema creation).
type FeeVaultRepo struct {
	pool Pool
}

// NewFeeVaultRepo creates a new FeeVaultRepo.
func NewFeeVaultRepo(pool Pool) *FeeVaultRepo {
	return &FeeVaultRepo{pool: pool}
}

// Credit adds a sale fee to the vault within a transaction.
func (r *FeeVaultRepo) Credit(ctx context.Context, tx pgx.Tx, amount int64) error {
	query := `UPDATE fee_vault SET balance = balance + $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, amount, domain.FeeVaultID)
	if err != nil {
		return fmt.Errorf("credit fee vault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fee vault row missing")
	}
	return nil
}

// GetForUpdate fetches the vault balance with a row lock.
// This MUST be called within a transaction.
func (r *FeeVaultRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FeeVault, error) {
	query := `SELECT balance, updated_at FROM fee_vault WHERE id = $1 FOR UPDATE`

	v := &domain.FeeVault{}
	err := tx.QueryRow(ctx, query, domain.FeeVaultID).Scan(&v.Balance, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get fee vault for update: %w", err)
	}
	return v, nil
}

// Get fetches the vault balance (non-locking read).
func (r *FeeVaultRepo) Get(ctx context.Context) (*domain.FeeVault, error) {
	query := `SELECT balance, updated_at FROM fee_vault WHERE id = $1`

	v := &domain.FeeVault{}
	err := r.pool.QueryRow(ctx, query, domain.FeeVaultID).Scan(&v.Balance, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get fee vault: %w", err)
	}
	return v, nil
}

// Debit subtracts a withdrawal from the vault within a transaction.
// The balance CHECK constraint rejects overdrafts at the database level
// as well; callers validate against the locked balance first.
func (r *FeeVaultRepo) Debit(ctx context.Context, tx pgx.Tx, amount int64) error {
	query := `UPDATE fee_vault SET balance = balance - $1, updated_at = NOW() WHERE id = $2 AND balance >= $1`

	tag, err := tx.Exec(ctx, query, amount, domain.FeeVaultID)
	if err != nil {
		return fmt.Errorf("debit fee vault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fee vault balance below withdrawal amount")
	}
	return nil
}
