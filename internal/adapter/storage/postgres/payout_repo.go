package postgres

import (
	"context"
	"errors"
	"fmt"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PayoutRepo implements ports.PayoutRepository.
type PayoutRepo struct {
	pool Pool
}

// NewPayoutRepo creates a new PayoutRepo.
func NewPayoutRepo(pool Pool) *PayoutRepo {
	return &PayoutRepo{pool: pool}
}

// Credit adds sale proceeds to a seller's pending balance within a
// transaction. The upsert accumulates, never overwrites.
func (r *PayoutRepo) Credit(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, amount int64) error {
	query := `INSERT INTO payout_entries (seller_id, balance, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (seller_id) DO UPDATE
		SET balance = payout_entries.balance + EXCLUDED.balance, updated_at = NOW()`

	_, err := tx.Exec(ctx, query, sellerID, amount)
	if err != nil {
		return fmt.Errorf("credit payout: %w", err)
	}
	return nil
}

// GetBySellerForUpdate fetches a seller's payout entry with a row lock.
// This MUST be called within a transaction.
func (r *PayoutRepo) GetBySellerForUpdate(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) (*domain.PayoutEntry, error) {
	query := `SELECT seller_id, balance, updated_at FROM payout_entries WHERE seller_id = $1 FOR UPDATE`

	p := &domain.PayoutEntry{}
	err := tx.QueryRow(ctx, query, sellerID).Scan(&p.SellerID, &p.Balance, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payout for update: %w", err)
	}
	return p, nil
}

// GetBySeller fetches a seller's payout entry (non-locking read).
func (r *PayoutRepo) GetBySeller(ctx context.Context, sellerID uuid.UUID) (*domain.PayoutEntry, error) {
	query := `SELECT seller_id, balance, updated_at FROM payout_entries WHERE seller_id = $1`

	p := &domain.PayoutEntry{}
	err := r.pool.QueryRow(ctx, query, sellerID).Scan(&p.SellerID, &p.Balance, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payout by seller: %w", err)
	}
	return p, nil
}

// Delete removes a seller's payout entry after a full claim.
func (r *PayoutRepo) Delete(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) error {
	query := `DELETE FROM payout_entries WHERE seller_id = $1`

	tag, err := tx.Exec(ctx, query, sellerID)
	if err != nil {
		return fmt.Errorf("delete payout entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payout entry not found: %s", sellerID)
	}
	return nil
}
