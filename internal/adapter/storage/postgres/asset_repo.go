package postgres

import (
	"context"
	"errors"
	"fmt"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AssetRepo implements ports.AssetRepository.
type AssetRepo struct {
	pool Pool
}

// NewAssetRepo creates a new AssetRepo.
func NewAssetRepo(pool Pool) *AssetRepo {
	return &AssetRepo{pool: pool}
}

const assetColumns = `id, name, description, uri, owner_id, status, created_at, updated_at`

// Create inserts a new asset record.
func (r *AssetRepo) Create(ctx context.Context, a *domain.Asset) error {
	query := `INSERT INTO assets (id, name, description, uri, owner_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.Description, a.URI,
		a.OwnerID, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// GetByID fetches an asset by its UUID (without locking).
func (r *AssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	a, err := scanAsset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset by id: %w", err)
	}
	return a, nil
}

// GetByIDForUpdate fetches an asset with a pessimistic row lock.
// This MUST be called within a transaction.
func (r *AssetRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 FOR UPDATE`

	a, err := scanAsset(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asset for update: %w", err)
	}
	return a, nil
}

// UpdateDescription mutates the asset's description field.
func (r *AssetRepo) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	query := `UPDATE assets SET description = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, description, id)
	if err != nil {
		return fmt.Errorf("update asset description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset not found: %s", id)
	}
	return nil
}

// SetOwnerAndStatus writes the asset's custody state within a transaction.
func (r *AssetRepo) SetOwnerAndStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, ownerID uuid.UUID, status domain.AssetStatus) error {
	query := `UPDATE assets SET owner_id = $1, status = $2, updated_at = NOW() WHERE id = $3`

	tag, err := tx.Exec(ctx, query, ownerID, status, id)
	if err != nil {
		return fmt.Errorf("set asset owner and status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset not found: %s", id)
	}
	return nil
}

// Delete removes an asset record (burn).
func (r *AssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM assets WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset not found: %s", id)
	}
	return nil
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	a := &domain.Asset{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.URI,
		&a.OwnerID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
