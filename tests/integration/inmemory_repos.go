package integration

import (
	"context"
	"fmt"
	"sync"

	"asset-marketplace/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- In-Memory Transactor ---

// inMemoryTransactor serializes transactions with a single mutex: Begin
// acquires it and the first Commit or Rollback releases it. That gives
// the in-memory stack the same effective isolation the row locks give
// the real database: one marketplace operation at a time.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (tr *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tr.mu.Lock()
	return &memTx{mu: &tr.mu}, nil
}

type memTx struct {
	pgx.Tx
	mu   *sync.Mutex
	once sync.Once
}

func (t *memTx) Commit(_ context.Context) error {
	t.release()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	t.release()
	return nil
}

func (t *memTx) release() {
	t.once.Do(t.mu.Unlock)
}

// --- In-Memory Account Repo ---

type inMemoryAccountRepo struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
}

func newInMemoryAccountRepo() *inMemoryAccountRepo {
	return &inMemoryAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (r *inMemoryAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == a.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *a
	r.accounts[a.ID] = &cp
	return nil
}

func (r *inMemoryAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// --- In-Memory Asset Repo ---

type inMemoryAssetRepo struct {
	mu     sync.RWMutex
	assets map[uuid.UUID]*domain.Asset
}

func newInMemoryAssetRepo() *inMemoryAssetRepo {
	return &inMemoryAssetRepo{assets: make(map[uuid.UUID]*domain.Asset)}
}

func (r *inMemoryAssetRepo) Create(ctx context.Context, a *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.assets[a.ID] = &cp
	return nil
}

func (r *inMemoryAssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAssetRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Asset, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryAssetRepo) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return fmt.Errorf("asset not found")
	}
	a.Description = description
	return nil
}

func (r *inMemoryAssetRepo) SetOwnerAndStatus(ctx context.Context, tx pgx.Tx, id, ownerID uuid.UUID, status domain.AssetStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return fmt.Errorf("asset not found")
	}
	a.OwnerID = ownerID
	a.Status = status
	return nil
}

func (r *inMemoryAssetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assets, id)
	return nil
}

// --- In-Memory Listing Repo ---

type inMemoryListingRepo struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]*domain.Listing // keyed by asset id
}

func newInMemoryListingRepo() *inMemoryListingRepo {
	return &inMemoryListingRepo{listings: make(map[uuid.UUID]*domain.Listing)}
}

func (r *inMemoryListingRepo) Create(ctx context.Context, tx pgx.Tx, l *domain.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[l.AssetID]; ok {
		return fmt.Errorf("asset already listed")
	}
	cp := *l
	r.listings[l.AssetID] = &cp
	return nil
}

func (r *inMemoryListingRepo) GetByAssetID(ctx context.Context, assetID uuid.UUID) (*domain.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.listings[assetID]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *inMemoryListingRepo) GetByAssetIDForUpdate(ctx context.Context, tx pgx.Tx, assetID uuid.UUID) (*domain.Listing, error) {
	return r.GetByAssetID(ctx, assetID)
}

func (r *inMemoryListingRepo) Delete(ctx context.Context, tx pgx.Tx, assetID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, assetID)
	return nil
}

func (r *inMemoryListingRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.listings)), nil
}

// --- In-Memory Payout Repo ---

type inMemoryPayoutRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*domain.PayoutEntry
}

func newInMemoryPayoutRepo() *inMemoryPayoutRepo {
	return &inMemoryPayoutRepo{entries: make(map[uuid.UUID]*domain.PayoutEntry)}
}

func (r *inMemoryPayoutRepo) Credit(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[sellerID]; ok {
		e.Balance += amount
		return nil
	}
	r.entries[sellerID] = &domain.PayoutEntry{SellerID: sellerID, Balance: amount}
	return nil
}

func (r *inMemoryPayoutRepo) GetBySeller(ctx context.Context, sellerID uuid.UUID) (*domain.PayoutEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[sellerID]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *inMemoryPayoutRepo) GetBySellerForUpdate(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) (*domain.PayoutEntry, error) {
	return r.GetBySeller(ctx, sellerID)
}

func (r *inMemoryPayoutRepo) Delete(ctx context.Context, tx pgx.Tx, sellerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sellerID)
	return nil
}

// --- In-Memory Fee Vault Repo ---

type inMemoryFeeVaultRepo struct {
	mu      sync.RWMutex
	balance int64
}

func newInMemoryFeeVaultRepo() *inMemoryFeeVaultRepo {
	return &inMemoryFeeVaultRepo{}
}

func (r *inMemoryFeeVaultRepo) Credit(ctx context.Context, tx pgx.Tx, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balance += amount
	return nil
}

func (r *inMemoryFeeVaultRepo) Debit(ctx context.Context, tx pgx.Tx, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if amount > r.balance {
		return fmt.Errorf("fee vault balance below withdrawal amount")
	}
	r.balance -= amount
	return nil
}

func (r *inMemoryFeeVaultRepo) Get(ctx context.Context) (*domain.FeeVault, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &domain.FeeVault{Balance: r.balance}, nil
}

func (r *inMemoryFeeVaultRepo) GetForUpdate(ctx context.Context, tx pgx.Tx) (*domain.FeeVault, error) {
	return r.Get(ctx)
}
