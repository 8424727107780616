package repositories

import (
	"context"

	"messpay/internal/core/domain"
)

// walletRepository implements WalletRepository interface
type walletRepository struct {
	store Store
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(store Store) WalletRepository {
	return &walletRepository{store: store}
}

// Get gets the wallet record, nil when none exists yet
func (r *walletRepository) Get(ctx context.Context) (*domain.Wallet, error) {
	var wallet domain.Wallet
	found, err := getJSON(ctx, r.store, KeyWallet, &wallet)
	if err != nil || !found {
		return nil, err
	}
	if wallet.Transactions == nil {
		wallet.Transactions = []domain.TokenTransaction{}
	}
	return &wallet, nil
}

// Save writes the full wallet (balance and every transaction) as one record
func (r *walletRepository) Save(ctx context.Context, wallet *domain.Wallet) error {
	return setJSON(ctx, r.store, KeyWallet, wallet)
}
