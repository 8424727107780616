package repositories

import (
	"context"

	"messpay/internal/core/domain"
)

// Logical keys of the persisted records
const (
	KeyUser      = "user"
	KeyRole      = "role"
	KeyWallet    = "wallet"
	KeyOrders    = "orders"
	KeyMesses    = "messes"
	KeyMenuItems = "menu_items"
)

// SessionKeys are the keys cleared when all device data is reset
var SessionKeys = []string{KeyUser, KeyWallet, KeyOrders, KeyRole}

// Store defines the key-value persistence port.
// Get returns (nil, nil) when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	RemoveAll(ctx context.Context, keys []string) error
}

// UserRepository defines access to the `user` and `role` records
type UserRepository interface {
	GetUser(ctx context.Context) (*domain.User, error)
	SaveUser(ctx context.Context, user *domain.User) error
	ClearUser(ctx context.Context) error
	GetRole(ctx context.Context) (domain.Role, error)
	SaveRole(ctx context.Context, role domain.Role) error
	ClearRole(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// WalletRepository defines access to the `wallet` record
type WalletRepository interface {
	Get(ctx context.Context) (*domain.Wallet, error)
	Save(ctx context.Context, wallet *domain.Wallet) error
}

// OrderRepository defines access to the `orders` record
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	SaveAll(ctx context.Context, orders []domain.Order) error
	Add(ctx context.Context, order *domain.Order) error
}

// CatalogRepository defines read access to the catalog seed
// (`messes`, `menu_items`) plus the seeding writes
type CatalogRepository interface {
	ListMesses(ctx context.Context) ([]domain.Mess, error)
	SaveMesses(ctx context.Context, messes []domain.Mess) error
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	ListMenuItemsByMess(ctx context.Context, messID string) ([]domain.MenuItem, error)
	SaveMenuItems(ctx context.Context, items []domain.MenuItem) error
}
