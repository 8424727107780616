package services

import (
	"context"

	"messpay/internal/core/domain"
)

// Note: WalletService implementation is in wallet_service.go
// Note: OrderService implementation is in order_service.go
// Note: SessionService implementation is in session_service.go

// WalletLedger defines the wallet operations used by the HTTP layer
type WalletLedger interface {
	Initialize(ctx context.Context, sess *Session) (*domain.Wallet, error)
	Refresh(ctx context.Context, sess *Session) (*domain.Wallet, error)
	Balance(ctx context.Context, sess *Session) (int64, error)
	Transactions(ctx context.Context, sess *Session, typ domain.TransactionType) ([]domain.TokenTransaction, error)
	Debit(ctx context.Context, sess *Session, amount int64, description, orderID string) (bool, error)
	Credit(ctx context.Context, sess *Session, amount int64, description string) error
	Transfer(ctx context.Context, sess *Session, toUserID, toUserName string, amount int64) (bool, error)
}

// OrderSettlement defines the order operations used by the HTTP layer
type OrderSettlement interface {
	PlaceOrder(ctx context.Context, sess *Session, input *PlaceOrderInput) (*domain.Order, error)
	ComposeItems(ctx context.Context, messID string, cart []CartSelection) ([]domain.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, sess *Session, orderID string, status domain.OrderStatus) (*domain.Order, error)
	CancelOrder(ctx context.Context, sess *Session, orderID string) (*domain.Order, error)
	Refresh(ctx context.Context, sess *Session) ([]domain.Order, error)
	ActiveOrders(sess *Session) ([]domain.Order, error)
	CompletedOrders(sess *Session) ([]domain.Order, error)
	Orders(sess *Session) ([]domain.Order, error)
}

// SessionManager defines the identity operations used by the HTTP layer
type SessionManager interface {
	Login(ctx context.Context, input *LoginInput) (*Session, error)
	Restore(ctx context.Context) (*Session, error)
	Logout(ctx context.Context, sess *Session) error
	SetRole(ctx context.Context, sess *Session, role domain.Role) (*domain.User, error)
	Reset(ctx context.Context, sess *Session) error
}

var (
	_ WalletLedger    = (*WalletService)(nil)
	_ OrderSettlement = (*OrderService)(nil)
	_ SessionManager  = (*SessionService)(nil)
)
