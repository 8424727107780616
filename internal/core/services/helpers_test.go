package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"

	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// flakyStore fails writes to selected keys
type flakyStore struct {
	repositories.Store
	mu      sync.Mutex
	failSet map[string]bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{Store: repositories.NewMemoryStore(), failSet: map[string]bool{}}
}

func (f *flakyStore) failWrites(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet[key] = fail
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failSet[key]
	f.mu.Unlock()
	if fail {
		return errStoreDown
	}
	return f.Store.Set(ctx, key, value)
}

type testEnv struct {
	store    repositories.Store
	users    repositories.UserRepository
	wallets  repositories.WalletRepository
	orders   repositories.OrderRepository
	catalog  repositories.CatalogRepository
	wallet   *WalletService
	order    *OrderService
	sessions *SessionService
}

func newTestEnv(t *testing.T, store repositories.Store, seeds WalletSeeds) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   store,
		users:   repositories.NewUserRepository(store),
		wallets: repositories.NewWalletRepository(store),
		orders:  repositories.NewOrderRepository(store),
		catalog: repositories.NewCatalogRepository(store),
	}
	env.wallet = NewWalletService(env.wallets, seeds)
	env.order = NewOrderService(env.orders, env.catalog, env.wallet, true)
	env.sessions = NewSessionService(env.users, env.wallet, env.order)
	return env
}

func (e *testEnv) login(t *testing.T, id string, role domain.Role) *Session {
	t.Helper()
	sess, err := e.sessions.Login(context.Background(), &LoginInput{
		ID:    id,
		Name:  "User " + id,
		Email: id + "@campus.edu",
		Role:  role,
	})
	require.NoError(t, err)
	return sess
}

func (e *testEnv) storedWallet(t *testing.T) *domain.Wallet {
	t.Helper()
	w, err := e.wallets.Get(context.Background())
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

func (e *testEnv) storedOrders(t *testing.T) []domain.Order {
	t.Helper()
	orders, err := e.orders.List(context.Background())
	require.NoError(t, err)
	return orders
}

func requireBalanced(t *testing.T, w *domain.Wallet) {
	t.Helper()
	require.Equal(t, w.Sum(), w.Balance, "balance must equal the sum of transaction amounts")
	require.GreaterOrEqual(t, w.Balance, int64(0))
}

func requireRejected(t *testing.T, err error, reason domain.RejectReason) {
	t.Helper()
	var rejected *domain.OrderRejectedError
	require.ErrorAs(t, err, &rejected)
	require.Equal(t, reason, rejected.Reason)
}

func sampleOrder() *PlaceOrderInput {
	return &PlaceOrderInput{
		MessID:   "mess-1",
		MessName: "Sunshine Mess",
		Items: []domain.OrderItem{
			{MenuItemID: "item-1", Name: "Paneer Butter Masala", Quantity: 2, TokensPerItem: 4},
			{MenuItemID: "item-3", Name: "Roti", Quantity: 4, TokensPerItem: 1},
		},
	}
}
