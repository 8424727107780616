package services

import (
	"context"
	"math"
	"testing"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderDebitsTotal(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)

	order, err := env.order.PlaceOrder(context.Background(), sess, sampleOrder())
	require.NoError(t, err)

	assert.Equal(t, int64(12), order.TotalTokens)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.OrderTypeNormal, order.OrderType)
	assert.Equal(t, "student-1", order.UserID)
	assert.Nil(t, order.CompletedAt)
	assert.False(t, order.CreatedAt.IsZero())

	w := env.storedWallet(t)
	require.Equal(t, int64(88), w.Balance)
	debit := w.Transactions[0]
	assert.Equal(t, domain.TxDebit, debit.Type)
	assert.Equal(t, int64(-12), debit.Amount)
	assert.Equal(t, order.ID, debit.OrderID)
	assert.Equal(t, "Order from Sunshine Mess", debit.Description)
	requireBalanced(t, w)

	stored := env.storedOrders(t)
	require.Len(t, stored, 1)
	require.Equal(t, order.ID, stored[0].ID)

	// session caches follow the write
	require.Equal(t, int64(88), sess.Wallet().Balance)
	require.Len(t, sess.Orders(), 1)
}

func TestPlaceOrderRejections(t *testing.T) {
	tests := []struct {
		name   string
		seed   int64
		mutate func(in *PlaceOrderInput)
		reason domain.RejectReason
	}{
		{
			name:   "empty cart",
			seed:   100,
			mutate: func(in *PlaceOrderInput) { in.Items = nil },
			reason: domain.RejectEmptyCart,
		},
		{
			name:   "zero quantity",
			seed:   100,
			mutate: func(in *PlaceOrderInput) { in.Items[0].Quantity = 0 },
			reason: domain.RejectInvalidItem,
		},
		{
			name:   "negative price",
			seed:   100,
			mutate: func(in *PlaceOrderInput) { in.Items[1].TokensPerItem = -1 },
			reason: domain.RejectInvalidItem,
		},
		{
			name: "unknown portion size",
			seed: 100,
			mutate: func(in *PlaceOrderInput) {
				in.Items[0].Customization = &domain.MealCustomization{PortionSize: "huge"}
			},
			reason: domain.RejectInvalidItem,
		},
		{
			name: "total overflows",
			seed: 100,
			mutate: func(in *PlaceOrderInput) {
				in.Items[0].Quantity = 2
				in.Items[0].TokensPerItem = math.MaxInt64/2 + 1
			},
			reason: domain.RejectInvalidItem,
		},
		{
			name:   "insufficient balance",
			seed:   11,
			mutate: func(in *PlaceOrderInput) {},
			reason: domain.RejectInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, repositories.NewMemoryStore(), WalletSeeds{Student: tt.seed})
			sess := env.login(t, "student-1", domain.RoleStudent)

			in := sampleOrder()
			tt.mutate(in)
			order, err := env.order.PlaceOrder(context.Background(), sess, in)
			require.Nil(t, order)
			requireRejected(t, err, tt.reason)

			require.Empty(t, env.storedOrders(t))
			w := env.storedWallet(t)
			require.Equal(t, tt.seed, w.Balance)
			for _, tx := range w.Transactions {
				require.NotEqual(t, domain.TxDebit, tx.Type)
			}
		})
	}
}

func TestPlaceOrderInvalidInputIsNotARejection(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)

	in := sampleOrder()
	in.MessID = ""
	_, err := env.order.PlaceOrder(context.Background(), sess, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var rejected *domain.OrderRejectedError
	require.NotErrorAs(t, err, &rejected)
}

func TestPlaceOrderWithZeroTotalSkipsDebit(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)

	in := sampleOrder()
	in.Items = []domain.OrderItem{{MenuItemID: "item-9", Name: "Water", Quantity: 1, TokensPerItem: 0}}
	order, err := env.order.PlaceOrder(context.Background(), sess, in)
	require.NoError(t, err)
	require.Zero(t, order.TotalTokens)

	w := env.storedWallet(t)
	require.Equal(t, int64(100), w.Balance)
	require.Len(t, w.Transactions, 1)
}

func TestPlaceOrderRefundsWhenOrderWriteFails(t *testing.T) {
	store := newFlakyStore()
	env := newTestEnv(t, store, DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)

	store.failWrites(repositories.KeyOrders, true)
	order, err := env.order.PlaceOrder(context.Background(), sess, sampleOrder())
	require.Nil(t, order)
	requireRejected(t, err, domain.RejectStorageError)
	require.ErrorIs(t, err, errStoreDown)

	require.Empty(t, env.storedOrders(t))

	w := env.storedWallet(t)
	require.Equal(t, int64(100), w.Balance)
	require.Len(t, w.Transactions, 3)
	requireBalanced(t, w)

	refund, debit := w.Transactions[0], w.Transactions[1]
	assert.Equal(t, domain.TxCredit, refund.Type)
	assert.Equal(t, int64(12), refund.Amount)
	assert.Equal(t, debit.OrderID, refund.OrderID)
	assert.Equal(t, "Refund for failed order "+debit.OrderID, refund.Description)
}

func TestPlaceOrderReportsFailedRefund(t *testing.T) {
	store := newFlakyStore()
	env := newTestEnv(t, store, DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)
	ctx := context.Background()

	store.failWrites(repositories.KeyOrders, true)
	// the debit goes through, then the wallet becomes unwritable before the refund
	wrapped := &refundBlocker{flakyStore: store}
	env.wallets = repositories.NewWalletRepository(wrapped)
	env.wallet.walletRepo = env.wallets

	_, err := env.order.PlaceOrder(ctx, sess, sampleOrder())
	requireRejected(t, err, domain.RejectStorageError)
	require.ErrorContains(t, err, "failed to refund order")
}

// refundBlocker lets the first wallet write through and fails the rest
type refundBlocker struct {
	*flakyStore
	walletWrites int
}

func (r *refundBlocker) Set(ctx context.Context, key string, value []byte) error {
	if key == repositories.KeyWallet {
		r.walletWrites++
		if r.walletWrites > 1 {
			return errStoreDown
		}
	}
	return r.flakyStore.Set(ctx, key, value)
}

func TestComposeItemsPricesFromCatalog(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	ctx := context.Background()
	require.NoError(t, env.catalog.SaveMenuItems(ctx, []domain.MenuItem{
		{ID: "item-1", MessID: "mess-1", Name: "Paneer Butter Masala", Price: 4, Available: true},
		{ID: "item-3", MessID: "mess-1", Name: "Roti", Price: 1, Available: true},
		{ID: "item-4", MessID: "mess-1", Name: "Kheer", Price: 3, Available: false},
		{ID: "item-7", MessID: "mess-2", Name: "Chicken Biryani", Price: 6, Available: true},
	}))

	items, err := env.order.ComposeItems(ctx, "mess-1", []CartSelection{
		{MenuItemID: "item-1", Quantity: 2},
		{MenuItemID: "item-3", Quantity: 4},
	})
	require.NoError(t, err)
	total, err := domain.TotalOf(items)
	require.NoError(t, err)
	require.Equal(t, int64(12), total)
	require.Equal(t, "Paneer Butter Masala", items[0].Name)

	_, err = env.order.ComposeItems(ctx, "mess-1", []CartSelection{{MenuItemID: "item-4", Quantity: 1}})
	requireRejected(t, err, domain.RejectInvalidItem)

	_, err = env.order.ComposeItems(ctx, "mess-1", []CartSelection{{MenuItemID: "item-7", Quantity: 1}})
	requireRejected(t, err, domain.RejectInvalidItem)

	_, err = env.order.ComposeItems(ctx, "mess-1", []CartSelection{{MenuItemID: "item-1", Quantity: 0}})
	requireRejected(t, err, domain.RejectInvalidItem)

	_, err = env.order.ComposeItems(ctx, "mess-1", nil)
	requireRejected(t, err, domain.RejectEmptyCart)
}

func TestUpdateOrderStatusSetsCompletedAtOnDelivery(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)
	ctx := context.Background()

	order, err := env.order.PlaceOrder(ctx, sess, sampleOrder())
	require.NoError(t, err)

	updated, err := env.order.UpdateOrderStatus(ctx, sess, order.ID, domain.StatusPreparing)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPreparing, updated.Status)
	require.Nil(t, updated.CompletedAt)

	updated, err = env.order.UpdateOrderStatus(ctx, sess, order.ID, domain.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)

	stored := env.storedOrders(t)
	require.Equal(t, domain.StatusDelivered, stored[0].Status)
	require.NotNil(t, stored[0].CompletedAt)

	completed, err := env.order.CompletedOrders(sess)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	active, err := env.order.ActiveOrders(sess)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestUpdateOrderStatusStrictLifecycle(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)
	ctx := context.Background()

	order, err := env.order.PlaceOrder(ctx, sess, sampleOrder())
	require.NoError(t, err)
	_, err = env.order.UpdateOrderStatus(ctx, sess, order.ID, domain.StatusDelivered)
	require.NoError(t, err)

	_, err = env.order.UpdateOrderStatus(ctx, sess, order.ID, domain.StatusPending)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	// re-setting the current status is a no-op
	same, err := env.order.UpdateOrderStatus(ctx, sess, order.ID, domain.StatusDelivered)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, same.Status)

	permissive := NewOrderService(env.orders, env.catalog, env.wallet, false)
	reopened, err := permissive.UpdateOrderStatus(ctx, sess, order.ID, domain.StatusPending)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, reopened.Status)
}

func TestUpdateOrderStatusErrors(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)
	ctx := context.Background()

	_, err := env.order.UpdateOrderStatus(ctx, sess, "order-missing", domain.StatusReady)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = env.order.UpdateOrderStatus(ctx, sess, "order-missing", domain.OrderStatus("lost"))
	require.ErrorIs(t, err, domain.ErrInvalidOrderStatus)
}

func TestCancelOrderRefundsTokens(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)
	ctx := context.Background()

	order, err := env.order.PlaceOrder(ctx, sess, sampleOrder())
	require.NoError(t, err)

	cancelled, err := env.order.CancelOrder(ctx, sess, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)

	w := env.storedWallet(t)
	require.Equal(t, int64(100), w.Balance)
	refund := w.Transactions[0]
	assert.Equal(t, domain.TxCredit, refund.Type)
	assert.Equal(t, order.ID, refund.OrderID)
	assert.Equal(t, "Refund for cancelled order "+order.ID, refund.Description)
	requireBalanced(t, w)

	_, err = env.order.CancelOrder(ctx, sess, order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestCancelOrderRequiresOwnership(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	ctx := context.Background()

	alice := env.login(t, "alice", domain.RoleStudent)
	order, err := env.order.PlaceOrder(ctx, alice, sampleOrder())
	require.NoError(t, err)

	bob := env.login(t, "bob", domain.RoleStudent)
	_, err = env.order.CancelOrder(ctx, bob, order.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotOwned)
	require.Equal(t, domain.StatusPending, env.storedOrders(t)[0].Status)
}

func TestCancelOrderRevertsWhenRefundFails(t *testing.T) {
	store := newFlakyStore()
	env := newTestEnv(t, store, DefaultWalletSeeds())
	sess := env.login(t, "student-1", domain.RoleStudent)
	ctx := context.Background()

	order, err := env.order.PlaceOrder(ctx, sess, sampleOrder())
	require.NoError(t, err)

	store.failWrites(repositories.KeyWallet, true)
	_, err = env.order.CancelOrder(ctx, sess, order.ID)
	require.ErrorIs(t, err, errStoreDown)

	require.Equal(t, domain.StatusPending, env.storedOrders(t)[0].Status)
	require.Equal(t, int64(88), env.storedWallet(t).Balance)
}

func TestOrdersAreScopedByRole(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	ctx := context.Background()

	alice := env.login(t, "alice", domain.RoleStudent)
	_, err := env.order.PlaceOrder(ctx, alice, sampleOrder())
	require.NoError(t, err)

	bob := env.login(t, "bob", domain.RoleStudent)
	_, err = env.order.PlaceOrder(ctx, bob, sampleOrder())
	require.NoError(t, err)

	visible, err := env.order.Refresh(ctx, bob)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, "bob", visible[0].UserID)

	// the store is not empty, so no demo orders are added for the owner
	owner := env.login(t, "owner-1", domain.RoleMessOwner)
	visible, err = env.order.Orders(owner)
	require.NoError(t, err)
	require.Len(t, visible, 2)
}
