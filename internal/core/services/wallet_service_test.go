package services

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSeedsByRole(t *testing.T) {
	tests := []struct {
		role    domain.Role
		balance int64
	}{
		{domain.RoleStudent, 100},
		{domain.RoleMessOwner, 50},
		{domain.RoleProvider, 85},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
			sess := newSession(domain.User{ID: "user-1", Role: tt.role})

			w, err := env.wallet.Initialize(context.Background(), sess)
			require.NoError(t, err)
			require.Equal(t, tt.balance, w.Balance)
			require.Len(t, w.Transactions, 1)

			welcome := w.Transactions[0]
			assert.Equal(t, domain.TxCredit, welcome.Type)
			assert.Equal(t, tt.balance, welcome.Amount)
			assert.Equal(t, "Welcome bonus", welcome.Description)
			assert.Equal(t, "user-1", welcome.UserID)
			requireBalanced(t, w)
		})
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()

	first, err := env.wallet.Initialize(ctx, sess)
	require.NoError(t, err)
	second, err := env.wallet.Initialize(ctx, sess)
	require.NoError(t, err)

	require.Equal(t, first.Balance, second.Balance)
	require.Len(t, second.Transactions, 1)
	require.Equal(t, first.Transactions[0].ID, second.Transactions[0].ID)
	require.Len(t, env.storedWallet(t).Transactions, 1)
	require.Equal(t, second, sess.Wallet())
}

func TestInitializeReplacesAnotherUsersWallet(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	ctx := context.Background()

	alice := newSession(domain.User{ID: "alice", Role: domain.RoleStudent})
	ok, err := env.wallet.Debit(ctx, alice, 40, "Snacks", "")
	require.NoError(t, err)
	require.True(t, ok)

	bob := newSession(domain.User{ID: "bob", Role: domain.RoleProvider})
	w, err := env.wallet.Initialize(ctx, bob)
	require.NoError(t, err)
	require.Equal(t, "bob", w.UserID)
	require.Equal(t, int64(85), w.Balance)
	require.Len(t, w.Transactions, 1)
}

func TestZeroSeedHasNoWelcomeCredit(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), WalletSeeds{Student: 0})
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})

	w, err := env.wallet.Initialize(context.Background(), sess)
	require.NoError(t, err)
	require.Zero(t, w.Balance)
	require.Empty(t, w.Transactions)
}

func TestDebitRejectsOverdraftWithoutMutation(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), WalletSeeds{Student: 50, WelcomeDescription: "Welcome bonus"})
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()

	_, err := env.wallet.Initialize(ctx, sess)
	require.NoError(t, err)

	ok, err := env.wallet.Debit(ctx, sess, 30, "Lunch", "")
	require.NoError(t, err)
	require.True(t, ok)

	w := sess.Wallet()
	require.Equal(t, int64(20), w.Balance)
	require.Equal(t, domain.TxDebit, w.Transactions[0].Type)
	require.Equal(t, int64(-30), w.Transactions[0].Amount)

	ok, err = env.wallet.Debit(ctx, sess, 25, "Dinner", "")
	require.NoError(t, err)
	require.False(t, ok)

	stored := env.storedWallet(t)
	require.Equal(t, int64(20), stored.Balance)
	require.Len(t, stored.Transactions, 2)
	requireBalanced(t, stored)
}

func TestDebitAllowsExactBalance(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), WalletSeeds{Student: 12})
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})

	ok, err := env.wallet.Debit(context.Background(), sess, 12, "Thali", "order-1")
	require.NoError(t, err)
	require.True(t, ok)

	w := env.storedWallet(t)
	require.Zero(t, w.Balance)
	require.Equal(t, "order-1", w.Transactions[0].OrderID)
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()

	_, err := env.wallet.Debit(ctx, sess, 0, "x", "")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	err = env.wallet.Credit(ctx, sess, -5, "x")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.wallet.Transfer(ctx, sess, "user-2", "Ravi", 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.wallet.Transfer(ctx, sess, "", "Ravi", 5)
	require.ErrorIs(t, err, domain.ErrInvalidRecipient)
}

func TestCreditRejectsBalanceOverflow(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()

	_, err := env.wallet.Initialize(ctx, sess)
	require.NoError(t, err)

	err = env.wallet.Credit(ctx, sess, math.MaxInt64, "Top-up")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	w := env.storedWallet(t)
	require.Equal(t, int64(100), w.Balance)
	require.Len(t, w.Transactions, 1)
	require.Equal(t, int64(100), sess.Wallet().Balance)

	require.NoError(t, env.wallet.Credit(ctx, sess, math.MaxInt64-100, "Top-up"))
	require.Equal(t, int64(math.MaxInt64), env.storedWallet(t).Balance)
	requireBalanced(t, env.storedWallet(t))
}

func TestTransferRecordsSenderSide(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), WalletSeeds{Student: 10})
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})

	ok, err := env.wallet.Transfer(context.Background(), sess, "user-2", "Ravi", 10)
	require.NoError(t, err)
	require.True(t, ok)

	w := env.storedWallet(t)
	require.Zero(t, w.Balance)

	sent := w.Transactions[0]
	assert.Equal(t, domain.TxTransferSent, sent.Type)
	assert.Equal(t, int64(-10), sent.Amount)
	assert.Equal(t, "Transferred to Ravi", sent.Description)
	assert.Equal(t, "user-2", sent.RelatedUserID)
	assert.Equal(t, "Ravi", sent.RelatedUserName)

	ok, err = env.wallet.Transfer(context.Background(), sess, "user-2", "Ravi", 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTransactionsFilterByType(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()

	require.NoError(t, env.wallet.Credit(ctx, sess, 5, "Top-up"))
	_, err := env.wallet.Debit(ctx, sess, 3, "Tea", "")
	require.NoError(t, err)

	all, err := env.wallet.Transactions(ctx, sess, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Tea", all[0].Description)

	credits, err := env.wallet.Transactions(ctx, sess, domain.TxCredit)
	require.NoError(t, err)
	require.Len(t, credits, 2)
}

func TestLedgerKeepsBalanceEqualToTransactionSum(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	_, err := env.wallet.Initialize(ctx, sess)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		amount := int64(rng.Intn(40) + 1)
		switch rng.Intn(3) {
		case 0:
			_, err = env.wallet.Debit(ctx, sess, amount, "Meal", "")
		case 1:
			err = env.wallet.Credit(ctx, sess, amount, "Top-up")
		default:
			_, err = env.wallet.Transfer(ctx, sess, "user-2", "Ravi", amount)
		}
		require.NoError(t, err)
		requireBalanced(t, env.storedWallet(t))
	}
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()

	var wg sync.WaitGroup
	var succeeded int32
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := env.wallet.Debit(ctx, sess, 10, "Meal", "")
			assert.NoError(t, err)
			if ok {
				atomic.AddInt32(&succeeded, 1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(10), succeeded)
	w := env.storedWallet(t)
	require.Zero(t, w.Balance)
	require.Len(t, w.Transactions, 11)
	requireBalanced(t, w)
}

func TestDebitStorageFailureLeavesRecordUnchanged(t *testing.T) {
	store := newFlakyStore()
	env := newTestEnv(t, store, DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	ctx := context.Background()

	_, err := env.wallet.Initialize(ctx, sess)
	require.NoError(t, err)

	store.failWrites(repositories.KeyWallet, true)
	ok, err := env.wallet.Debit(ctx, sess, 10, "Meal", "")
	require.ErrorIs(t, err, errStoreDown)
	require.False(t, ok)

	w := env.storedWallet(t)
	require.Equal(t, int64(100), w.Balance)
	require.Len(t, w.Transactions, 1)
}

func TestDisposedSessionIsRejected(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	sess := newSession(domain.User{ID: "user-1", Role: domain.RoleStudent})
	sess.dispose()

	_, err := env.wallet.Debit(context.Background(), sess, 1, "x", "")
	require.ErrorIs(t, err, domain.ErrSessionClosed)

	_, err = env.wallet.Initialize(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoActiveSession)
}
