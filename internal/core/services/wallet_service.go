package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"
	"messpay/internal/pkg/metrics"

	"github.com/google/uuid"
)

// Ledger operation names used in logs and metrics
const (
	opInitialize = "initialize"
	opDebit      = "debit"
	opCredit     = "credit"
	opRefund     = "refund"
	opTransfer   = "transfer"
)

// WalletSeeds holds the starting balance per role
type WalletSeeds struct {
	Student            int64
	MessOwner          int64
	Provider           int64
	WelcomeDescription string
}

// DefaultWalletSeeds returns the seeds used when nothing is configured
func DefaultWalletSeeds() WalletSeeds {
	return WalletSeeds{
		Student:            100,
		MessOwner:          50,
		Provider:           85,
		WelcomeDescription: "Welcome bonus",
	}
}

// For returns the seed balance of role
func (s WalletSeeds) For(role domain.Role) int64 {
	switch role {
	case domain.RoleStudent:
		return s.Student
	case domain.RoleMessOwner:
		return s.MessOwner
	case domain.RoleProvider:
		return s.Provider
	}
	return 50
}

// WalletService owns the token balance and transaction trail of the session user
type WalletService struct {
	walletRepo repositories.WalletRepository
	seeds      WalletSeeds
	locks      *userLocks
	now        func() time.Time
}

// NewWalletService creates a new wallet service
func NewWalletService(walletRepo repositories.WalletRepository, seeds WalletSeeds) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		seeds:      seeds,
		locks:      newUserLocks(),
		now:        time.Now,
	}
}

// Initialize loads the session user's wallet, creating it with the role seed
// and a single welcome credit when none exists. Calling it again is a plain load.
func (s *WalletService) Initialize(ctx context.Context, sess *Session) (*domain.Wallet, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sess.UserID())
	defer unlock()

	wallet, err := s.loadOrSeed(ctx, sess)
	if err != nil {
		return nil, err
	}
	sess.setWallet(wallet)
	return wallet.Clone(), nil
}

// Refresh reloads the wallet from the store, overwriting the session cache
func (s *WalletService) Refresh(ctx context.Context, sess *Session) (*domain.Wallet, error) {
	return s.Initialize(ctx, sess)
}

// Balance returns the authoritative balance
func (s *WalletService) Balance(ctx context.Context, sess *Session) (int64, error) {
	wallet, err := s.Refresh(ctx, sess)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// Transactions returns the reloaded transaction trail, newest first, optionally filtered by type
func (s *WalletService) Transactions(ctx context.Context, sess *Session, typ domain.TransactionType) ([]domain.TokenTransaction, error) {
	wallet, err := s.Refresh(ctx, sess)
	if err != nil {
		return nil, err
	}
	if typ == "" {
		return wallet.Transactions, nil
	}

	out := make([]domain.TokenTransaction, 0, len(wallet.Transactions))
	for _, tx := range wallet.Transactions {
		if tx.Type == typ {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Debit removes amount tokens. It returns false without mutating anything
// when amount exceeds the balance.
func (s *WalletService) Debit(ctx context.Context, sess *Session, amount int64, description, orderID string) (bool, error) {
	if amount <= 0 {
		return false, domain.ErrInvalidAmount
	}

	return s.apply(ctx, sess, opDebit, amount, func(w *domain.Wallet) (domain.TokenTransaction, bool) {
		if amount > w.Balance {
			return domain.TokenTransaction{}, false
		}
		return s.newTransaction(w.UserID, domain.TxDebit, -amount, description, func(tx *domain.TokenTransaction) {
			tx.OrderID = orderID
		}), true
	})
}

// Credit adds amount tokens
func (s *WalletService) Credit(ctx context.Context, sess *Session, amount int64, description string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	_, err := s.apply(ctx, sess, opCredit, amount, func(w *domain.Wallet) (domain.TokenTransaction, bool) {
		return s.newTransaction(w.UserID, domain.TxCredit, amount, description, nil), true
	})
	return err
}

// refund credits tokens back for an order, keeping the order id on the entry
func (s *WalletService) refund(ctx context.Context, sess *Session, amount int64, orderID, description string) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	_, err := s.apply(ctx, sess, opRefund, amount, func(w *domain.Wallet) (domain.TokenTransaction, bool) {
		return s.newTransaction(w.UserID, domain.TxCredit, amount, description, func(tx *domain.TokenTransaction) {
			tx.OrderID = orderID
		}), true
	})
	return err
}

// Transfer sends amount tokens to another user. Only the sender side is recorded.
// It returns false without mutating anything when amount exceeds the balance.
func (s *WalletService) Transfer(ctx context.Context, sess *Session, toUserID, toUserName string, amount int64) (bool, error) {
	if toUserID == "" || toUserName == "" {
		return false, domain.ErrInvalidRecipient
	}
	if amount <= 0 {
		return false, domain.ErrInvalidAmount
	}

	return s.apply(ctx, sess, opTransfer, amount, func(w *domain.Wallet) (domain.TokenTransaction, bool) {
		if amount > w.Balance {
			return domain.TokenTransaction{}, false
		}
		desc := fmt.Sprintf("Transferred to %s", toUserName)
		return s.newTransaction(w.UserID, domain.TxTransferSent, -amount, desc, func(tx *domain.TokenTransaction) {
			tx.RelatedUserID = toUserID
			tx.RelatedUserName = toUserName
		}), true
	})
}

// apply runs one ledger mutation under the user's lock against a fresh read of the record.
// build returns the entry to append, or false to reject without writing.
func (s *WalletService) apply(
	ctx context.Context,
	sess *Session,
	op string,
	amount int64,
	build func(w *domain.Wallet) (domain.TokenTransaction, bool),
) (bool, error) {
	if err := sess.check(); err != nil {
		return false, err
	}

	unlock := s.locks.lock(sess.UserID())
	defer unlock()

	wallet, err := s.loadOrSeed(ctx, sess)
	if err != nil {
		metrics.RecordLedgerOperation(op, "error", amount)
		return false, err
	}

	tx, ok := build(wallet)
	if !ok {
		metrics.RecordLedgerOperation(op, "rejected", amount)
		log.Printf("⚠️ Ledger %s rejected [user=%s amount=%d balance=%d]", op, wallet.UserID, amount, wallet.Balance)
		sess.setWallet(wallet)
		return false, nil
	}
	if tx.Amount > 0 && wallet.Balance > math.MaxInt64-tx.Amount {
		metrics.RecordLedgerOperation(op, "rejected", amount)
		log.Printf("⚠️ Ledger %s would overflow [user=%s amount=%d balance=%d]", op, wallet.UserID, amount, wallet.Balance)
		sess.setWallet(wallet)
		return false, fmt.Errorf("%w: balance would overflow", domain.ErrInvalidAmount)
	}

	wallet.Balance += tx.Amount
	wallet.Transactions = append([]domain.TokenTransaction{tx}, wallet.Transactions...)

	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		metrics.RecordLedgerOperation(op, "error", amount)
		log.Printf("❌ Ledger %s failed [user=%s amount=%d]: %v", op, wallet.UserID, amount, err)
		return false, fmt.Errorf("failed to save wallet: %w", err)
	}

	sess.setWallet(wallet)
	metrics.RecordLedgerOperation(op, "ok", amount)
	log.Printf("✅ Ledger %s [user=%s amount=%d balance=%d]", op, wallet.UserID, tx.Amount, wallet.Balance)
	return true, nil
}

// loadOrSeed reads the wallet record; a missing record, or one that belongs to
// another user, is replaced by a freshly seeded wallet. Caller holds the user lock.
func (s *WalletService) loadOrSeed(ctx context.Context, sess *Session) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	userID := sess.UserID()
	if wallet != nil && wallet.UserID == userID {
		return wallet, nil
	}

	seed := s.seeds.For(sess.Role())
	wallet = &domain.Wallet{
		UserID:       userID,
		Balance:      seed,
		Transactions: []domain.TokenTransaction{},
	}
	if seed > 0 {
		wallet.Transactions = append(wallet.Transactions,
			s.newTransaction(userID, domain.TxCredit, seed, s.seeds.WelcomeDescription, nil))
	}

	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		metrics.RecordLedgerOperation(opInitialize, "error", seed)
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	metrics.RecordLedgerOperation(opInitialize, "ok", seed)
	log.Printf("🌱 Wallet created [user=%s role=%s balance=%d]", userID, sess.Role(), seed)
	return wallet, nil
}

func (s *WalletService) newTransaction(
	userID string,
	typ domain.TransactionType,
	amount int64,
	description string,
	opts func(tx *domain.TokenTransaction),
) domain.TokenTransaction {
	tx := domain.TokenTransaction{
		ID:          "txn-" + uuid.NewString(),
		UserID:      userID,
		Type:        typ,
		Amount:      amount,
		Description: description,
		Timestamp:   s.now(),
	}
	if opts != nil {
		opts(&tx)
	}
	return tx
}

// userLocks serializes ledger mutations per user id
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the user's mutex and returns its release func
func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
