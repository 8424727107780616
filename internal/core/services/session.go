package services

import (
	"sync"

	"messpay/internal/core/domain"
)

// Session is the handle of the user acting on this device.
// It is created by SessionService.Login or Restore, passed into every
// ledger and order call, and disposed by Logout or Reset.
// The wallet and order fields are caches of the persisted records.
type Session struct {
	mu       sync.RWMutex
	user     domain.User
	wallet   *domain.Wallet
	orders   []domain.Order
	disposed bool
}

func newSession(user domain.User) *Session {
	return &Session{user: user, orders: []domain.Order{}}
}

// check returns an error when the handle can no longer be used
func (s *Session) check() error {
	if s == nil {
		return domain.ErrNoActiveSession
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.disposed {
		return domain.ErrSessionClosed
	}
	return nil
}

// User returns the acting user
func (s *Session) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UserID returns the acting user's id
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.ID
}

// Role returns the acting user's role
func (s *Session) Role() domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Role
}

// Disposed reports whether the session was logged out or reset
func (s *Session) Disposed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disposed
}

// Wallet returns a copy of the cached wallet, nil before initialization
func (s *Session) Wallet() *domain.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet.Clone()
}

// Orders returns a copy of the cached, role-scoped order list
func (s *Session) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Session) setWallet(w *domain.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.wallet = w.Clone()
}

func (s *Session) setOrders(orders []domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.orders = make([]domain.Order, len(orders))
	copy(s.orders, orders)
}

func (s *Session) setRole(role domain.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Role = role
}

// dispose drops every cache; later calls with this handle fail with ErrSessionClosed
func (s *Session) dispose() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	s.wallet = nil
	s.orders = nil
}

// ActiveSession holds the single session of the device for the HTTP layer
type ActiveSession struct {
	mu      sync.RWMutex
	current *Session
}

// NewActiveSession creates an empty holder
func NewActiveSession() *ActiveSession {
	return &ActiveSession{}
}

// Get returns the current session or ErrNoActiveSession
func (a *ActiveSession) Get() (*Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.current == nil || a.current.Disposed() {
		return nil, domain.ErrNoActiveSession
	}
	return a.current, nil
}

// Set replaces the current session; the previous one is disposed
func (a *ActiveSession) Set(s *Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil && a.current != s {
		a.current.dispose()
	}
	a.current = s
}

// Clear forgets the current session
func (a *ActiveSession) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = nil
}
