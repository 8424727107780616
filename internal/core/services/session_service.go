package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"

	"github.com/google/uuid"
)

// SessionService establishes who is acting on the device
type SessionService struct {
	userRepo repositories.UserRepository
	wallet   *WalletService
	orders   *OrderService
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	userRepo repositories.UserRepository,
	wallet *WalletService,
	orders *OrderService,
) *SessionService {
	return &SessionService{
		userRepo: userRepo,
		wallet:   wallet,
		orders:   orders,
		now:      time.Now,
	}
}

// LoginInput represents login input
type LoginInput struct {
	ID    string      `json:"id" validate:"omitempty,max=64"`
	Name  string      `json:"name" validate:"required,max=100"`
	Email string      `json:"email" validate:"required,email"`
	Role  domain.Role `json:"role" validate:"required,oneof=student mess-owner provider"`
	Phone string      `json:"phone" validate:"omitempty,max=20"`
}

// Login persists the user and role, loads (or seeds) the wallet and the
// visible orders, and returns the new session handle
func (s *SessionService) Login(ctx context.Context, input *LoginInput) (*Session, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	id := input.ID
	if id == "" {
		id = "user-" + uuid.NewString()
	}
	user := domain.User{
		ID:    id,
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
		Phone: input.Phone,
	}

	if err := s.userRepo.SaveUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := s.userRepo.SaveRole(ctx, user.Role); err != nil {
		return nil, fmt.Errorf("failed to save role: %w", err)
	}

	sess := newSession(user)
	if err := s.bootstrap(ctx, sess); err != nil {
		return nil, err
	}

	log.Printf("✅ Logged in [user=%s role=%s]", user.ID, user.Role)
	return sess, nil
}

// Restore rebuilds the session from the persisted user and role records
func (s *SessionService) Restore(ctx context.Context) (*Session, error) {
	user, err := s.userRepo.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNoActiveSession
	}

	role, err := s.userRepo.GetRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load role: %w", err)
	}
	if role.Valid() {
		user.Role = role
	}
	if !user.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	sess := newSession(*user)
	if err := s.bootstrap(ctx, sess); err != nil {
		return nil, err
	}

	log.Printf("✅ Session restored [user=%s role=%s]", user.ID, user.Role)
	return sess, nil
}

// Logout clears the persisted identity and disposes the session
func (s *SessionService) Logout(ctx context.Context, sess *Session) error {
	if err := sess.check(); err != nil {
		return err
	}

	if err := s.userRepo.ClearUser(ctx); err != nil {
		return fmt.Errorf("failed to clear user: %w", err)
	}
	if err := s.userRepo.ClearRole(ctx); err != nil {
		return fmt.Errorf("failed to clear role: %w", err)
	}

	log.Printf("✅ Logged out [user=%s]", sess.UserID())
	sess.dispose()
	return nil
}

// SetRole changes the role of the session user and rescopes the visible orders
func (s *SessionService) SetRole(ctx context.Context, sess *Session, role domain.Role) (*domain.User, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, role)
	}

	user := sess.User()
	user.Role = role
	if err := s.userRepo.SaveUser(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if err := s.userRepo.SaveRole(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to save role: %w", err)
	}
	sess.setRole(role)

	if _, err := s.orders.Refresh(ctx, sess); err != nil {
		return nil, err
	}

	log.Printf("✅ Role changed [user=%s role=%s]", user.ID, role)
	return &user, nil
}

// Reset removes user, wallet, orders and role from the device and disposes the session.
// sess may be nil when nobody is logged in.
func (s *SessionService) Reset(ctx context.Context, sess *Session) error {
	if err := s.userRepo.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear device data: %w", err)
	}

	sess.dispose()
	log.Println("🛑 Device data cleared")
	return nil
}

// bootstrap loads the wallet and orders for a fresh session
func (s *SessionService) bootstrap(ctx context.Context, sess *Session) error {
	if _, err := s.wallet.Initialize(ctx, sess); err != nil {
		return err
	}

	user := sess.User()
	if user.Role == domain.RoleMessOwner {
		seeded, err := s.orders.seedIfEmpty(ctx, demoOrders(user.ID, "mess-"+user.ID, s.now()))
		if err != nil {
			return err
		}
		if seeded {
			log.Printf("🌱 Demo orders created [user=%s]", user.ID)
		}
	}

	_, err := s.orders.Refresh(ctx, sess)
	return err
}

// demoOrders returns the sample orders a new mess owner starts with
func demoOrders(userID, messID string, now time.Time) []domain.Order {
	samples := []struct {
		id        string
		items     []domain.OrderItem
		status    domain.OrderStatus
		orderType domain.OrderType
		delivery  bool
		age       time.Duration
	}{
		{
			id: "order-demo-1",
			items: []domain.OrderItem{
				{Name: "Paneer Butter Masala", Quantity: 2, TokensPerItem: 4},
				{Name: "Roti", Quantity: 4, TokensPerItem: 1},
			},
			status:    domain.StatusPreparing,
			orderType: domain.OrderTypeNormal,
			age:       30 * time.Minute,
		},
		{
			id: "order-demo-2",
			items: []domain.OrderItem{
				{Name: "Dal Tadka", Quantity: 1, TokensPerItem: 3},
				{Name: "Rice", Quantity: 1, TokensPerItem: 2},
			},
			status:    domain.StatusConfirmed,
			orderType: domain.OrderTypePacked,
			delivery:  true,
			age:       time.Hour,
		},
		{
			id: "order-demo-3",
			items: []domain.OrderItem{
				{Name: "Chicken Biryani", Quantity: 1, TokensPerItem: 6},
			},
			status:    domain.StatusReady,
			orderType: domain.OrderTypeNormal,
			age:       15 * time.Minute,
		},
	}

	orders := make([]domain.Order, 0, len(samples))
	for i, sample := range samples {
		items := make([]domain.OrderItem, len(sample.items))
		for j, item := range sample.items {
			item.MenuItemID = fmt.Sprintf("menu-%d", i)
			items[j] = item
		}
		total, _ := domain.TotalOf(items)
		orders = append(orders, domain.Order{
			ID:                fmt.Sprintf("%s-%s", sample.id, userID),
			UserID:            fmt.Sprintf("student-%s-%d", userID, i),
			MessID:            messID,
			MessName:          "My Mess",
			Items:             items,
			TotalTokens:       total,
			Status:            sample.status,
			OrderType:         sample.orderType,
			DeliveryRequested: sample.delivery,
			CreatedAt:         now.Add(-sample.age),
		})
	}
	return orders
}
