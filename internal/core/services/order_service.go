package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"
	"messpay/internal/pkg/metrics"

	"github.com/google/uuid"
)

// OrderService couples order creation to the wallet debit and drives the status lifecycle
type OrderService struct {
	orderRepo   repositories.OrderRepository
	catalogRepo repositories.CatalogRepository
	wallet      *WalletService
	strict      bool
	// guards read-modify-write of the orders record
	mu  sync.Mutex
	now func() time.Time
}

// NewOrderService creates a new order service.
// With strict set, status updates must follow the order lifecycle.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	catalogRepo repositories.CatalogRepository,
	wallet *WalletService,
	strict bool,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		catalogRepo: catalogRepo,
		wallet:      wallet,
		strict:      strict,
		now:         time.Now,
	}
}

// PlaceOrderInput represents an order placement request
type PlaceOrderInput struct {
	MessID            string             `json:"messId" validate:"required,max=64"`
	MessName          string             `json:"messName" validate:"required,max=100"`
	Items             []domain.OrderItem `json:"items"`
	OrderType         domain.OrderType   `json:"orderType" validate:"omitempty,oneof=normal packed"`
	DeliveryRequested bool               `json:"deliveryRequested"`
	DeliveryAddress   string             `json:"deliveryAddress" validate:"max=200"`
}

// CartSelection is one catalog item picked by the student
type CartSelection struct {
	MenuItemID    string                    `json:"menuItemId" validate:"required"`
	Quantity      int                       `json:"quantity" validate:"min=1"`
	Customization *domain.MealCustomization `json:"customization,omitempty"`
}

// PlaceOrder debits the order total and, only if the debit succeeds, persists a
// pending order. Every failure is a *domain.OrderRejectedError except invalid input
// and session errors. If the order write fails after the debit, the tokens are
// credited back before returning.
func (s *OrderService) PlaceOrder(ctx context.Context, sess *Session, input *PlaceOrderInput) (*domain.Order, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	if len(input.Items) == 0 {
		return nil, s.reject(domain.RejectEmptyCart, domain.ErrEmptyCart)
	}
	for _, item := range input.Items {
		if err := checkItem(item); err != nil {
			return nil, s.reject(domain.RejectInvalidItem, err)
		}
	}

	orderType := input.OrderType
	if orderType == "" {
		orderType = domain.OrderTypeNormal
	}

	items := make([]domain.OrderItem, len(input.Items))
	copy(items, input.Items)
	total, err := domain.TotalOf(items)
	if err != nil {
		return nil, s.reject(domain.RejectInvalidItem, err)
	}

	order := &domain.Order{
		ID:                "order-" + uuid.NewString(),
		UserID:            sess.UserID(),
		MessID:            input.MessID,
		MessName:          input.MessName,
		Items:             items,
		TotalTokens:       total,
		Status:            domain.StatusPending,
		OrderType:         orderType,
		DeliveryRequested: input.DeliveryRequested,
		DeliveryAddress:   input.DeliveryAddress,
	}

	if order.TotalTokens > 0 {
		balance, err := s.wallet.Balance(ctx, sess)
		if err != nil {
			return nil, s.reject(domain.RejectStorageError, err)
		}
		if balance < order.TotalTokens {
			return nil, s.reject(domain.RejectInsufficientBalance, domain.ErrInsufficientBalance)
		}

		ok, err := s.wallet.Debit(ctx, sess, order.TotalTokens, "Order from "+order.MessName, order.ID)
		if err != nil {
			return nil, s.reject(domain.RejectStorageError, err)
		}
		if !ok {
			return nil, s.reject(domain.RejectInsufficientBalance, domain.ErrInsufficientBalance)
		}
	}

	order.CreatedAt = s.now()
	if err := s.addOrder(ctx, order); err != nil {
		return nil, s.reject(domain.RejectStorageError, s.compensate(ctx, sess, order, err))
	}

	if _, err := s.Refresh(ctx, sess); err != nil {
		log.Printf("⚠️ Order %s saved but reload failed: %v", order.ID, err)
	}

	metrics.RecordOrderPlacement("created")
	log.Printf("✅ Order placed [id=%s user=%s mess=%s total=%d]", order.ID, order.UserID, order.MessID, order.TotalTokens)
	return order, nil
}

// ComposeItems builds order items from catalog selections of one mess
func (s *OrderService) ComposeItems(ctx context.Context, messID string, cart []CartSelection) ([]domain.OrderItem, error) {
	if len(cart) == 0 {
		return nil, domain.Reject(domain.RejectEmptyCart, domain.ErrEmptyCart)
	}

	menu, err := s.catalogRepo.ListMenuItemsByMess(ctx, messID)
	if err != nil {
		return nil, domain.Reject(domain.RejectStorageError, err)
	}
	byID := make(map[string]domain.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	items := make([]domain.OrderItem, 0, len(cart))
	for _, sel := range cart {
		if err := validateInput(&sel); err != nil {
			return nil, domain.Reject(domain.RejectInvalidItem, err)
		}
		m, ok := byID[sel.MenuItemID]
		if !ok || !m.Available {
			return nil, domain.Reject(domain.RejectInvalidItem,
				fmt.Errorf("%w: %s is not available at %s", domain.ErrInvalidOrderItem, sel.MenuItemID, messID))
		}
		items = append(items, domain.OrderItem{
			MenuItemID:    m.ID,
			Name:          m.Name,
			Quantity:      sel.Quantity,
			TokensPerItem: m.Price,
			Customization: sel.Customization,
		})
	}
	return items, nil
}

// UpdateOrderStatus sets the status of an order and writes the whole list back.
// completedAt is set only when the new status is delivered.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, sess *Session, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidOrderStatus, status)
	}

	updated, err := s.mutateOrder(ctx, orderID, func(o *domain.Order) (bool, error) {
		if o.Status == status {
			return false, nil
		}
		if s.strict && !o.Status.CanTransitionTo(status) {
			return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, o.Status, status)
		}
		o.Status = status
		if status == domain.StatusDelivered {
			completedAt := s.now()
			o.CompletedAt = &completedAt
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.Refresh(ctx, sess); err != nil {
		log.Printf("⚠️ Order %s updated but reload failed: %v", orderID, err)
	}

	metrics.RecordStatusChange(string(status))
	log.Printf("✅ Order status updated [id=%s status=%s]", orderID, updated.Status)
	return updated, nil
}

// CancelOrder cancels one of the session student's own open orders and refunds its tokens
func (s *OrderService) CancelOrder(ctx context.Context, sess *Session, orderID string) (*domain.Order, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}

	var previous domain.OrderStatus
	cancelled, err := s.mutateOrder(ctx, orderID, func(o *domain.Order) (bool, error) {
		if o.UserID != sess.UserID() {
			return false, domain.ErrOrderNotOwned
		}
		if o.Status.IsTerminal() {
			return false, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, o.Status, domain.StatusCancelled)
		}
		previous = o.Status
		o.Status = domain.StatusCancelled
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if cancelled.TotalTokens > 0 {
		desc := fmt.Sprintf("Refund for cancelled order %s", cancelled.ID)
		if err := s.wallet.refund(ctx, sess, cancelled.TotalTokens, cancelled.ID, desc); err != nil {
			// put the order back so the user can retry
			_, revertErr := s.mutateOrder(ctx, orderID, func(o *domain.Order) (bool, error) {
				o.Status = previous
				return true, nil
			})
			return nil, errors.Join(fmt.Errorf("failed to refund order: %w", err), revertErr)
		}
	}

	if _, err := s.Refresh(ctx, sess); err != nil {
		log.Printf("⚠️ Order %s cancelled but reload failed: %v", orderID, err)
	}

	metrics.RecordStatusChange(string(domain.StatusCancelled))
	log.Printf("✅ Order cancelled [id=%s refund=%d]", orderID, cancelled.TotalTokens)
	return cancelled, nil
}

// Refresh reloads the order list into the session, scoped to the session role
func (s *OrderService) Refresh(ctx context.Context, sess *Session) ([]domain.Order, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}

	all, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	scoped := scopeOrders(all, sess.User())
	sess.setOrders(scoped)
	return scoped, nil
}

// Orders returns the cached orders visible to the session
func (s *OrderService) Orders(sess *Session) ([]domain.Order, error) {
	if err := sess.check(); err != nil {
		return nil, err
	}
	return sess.Orders(), nil
}

// ActiveOrders returns cached orders that are not delivered or cancelled
func (s *OrderService) ActiveOrders(sess *Session) ([]domain.Order, error) {
	return s.filter(sess, func(o domain.Order) bool { return !o.Status.IsTerminal() })
}

// CompletedOrders returns cached delivered or cancelled orders
func (s *OrderService) CompletedOrders(sess *Session) ([]domain.Order, error) {
	return s.filter(sess, func(o domain.Order) bool { return o.Status.IsTerminal() })
}

func (s *OrderService) filter(sess *Session, keep func(domain.Order) bool) ([]domain.Order, error) {
	orders, err := s.Orders(sess)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

// seedIfEmpty writes orders only when the device has none yet
func (s *OrderService) seedIfEmpty(ctx context.Context, orders []domain.Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.orderRepo.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load orders: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := s.orderRepo.SaveAll(ctx, orders); err != nil {
		return false, fmt.Errorf("failed to save orders: %w", err)
	}
	return true, nil
}

func (s *OrderService) addOrder(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderRepo.Add(ctx, order)
}

// mutateOrder applies change to one stored order and writes the list back when change reports a modification
func (s *OrderService) mutateOrder(ctx context.Context, orderID string, change func(o *domain.Order) (bool, error)) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}

	changed, err := change(&orders[idx])
	if err != nil {
		return nil, err
	}
	order := orders[idx]
	if !changed {
		return &order, nil
	}

	if err := s.orderRepo.SaveAll(ctx, orders); err != nil {
		return nil, fmt.Errorf("failed to save orders: %w", err)
	}
	return &order, nil
}

// compensate credits back a debited order whose write failed
func (s *OrderService) compensate(ctx context.Context, sess *Session, order *domain.Order, writeErr error) error {
	writeErr = fmt.Errorf("failed to save order: %w", writeErr)
	if order.TotalTokens == 0 {
		return writeErr
	}

	desc := fmt.Sprintf("Refund for failed order %s", order.ID)
	if err := s.wallet.refund(ctx, sess, order.TotalTokens, order.ID, desc); err != nil {
		metrics.RecordCompensation(false)
		log.Printf("❌ Refund for order %s failed: %v", order.ID, err)
		return errors.Join(writeErr, fmt.Errorf("failed to refund order: %w", err))
	}

	metrics.RecordCompensation(true)
	log.Printf("⚠️ Order %s not saved, %d tokens refunded", order.ID, order.TotalTokens)
	return writeErr
}

func (s *OrderService) reject(reason domain.RejectReason, err error) error {
	metrics.RecordOrderPlacement(string(reason))
	log.Printf("⚠️ Order rejected [reason=%s]: %v", reason, err)
	return domain.Reject(reason, err)
}

func checkItem(item domain.OrderItem) error {
	if item.Quantity < 1 {
		return fmt.Errorf("%w: %q quantity must be at least 1", domain.ErrInvalidOrderItem, item.Name)
	}
	if item.TokensPerItem < 0 {
		return fmt.Errorf("%w: %q tokensPerItem must not be negative", domain.ErrInvalidOrderItem, item.Name)
	}
	if item.Customization != nil {
		if err := validateInput(item.Customization); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidOrderItem, err)
		}
	}
	return nil
}

// scopeOrders returns the orders user may see: students see their own, other roles see all
func scopeOrders(all []domain.Order, user domain.User) []domain.Order {
	if user.Role != domain.RoleStudent {
		return all
	}

	own := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if o.UserID == user.ID {
			own = append(own, o)
		}
	}
	return own
}
