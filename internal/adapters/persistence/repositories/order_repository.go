package repositories

import (
	"context"

	"messpay/internal/core/domain"
)

// orderRepository implements OrderRepository interface
type orderRepository struct {
	store Store
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(store Store) OrderRepository {
	return &orderRepository{store: store}
}

// List gets every order on the device, newest first
func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	if _, err := getJSON(ctx, r.store, KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveAll replaces the whole order list
func (r *orderRepository) SaveAll(ctx context.Context, orders []domain.Order) error {
	if orders == nil {
		orders = []domain.Order{}
	}
	return setJSON(ctx, r.store, KeyOrders, orders)
}

// Add prepends order to the list
func (r *orderRepository) Add(ctx context.Context, order *domain.Order) error {
	orders, err := r.List(ctx)
	if err != nil {
		return err
	}
	orders = append([]domain.Order{*order}, orders...)
	return r.SaveAll(ctx, orders)
}
