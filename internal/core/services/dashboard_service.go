package services

import (
	"context"
	"time"

	"messpay/internal/core/domain"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	orders *OrderService
	now    func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(orders *OrderService) *DashboardService {
	return &DashboardService{orders: orders, now: time.Now}
}

// OwnerStats represents the mess owner dashboard figures
type OwnerStats struct {
	TodayOrders  int64 `json:"todayOrders"`
	ActiveOrders int64 `json:"activeOrders"`
	TokensEarned int64 `json:"tokensEarned"`
	TotalOrders  int64 `json:"totalOrders"`
	TotalRevenue int64 `json:"totalRevenue"`
}

// OwnerStats returns owner dashboard figures over the orders visible to the session
func (s *DashboardService) OwnerStats(ctx context.Context, sess *Session) (*OwnerStats, error) {
	orders, err := s.orders.Refresh(ctx, sess)
	if err != nil {
		return nil, err
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &OwnerStats{TotalOrders: int64(len(orders))}
	for _, o := range orders {
		if !o.CreatedAt.Before(startOfDay) {
			stats.TodayOrders++
		}
		if !o.Status.IsTerminal() {
			stats.ActiveOrders++
		}
		if o.Status == domain.StatusDelivered {
			stats.TokensEarned += o.TotalTokens
		}
		if o.Status != domain.StatusCancelled {
			stats.TotalRevenue += o.TotalTokens
		}
	}
	return stats, nil
}
