package services

import (
	"context"
	"testing"
	"time"

	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/core/domain"

	"github.com/stretchr/testify/require"
)

func TestOwnerStats(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	noon := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)
	env.sessions.now = func() time.Time { return noon }

	dashboard := NewDashboardService(env.order)
	dashboard.now = func() time.Time { return noon }

	ctx := context.Background()
	owner := env.login(t, "owner-1", domain.RoleMessOwner)

	stats, err := dashboard.OwnerStats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, &OwnerStats{
		TodayOrders:  3,
		ActiveOrders: 3,
		TokensEarned: 0,
		TotalOrders:  3,
		TotalRevenue: 23,
	}, stats)

	_, err = env.order.UpdateOrderStatus(ctx, owner, "order-demo-1-owner-1", domain.StatusDelivered)
	require.NoError(t, err)
	_, err = env.order.UpdateOrderStatus(ctx, owner, "order-demo-2-owner-1", domain.StatusCancelled)
	require.NoError(t, err)

	stats, err = dashboard.OwnerStats(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.ActiveOrders)
	require.Equal(t, int64(12), stats.TokensEarned)
	require.Equal(t, int64(18), stats.TotalRevenue)

	dashboard.now = func() time.Time { return noon.Add(24 * time.Hour) }
	stats, err = dashboard.OwnerStats(ctx, owner)
	require.NoError(t, err)
	require.Zero(t, stats.TodayOrders)
	require.Equal(t, int64(3), stats.TotalOrders)
}

func TestOwnerStatsRequiresSession(t *testing.T) {
	env := newTestEnv(t, repositories.NewMemoryStore(), DefaultWalletSeeds())
	_, err := NewDashboardService(env.order).OwnerStats(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoActiveSession)
}
