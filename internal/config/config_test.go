package config

import (
	"context"
	"path/filepath"
	"testing"

	"messpay/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_MODE", "PORT", "DB_DRIVER", "SQLITE_PATH", "STORE_DRIVER", "REDIS_ADDR", "REDIS_DB",
		"STORE_KEY_PREFIX", "WALLET_SEED_STUDENT", "WALLET_SEED_MESS_OWNER", "WALLET_SEED_PROVIDER",
		"WALLET_WELCOME_DESCRIPTION", "RECHARGE_ENABLED", "RECHARGE_SCHEDULE", "RECHARGE_AMOUNT",
		"ORDER_STRICT_TRANSITIONS", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Same(t, cfg, AppConfig)

	assert.Equal(t, "dev", cfg.AppMode)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "messpay.db", cfg.Database.Path)
	assert.Equal(t, StoreDatabase, cfg.Store.Driver)
	assert.Equal(t, "messpay:", cfg.Store.KeyPrefix)
	assert.Equal(t, WalletConfig{
		SeedStudent:        100,
		SeedMessOwner:      50,
		SeedProvider:       85,
		WelcomeDescription: "Welcome bonus",
	}, cfg.Wallet)
	assert.True(t, cfg.Recharge.Enabled)
	assert.Equal(t, "@monthly", cfg.Recharge.Schedule)
	assert.Equal(t, int64(50), cfg.Recharge.Amount)
	assert.True(t, cfg.Order.StrictTransitions)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "prod")
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("WALLET_SEED_STUDENT", "40")
	t.Setenv("RECHARGE_ENABLED", "false")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "false")
	t.Setenv("PROD_DB_NAME", "messpay_prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "messpay_prod", cfg.Database.DBName)
	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.Store.RedisDB)
	assert.Equal(t, int64(40), cfg.Wallet.SeedStudent)
	assert.False(t, cfg.Recharge.Enabled)
	assert.False(t, cfg.Order.StrictTransitions)
	assert.Equal(t, "http://localhost", cfg.GetAllowedOrigins())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_MODE", "staging"},
		{"DB_DRIVER", "postgres"},
		{"STORE_DRIVER", "etcd"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.ErrorContains(t, err, tt.key)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{User: "root", Password: "pw", Host: "db", Port: "3306", DBName: "messpay"})
	require.Equal(t, "root:pw@tcp(db:3306)/messpay?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestOpenStoreSQLite(t *testing.T) {
	cfg := &Config{
		AppMode: "prod",
		Store:   StoreConfig{Driver: StoreDatabase},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "messpay.db"),
		},
	}
	AppConfig = cfg
	t.Cleanup(func() {
		require.NoError(t, CloseStore())
		DB = nil
		AppConfig = nil
	})

	store, err := OpenStore(cfg)
	require.NoError(t, err)
	require.NoError(t, HealthCheck())

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, repositories.KeyRole, []byte("student")))
	v, err := store.Get(ctx, repositories.KeyRole)
	require.NoError(t, err)
	require.Equal(t, "student", string(v))
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Driver: StoreMemory}}
	AppConfig = cfg
	t.Cleanup(func() { AppConfig = nil })

	store, err := OpenStore(cfg)
	require.NoError(t, err)
	require.NotNil(t, store)
	require.NoError(t, HealthCheck())
}

func TestSeederIsIdempotent(t *testing.T) {
	catalog := repositories.NewCatalogRepository(repositories.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, NewSeeder(catalog).Run(ctx))
	require.NoError(t, NewSeeder(catalog).Run(ctx))

	messes, err := catalog.ListMesses(ctx)
	require.NoError(t, err)
	require.Len(t, messes, len(DefaultMesses()))

	items, err := catalog.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(DefaultMenuItems()))

	// every item belongs to a seeded mess
	ids := map[string]bool{}
	for _, m := range messes {
		ids[m.ID] = true
	}
	for _, item := range items {
		require.True(t, ids[item.MessID], item.ID)
		require.Positive(t, item.Price, item.ID)
	}
}
