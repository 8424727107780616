package config

import (
	"fmt"
	"log"

	"messpay/internal/adapters/persistence/models"
	"messpay/internal/adapters/persistence/repositories"
)

// OpenStore connects the configured key-value backend and returns it.
// The database backend is migrated before it is returned.
func OpenStore(cfg *Config) (repositories.Store, error) {
	switch cfg.Store.Driver {
	case StoreMemory:
		log.Println("⚠️ Using in-memory store, data will not survive a restart")
		return repositories.NewMemoryStore(), nil

	case StoreRedis:
		rdb, err := ConnectRedis(cfg)
		if err != nil {
			return nil, err
		}
		return repositories.NewRedisStore(rdb, cfg.Store.KeyPrefix), nil

	default:
		db, err := ConnectDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Println("✅ Database migrated")
		return repositories.NewDatabaseStore(db), nil
	}
}

// CloseStore releases whichever backend OpenStore connected
func CloseStore() error {
	if err := CloseRedis(); err != nil {
		return err
	}
	return CloseDatabase()
}
