package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis is the global redis client, nil unless STORE_DRIVER=redis
var Redis *redis.Client

// ConnectRedis establishes connection to the redis store backend
func ConnectRedis(cfg *Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Store.RedisAddr,
		Password: cfg.Store.RedisPassword,
		DB:       cfg.Store.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	Redis = rdb

	log.Printf("✅ Redis connected successfully [%s/%d]", cfg.Store.RedisAddr, cfg.Store.RedisDB)
	return rdb, nil
}

// CloseRedis closes the redis connection
func CloseRedis() error {
	if Redis == nil {
		return nil
	}
	return Redis.Close()
}

// RedisHealthCheck checks if redis is healthy
func RedisHealthCheck() error {
	if Redis == nil {
		return fmt.Errorf("redis not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return Redis.Ping(ctx).Err()
}
