package repositories

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// redisStore implements Store on a redis instance; every key is namespaced with prefix
type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore creates a new redis-backed store
func NewRedisStore(rdb *redis.Client, prefix string) Store {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) key(k string) string {
	return s.prefix + k
}

// Get gets the value stored under key
func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set stores value under key without expiry
func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.rdb.Set(ctx, s.key(key), value, 0).Err()
}

// Remove deletes key
func (s *redisStore) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// RemoveAll deletes every key with a single DEL
func (s *redisStore) RemoveAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = s.key(k)
	}
	return s.rdb.Del(ctx, namespaced...).Err()
}
