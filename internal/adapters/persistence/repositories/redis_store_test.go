package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreNamespacesKeys(t *testing.T) {
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "messpay:").(*redisStore)
	require.Equal(t, "messpay:wallet", store.key(KeyWallet))
}

func TestRedisStorePropagatesConnectionErrors(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })
	store := NewRedisStore(rdb, "messpay:")
	ctx := context.Background()

	_, err := store.Get(ctx, KeyWallet)
	require.Error(t, err)
	require.Error(t, store.Set(ctx, KeyWallet, []byte(`{}`)))

	// nothing to delete never reaches the server
	require.NoError(t, store.RemoveAll(ctx, nil))
}
