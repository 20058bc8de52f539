package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, 10*time.Minute, "session:"), mr
}

func TestRedisStore_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	id, err := store.Create(ctx, 7)
	require.NoError(t, err)

	stored, err := mr.Get("session:" + id)
	require.NoError(t, err)
	assert.Equal(t, "7", stored)
	assert.Equal(t, 10*time.Minute, mr.TTL("session:"+id))

	userID, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(7), userID)

	require.NoError(t, store.Delete(ctx, id))
	assert.False(t, mr.Exists("session:"+id))

	_, ok, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)

	id, err := store.Create(ctx, 3)
	require.NoError(t, err)

	mr.FastForward(11 * time.Minute)

	_, ok, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)
	require.NoError(t, mr.Set("session:broken", "not-a-number"))

	_, ok, err := store.Get(ctx, "broken")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Unreachable(t *testing.T) {
	ctx := context.Background()
	store, mr := setupRedisStore(t)
	mr.Close()

	_, err := store.Create(ctx, 1)
	assert.Error(t, err)
	_, _, err = store.Get(ctx, "any")
	assert.Error(t, err)
}
