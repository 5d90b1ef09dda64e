package presence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Minute), mr
}

func TestRedisStore_TouchAndOnline(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Touch(ctx, 1))
	require.NoError(t, store.Touch(ctx, 3))
	assert.True(t, mr.Exists("presence:user:1"))

	online, err := store.Online(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true, 3: true}, online)

	mr.FastForward(2 * time.Minute)
	online, err = store.Online(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Empty(t, online)
}

func TestRedisStore_EmptyLookup(t *testing.T) {
	store, _ := newTestStore(t)
	online, err := store.Online(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, online)
}

func TestNoopStore(t *testing.T) {
	var s Store = NoopStore{}
	require.NoError(t, s.Touch(context.Background(), 1))
	online, err := s.Online(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.False(t, online[1])
}
