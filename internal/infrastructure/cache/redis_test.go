package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ricemill/backend/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache, err := NewRedisCache("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestNewRedisCache(t *testing.T) {
	t.Run("rejects malformed urls", func(t *testing.T) {
		_, err := NewRedisCache("not-a-url")
		assert.Error(t, err)
	})

	t.Run("fails when the server is unreachable", func(t *testing.T) {
		_, err := NewRedisCache("redis://127.0.0.1:1")
		assert.Error(t, err)
	})
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	value := map[string]interface{}{
		"timeframe":      "month",
		"confidenceTier": "HIGH",
	}
	require.NoError(t, cache.Set(ctx, "forecast:month", value, time.Minute))

	got, err := cache.Get(ctx, "forecast:month")
	require.NoError(t, err)

	// JSON storage means structured values come back as generic maps.
	m, ok := got.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "month", m["timeframe"])
	assert.Equal(t, "HIGH", m["confidenceTier"])
}

func TestRedisCacheMiss(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, err := cache.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheExpiry(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "forecast:week", "v", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "forecast:week")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheDelete(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", 0))

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "k"))

	exists, err = cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}
