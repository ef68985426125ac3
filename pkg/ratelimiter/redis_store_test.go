package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/ratelimiter"
)

func newRedisStore(t *testing.T, opts ...ratelimiter.RedisStoreOption) (*ratelimiter.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratelimiter.NewRedisStore(client, opts...), mr
}

func TestRedisStore_ConsumeTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour}

	t.Run("burst then deny", func(t *testing.T) {
		t.Parallel()

		store, mr := newRedisStore(t)
		b, err := ratelimiter.NewBucket(store, cfg)
		require.NoError(t, err)

		for _, want := range []int{1, 0, -1} {
			res, err := b.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.Equal(t, want, res.Remaining)
		}

		res, err := b.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Greater(t, res.RetryAfter(), 59*time.Minute)

		assert.True(t, mr.Exists("ratelimit:10.0.0.1"))
		assert.Greater(t, mr.TTL("ratelimit:10.0.0.1"), time.Duration(0))
	})

	t.Run("keys are independent and prefixed", func(t *testing.T) {
		t.Parallel()

		store, mr := newRedisStore(t, ratelimiter.WithRedisKeyPrefix("operator"))
		b, err := ratelimiter.NewBucket(store, cfg)
		require.NoError(t, err)

		_, _ = b.Allow(ctx, "a")
		_, _ = b.Allow(ctx, "a")
		res, err := b.Allow(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Remaining)
		assert.True(t, mr.Exists("operator:a"))
		assert.True(t, mr.Exists("operator:b"))
	})

	t.Run("refills after the interval", func(t *testing.T) {
		t.Parallel()

		store, _ := newRedisStore(t)
		fast := ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: 20 * time.Millisecond}
		b, err := ratelimiter.NewBucket(store, fast)
		require.NoError(t, err)

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		res, err = b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, res.Allowed())

		time.Sleep(60 * time.Millisecond)
		res, err = b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("reset", func(t *testing.T) {
		t.Parallel()

		store, mr := newRedisStore(t)
		b, err := ratelimiter.NewBucket(store, cfg)
		require.NoError(t, err)

		_, _ = b.Allow(ctx, "k")
		require.NoError(t, b.Reset(ctx, "k"))
		assert.False(t, mr.Exists("ratelimit:k"))

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Remaining)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()

		store, mr := newRedisStore(t)
		mr.SetError("LOADING redis is loading")

		_, _, err := store.ConsumeTokens(ctx, "k", 1, cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
		assert.ErrorIs(t, store.Reset(ctx, "k"), ratelimiter.ErrStoreUnavailable)
	})
}
