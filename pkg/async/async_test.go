package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/async"
)

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order", func(t *testing.T) {
		t.Parallel()

		got, err := async.Map(context.Background(), []int{3, 1, 2}, func(_ context.Context, n int) (int, error) {
			time.Sleep(time.Duration(n) * time.Millisecond)
			return n * 10, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{30, 10, 20}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		got, err := async.Map(context.Background(), nil, func(context.Context, string) (int, error) {
			t.Fatal("fn must not be called")
			return 0, nil
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("error cancels the rest", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("redis down")
		got, err := async.Map(context.Background(), []string{"default", "priority"}, func(ctx context.Context, name string) (int64, error) {
			if name == "default" {
				return 0, boom
			}
			<-ctx.Done()
			return 0, ctx.Err()
		})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int32
		_, err := async.Map(ctx, []int{1, 2, 3}, func(context.Context, int) (int, error) {
			calls.Add(1)
			return 0, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, calls.Load())
	})
}

func TestMapLimit(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	got, err := async.MapLimit(context.Background(), 3, items, func(_ context.Context, n int) (int, error) {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		return n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}
