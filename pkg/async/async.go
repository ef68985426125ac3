package async

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map runs fn for every item concurrently and returns the results in input
// order. The first failure cancels the context passed to the other calls and
// is returned once all of them have finished.
func Map[T, U any](ctx context.Context, items []T, fn func(context.Context, T) (U, error)) ([]U, error) {
	return MapLimit(ctx, 0, items, fn)
}

// MapLimit is Map with at most limit calls in flight. A limit below 1 means
// no limit.
func MapLimit[T, U any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (U, error)) ([]U, error) {
	results := make([]U, len(items))
	if len(items) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
