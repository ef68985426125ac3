// Package async fans work out over goroutines and gathers the results in
// input order.
//
//	stats, err := async.Map(ctx, registry.Names(), func(ctx context.Context, name string) (int64, error) {
//		return store.CountTasks(ctx, name)
//	})
//
// MapLimit bounds the number of calls in flight. Both stop scheduling new
// calls after the first error and cancel the context of running ones.
package async
