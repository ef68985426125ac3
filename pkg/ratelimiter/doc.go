// Package ratelimiter implements token bucket rate limiting for HTTP endpoints.
//
// A Bucket consumes tokens from a Store. MemoryStore keeps buckets in process
// and evicts idle ones; RedisStore shares buckets between operator API
// instances through an atomic Lua script. Middleware applies a RateLimiter to every request,
// keyed by a KeyFunc such as ByClientIP:
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       20,
//		RefillRate:     5,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP, log)).Post("/notifications", enqueue)
//
// Rejected requests get 429 with a JSON error body and a Retry-After header.
package ratelimiter
