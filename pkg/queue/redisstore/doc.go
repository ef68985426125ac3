// Package redisstore implements the queue repositories on Redis.
//
// Every task is a Hash. Ready and delayed tasks sit in a per-queue Sorted Set
// scored by the time they may run; claimed tasks move to a second Sorted Set
// scored by their lock expiry. Claiming runs as a single Lua script, so
// competing workers never receive the same task, and tasks whose lock expired
// (their worker crashed) are returned to the ready set on the next claim.
// Dead letters are Hashes indexed by failure time.
//
// All keys share a configurable prefix:
//
//	client, _ := redis.Connect(ctx, cfg)
//	store := redisstore.New(client, redisstore.WithKeyPrefix("coachdesk"))
//
//	enqueuer, _ := queue.NewEnqueuer(store, registry)
//	worker, _ := queue.NewWorker(store, registry)
//
// The caller owns the Redis client lifecycle.
package redisstore
