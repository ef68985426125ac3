// Package redis connects to the Redis server backing the task queue.
//
// It wraps github.com/redis/go-redis/v9 with:
//
//   - Connect, which parses a redis:// URL and retries the initial ping;
//   - HealthCheck, a probe usable by the operator API and readiness checks.
//
// Config is populated from REDIS_* environment variables via pkg/config.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store := redisstore.New(client, redisstore.WithKeyPrefix(cfg.KeyPrefix))
//
// # Errors
//
// ErrInvalidURL, ErrNotReady and ErrUnhealthy are joined with the underlying
// go-redis error. ErrMissingURL is returned alone.
package redis
