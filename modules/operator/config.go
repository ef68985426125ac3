package operator

import (
	"time"

	"github.com/coachdesk/coachdesk/pkg/ratelimiter"
)

// Config holds operator API settings that are not listener related.
type Config struct {
	EnqueueBurst          int           `env:"OPERATOR_ENQUEUE_BURST" envDefault:"50"`           // EnqueueBurst is the per-client token capacity; 0 disables limiting.
	EnqueueRefill         int           `env:"OPERATOR_ENQUEUE_REFILL" envDefault:"10"`          // EnqueueRefill is the number of tokens restored every interval.
	EnqueueRefillInterval time.Duration `env:"OPERATOR_ENQUEUE_REFILL_INTERVAL" envDefault:"1s"` // EnqueueRefillInterval is the refill period.
	EnqueueLimitStore     string        `env:"OPERATOR_ENQUEUE_LIMIT_STORE" envDefault:"redis"`  // EnqueueLimitStore is "redis" (shared across replicas) or "memory".
	DeadLetterPageSize    int           `env:"OPERATOR_DEAD_LETTER_PAGE_SIZE" envDefault:"50"`   // DeadLetterPageSize is the default limit for listing dead letters.
}

// Enqueue limit stores.
const (
	LimitStoreRedis  = "redis"
	LimitStoreMemory = "memory"
)

// RateLimit returns the enqueue rate limit, or false when limiting is disabled.
func (c Config) RateLimit() (ratelimiter.Config, bool) {
	if c.EnqueueBurst <= 0 {
		return ratelimiter.Config{}, false
	}
	return ratelimiter.Config{
		Capacity:       c.EnqueueBurst,
		RefillRate:     c.EnqueueRefill,
		RefillInterval: c.EnqueueRefillInterval,
	}, true
}
