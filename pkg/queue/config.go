package queue

import "time"

// Config holds the configuration for the task queue
type Config struct {
	PollInterval       time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
	LockTimeout        time.Duration `env:"QUEUE_LOCK_TIMEOUT" envDefault:"5m"`
	MaxConcurrentTasks int           `env:"QUEUE_MAX_CONCURRENT_TASKS" envDefault:"10"`
	MaxAttempts        int           `env:"QUEUE_MAX_ATTEMPTS" envDefault:"3"`
	BackoffBase        time.Duration `env:"QUEUE_BACKOFF_BASE" envDefault:"1s"`
	BackoffMax         time.Duration `env:"QUEUE_BACKOFF_MAX" envDefault:"10m"`
	RateLimit          float64       `env:"QUEUE_RATE_LIMIT" envDefault:"0"` // tasks per second, 0 disables throttling
}

// RetryPolicy returns the default queue policy described by the config.
func (c Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.MaxAttempts,
		Backoff:     ExponentialBackoff{Base: c.BackoffBase, Max: c.BackoffMax},
	}
}
