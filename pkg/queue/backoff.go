package queue

import (
	"math"
	"time"
)

// Backoff computes the delay before the next attempt.
// Implementations are stateless and safe for concurrent use.
type Backoff interface {
	// Delay returns how long to wait after failed attempt n (1-indexed).
	Delay(attempt int) time.Duration
}

// ConstantBackoff waits the same interval after every failure.
type ConstantBackoff struct {
	Interval time.Duration
}

// Delay returns the fixed interval.
func (c ConstantBackoff) Delay(_ int) time.Duration {
	return c.Interval
}

// ExponentialBackoff doubles the delay after every failure.
// Delay = min(Base * 2^(attempt-1), Max). A zero Max disables the cap.
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns Base * 2^(attempt-1), capped at Max.
func (e ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := time.Duration(math.MaxInt64)
	if d := float64(e.Base) * math.Pow(2, float64(attempt-1)); d < math.MaxInt64 {
		delay = time.Duration(d)
	}
	if e.Max > 0 && delay > e.Max {
		return e.Max
	}
	return delay
}

// RetryPolicy is the default job policy of a queue.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     Backoff
}

// DefaultRetryPolicy returns 3 attempts with exponential backoff from one second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     ExponentialBackoff{Base: time.Second, Max: 10 * time.Minute},
	}
}
