package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     int
	lastRefill time.Time
	touched    time.Time
}

// refill adds RefillRate tokens per whole RefillInterval since lastRefill,
// capped at Capacity. The interval count is bounded so huge gaps cannot
// overflow. RedisStore's script performs the same arithmetic.
func (b *bucketState) refill(now time.Time, cfg Config) {
	limit := int64(cfg.Capacity/cfg.RefillRate + 1)
	n := min(int64(now.Sub(b.lastRefill)/cfg.RefillInterval), limit)
	if n <= 0 {
		return
	}
	b.tokens = min(b.tokens+int(n)*cfg.RefillRate, cfg.Capacity)
	b.lastRefill = now
}

// MemoryStore keeps buckets in process memory. Buckets untouched for longer
// than the stale period are evicted in the background.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState

	sweepEvery time.Duration
	staleAfter time.Duration
	stop       context.CancelFunc
}

type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often stale buckets are swept, 5m by default.
// Zero disables the sweeper.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) { s.sweepEvery = d }
}

// WithStaleAfter sets the idle period after which a bucket is evicted, 1h by default.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets:    make(map[string]*bucketState),
		sweepEvery: 5 * time.Minute,
		staleAfter: time.Hour,
		stop:       func() {},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.sweepEvery > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		s.stop = cancel
		go s.sweepLoop(ctx)
	}
	return s
}

// ConsumeTokens implements Store. A new key starts with a full bucket.
func (s *MemoryStore) ConsumeTokens(_ context.Context, key string, tokens int, cfg Config) (int, time.Time, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, lastRefill: now}
		s.buckets[key] = b
	}
	b.refill(now, cfg)
	b.tokens -= tokens
	b.touched = now

	return b.tokens, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.buckets, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. It is safe to call more than once.
func (s *MemoryStore) Close() { s.stop() }

func (s *MemoryStore) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, b := range s.buckets {
		if now.Sub(b.touched) > s.staleAfter {
			delete(s.buckets, key)
		}
	}
}
