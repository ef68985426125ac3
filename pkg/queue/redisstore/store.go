package redisstore

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

// Compile-time interface checks.
var (
	_ queue.EnqueuerRepository   = (*Store)(nil)
	_ queue.WorkerRepository     = (*Store)(nil)
	_ queue.DeadLetterRepository = (*Store)(nil)
	_ queue.StatsRepository      = (*Store)(nil)
)

// Option configures the Store.
type Option func(*Store)

// WithKeyPrefix namespaces every key the store writes.
// Several deployments can share one Redis database under different prefixes.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.keys = keys{prefix: prefix}
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store implements the queue repositories on top of Redis.
type Store struct {
	client redis.UniversalClient
	keys   keys
	logger *slog.Logger
}

// New creates a Redis-backed store. The caller owns the client lifecycle.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		keys:   keys{prefix: defaultKeyPrefix},
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
