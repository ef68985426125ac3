package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	ErrConnect         = errors.New("mongo: connect failed")
	ErrMissingDatabase = errors.New("mongo: database name is not set")
	ErrUnhealthy       = errors.New("mongo: health check failed")
)

// Connect returns a client whose primary answered a ping. The ping is tried
// RetryAttempts times, RetryInterval apart.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(clientOptions(cfg))
	if err != nil {
		// malformed URI, retrying will not help
		return nil, errors.Join(ErrConnect, err)
	}

	if err := ping(ctx, client, max(cfg.RetryAttempts, 1), cfg.RetryInterval); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errors.Join(ErrConnect, err)
	}
	return client, nil
}

// Open connects and returns cfg.Database.
func Open(ctx context.Context, cfg Config) (*mongo.Database, error) {
	if cfg.Database == "" {
		return nil, ErrMissingDatabase
	}
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}

// HealthCheck returns a readiness probe that pings the primary.
func HealthCheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrUnhealthy, err)
		}
		return nil
	}
}

func clientOptions(cfg Config) *options.ClientOptions {
	return options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetRetryReads(cfg.RetryReads)
}

func ping(ctx context.Context, client *mongo.Client, attempts int, interval time.Duration) error {
	var err error
	for n := 1; ; n++ {
		if err = client.Ping(ctx, nil); err == nil || n >= attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
