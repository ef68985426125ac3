package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coachdesk/coachdesk/pkg/mongo"
)

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("invalid uri", func(t *testing.T) {
		t.Parallel()
		_, err := mongo.Connect(context.Background(), mongo.Config{
			ConnectionURL: "not-a-mongo-uri",
			RetryAttempts: 3,
		})
		assert.ErrorIs(t, err, mongo.ErrConnect)
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		start := time.Now()
		_, err := mongo.Connect(ctx, mongo.Config{
			ConnectionURL: "mongodb://127.0.0.1:1",
			RetryAttempts: 5,
			RetryInterval: time.Minute,
		})
		assert.ErrorIs(t, err, mongo.ErrConnect)
		assert.Less(t, time.Since(start), 10*time.Second)
	})
}

func TestOpen_MissingDatabase(t *testing.T) {
	t.Parallel()

	_, err := mongo.Open(context.Background(), mongo.Config{ConnectionURL: "mongodb://127.0.0.1:1"})
	assert.ErrorIs(t, err, mongo.ErrMissingDatabase)
}
