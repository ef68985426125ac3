package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/queue"
)

func TestNewDeadLetters(t *testing.T) {
	t.Parallel()

	storage := queue.NewMemoryStorage()
	defer storage.Close()

	enqueuer, err := queue.NewEnqueuer(storage, testRegistry(t))
	require.NoError(t, err)

	_, err = queue.NewDeadLetters(nil, enqueuer)
	assert.ErrorIs(t, err, queue.ErrDeadLetterRepositoryNil)

	_, err = queue.NewDeadLetters(storage, nil)
	assert.ErrorIs(t, err, queue.ErrRepositoryNil)
}

func TestDeadLetters_Replay(t *testing.T) {
	t.Parallel()

	t.Run("replayed task runs again with a fresh budget", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		defer storage.Close()

		enqueuer, worker := newMemoryWorker(t, storage, 2)

		var healthy bool
		done := make(chan testPayload, 1)
		require.NoError(t, worker.RegisterHandler(queue.NewTaskHandler(func(ctx context.Context, p testPayload) error {
			if !healthy {
				return errors.New("provider down")
			}
			done <- p
			return nil
		})))

		payload := testPayload{Message: "reset", Value: 3}
		_, err := enqueuer.Enqueue(context.Background(), payload)
		require.NoError(t, err)

		require.NoError(t, worker.Start(context.Background()))

		require.Eventually(t, func() bool {
			entries, err := storage.ListDeadLetters(context.Background(), "", 0)
			return err == nil && len(entries) == 1
		}, 2*time.Second, 10*time.Millisecond)

		// Stop before flipping the handler so the write is not racy
		require.NoError(t, worker.Stop())
		healthy = true

		deadLetters, err := queue.NewDeadLetters(storage, enqueuer)
		require.NoError(t, err)

		entries, err := deadLetters.List(context.Background(), queue.DefaultQueueName, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entry, err := deadLetters.Get(context.Background(), entries[0].ID)
		require.NoError(t, err)
		assert.Equal(t, "provider down", entry.Error)
		assert.Equal(t, 2, entry.Attempts)

		taskID, err := deadLetters.Replay(context.Background(), entry.ID)
		require.NoError(t, err)
		assert.NotEqual(t, entry.TaskID, taskID)

		task, err := storage.GetTask(context.Background(), taskID)
		require.NoError(t, err)
		assert.Equal(t, 0, task.Attempt)
		assert.Equal(t, 2, task.MaxAttempts)
		assert.Equal(t, entry.TaskName, task.TaskName)
		assert.Equal(t, queue.DefaultQueueName, task.Queue)

		_, err = deadLetters.Get(context.Background(), entry.ID)
		assert.ErrorIs(t, err, queue.ErrDeadLetterNotFound)

		_, restarted := newMemoryWorker(t, storage, 2)
		require.NoError(t, restarted.RegisterHandler(queue.NewTaskHandler(func(ctx context.Context, p testPayload) error {
			done <- p
			return nil
		})))
		require.NoError(t, restarted.Start(context.Background()))
		defer func() { _ = restarted.Stop() }()

		select {
		case got := <-done:
			assert.Equal(t, payload, got)
		case <-time.After(2 * time.Second):
			t.Fatal("replayed task was not processed")
		}
	})

	t.Run("unknown entry", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		defer storage.Close()

		enqueuer, err := queue.NewEnqueuer(storage, testRegistry(t))
		require.NoError(t, err)

		deadLetters, err := queue.NewDeadLetters(storage, enqueuer)
		require.NoError(t, err)

		_, err = deadLetters.Replay(context.Background(), uuid.New())
		assert.ErrorIs(t, err, queue.ErrDeadLetterNotFound)
	})

	t.Run("origin queue no longer registered", func(t *testing.T) {
		t.Parallel()

		storage := queue.NewMemoryStorage()
		defer storage.Close()

		enqueuer, err := queue.NewEnqueuer(storage, testRegistry(t))
		require.NoError(t, err)

		entry := &queue.DeadLetter{
			ID:          uuid.New(),
			TaskID:      uuid.New(),
			Queue:       queue.DeadLetterQueueName,
			OriginQueue: "retired",
			TaskName:    "queue_test.testPayload",
			Payload:     []byte(`{}`),
			FailedAt:    time.Now(),
		}
		require.NoError(t, storage.PushDeadLetter(context.Background(), entry))

		deadLetters, err := queue.NewDeadLetters(storage, enqueuer)
		require.NoError(t, err)

		_, err = deadLetters.Replay(context.Background(), entry.ID)
		assert.ErrorIs(t, err, queue.ErrQueueNotFound)

		_, err = deadLetters.Get(context.Background(), entry.ID)
		assert.NoError(t, err, "entry is kept when replay fails")
	})
}

func TestDeadLetters_Discard(t *testing.T) {
	t.Parallel()

	storage := queue.NewMemoryStorage()
	defer storage.Close()

	enqueuer, err := queue.NewEnqueuer(storage, testRegistry(t))
	require.NoError(t, err)

	deadLetters, err := queue.NewDeadLetters(storage, enqueuer)
	require.NoError(t, err)

	entry := &queue.DeadLetter{
		ID:          uuid.New(),
		TaskID:      uuid.New(),
		Queue:       queue.DeadLetterQueueName,
		OriginQueue: queue.DefaultQueueName,
		TaskName:    "queue_test.testPayload",
		Payload:     []byte(`{}`),
		FailedAt:    time.Now(),
	}
	require.NoError(t, storage.PushDeadLetter(context.Background(), entry))

	require.NoError(t, deadLetters.Discard(context.Background(), entry.ID))

	_, err = deadLetters.Get(context.Background(), entry.ID)
	assert.ErrorIs(t, err, queue.ErrDeadLetterNotFound)
	assert.ErrorIs(t, deadLetters.Discard(context.Background(), entry.ID), queue.ErrDeadLetterNotFound)

	count, err := storage.CountTasks(context.Background(), queue.DefaultQueueName)
	require.NoError(t, err)
	assert.Zero(t, count, "discard never enqueues")
}
