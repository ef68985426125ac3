package notification_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachdesk/coachdesk/pkg/queue"
	"github.com/coachdesk/coachdesk/svc/notification"
)

func newProducer(t *testing.T, opts ...notification.ProducerOption) (*notification.Producer, *queue.MemoryStorage) {
	t.Helper()

	storage := queue.NewMemoryStorage()
	t.Cleanup(func() { _ = storage.Close() })

	registry, err := queue.NewRegistry(
		queue.NewQueue(queue.DefaultQueueName, queue.DefaultRetryPolicy(), queue.DeadLetterQueueName),
		queue.NewQueue("priority", queue.RetryPolicy{MaxAttempts: 5, Backoff: constant()}, queue.DeadLetterQueueName),
		queue.NewDeadLetterQueue(queue.DeadLetterQueueName),
	)
	require.NoError(t, err)

	enqueuer, err := queue.NewEnqueuer(storage, registry)
	require.NoError(t, err)

	p, err := notification.NewProducer(enqueuer, opts...)
	require.NoError(t, err)
	return p, storage
}

func TestNewProducer(t *testing.T) {
	t.Parallel()

	_, err := notification.NewProducer(nil)
	assert.ErrorIs(t, err, notification.ErrNilDependency)
}

func TestProducer_Send(t *testing.T) {
	t.Parallel()

	p, storage := newProducer(t)
	payload := notification.SignupPayload{To: "a@x.com", Code: "123456", UUID: "u1"}

	id, err := p.Send(context.Background(), payload)
	require.NoError(t, err)

	task, err := storage.GetTask(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, notification.TaskName, task.TaskName)
	assert.Equal(t, queue.DefaultQueueName, task.Queue)
	assert.Equal(t, 3, task.MaxAttempts)
	assert.Equal(t, 0, task.Attempt)

	var env notification.Envelope
	require.NoError(t, json.Unmarshal(task.Payload, &env))
	assert.Equal(t, notification.KindEmail, env.Type)
	assert.Equal(t, notification.TemplateSignup, env.Template)
	assert.Equal(t, payload, env.Payload)
}

func TestProducer_QueueAndOverrides(t *testing.T) {
	t.Parallel()

	p, storage := newProducer(t, notification.WithProducerQueue("priority"))

	before := time.Now()
	id, err := p.Send(context.Background(),
		notification.WelcomePayload{To: "c@x.com", Name: "Jordan"},
		queue.WithMaxAttempts(1),
		queue.WithDelay(time.Hour),
	)
	require.NoError(t, err)

	task, err := storage.GetTask(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "priority", task.Queue)
	assert.Equal(t, 1, task.MaxAttempts)
	assert.True(t, task.ScheduledAt.After(before.Add(59*time.Minute)))

	id, err = p.Send(context.Background(),
		notification.ResetConfirmationPayload{To: "c@x.com"},
		queue.WithQueue(queue.DefaultQueueName))
	require.NoError(t, err)

	task, err = storage.GetTask(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, queue.DefaultQueueName, task.Queue)
}

func TestProducer_Rejects(t *testing.T) {
	t.Parallel()

	p, storage := newProducer(t)

	tests := []struct {
		name string
		env  notification.Envelope
		want error
	}{
		{"invalid payload", notification.NewEnvelope(notification.SignupPayload{To: "a@x.com"}), notification.ErrInvalidPayload},
		{"unknown template", notification.Envelope{Type: notification.KindEmail, Template: "sms_code"}, notification.ErrHandlerNotFound},
		{"missing type", notification.Envelope{Template: notification.TemplateWelcome}, notification.ErrInvalidEnvelope},
	}
	for _, tt := range tests {
		_, err := p.Enqueue(context.Background(), tt.env)
		assert.ErrorIs(t, err, tt.want, tt.name)
	}

	_, err := p.Enqueue(context.Background(), notification.NewEnvelope(notification.WelcomePayload{To: "c@x.com", Name: "Jordan"}),
		queue.WithQueue(queue.DeadLetterQueueName))
	assert.ErrorIs(t, err, queue.ErrQueueTerminal)

	count, err := storage.CountTasks(context.Background(), queue.DefaultQueueName)
	require.NoError(t, err)
	assert.Zero(t, count)
}
