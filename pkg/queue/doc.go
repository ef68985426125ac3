// Package queue provides a repository-agnostic task queue with retries,
// exponential backoff and a dead letter queue.
//
// The package is organised around a few components:
//
//   - Registry: the immutable set of named queues and their retry policies
//   - Enqueuer: adds tasks to a registered queue
//   - Worker: claims ready tasks and dispatches them to a Handler by task name
//   - DeadLetters: lists, inspects and replays tasks that will not be attempted again
//
// Components interact only through a set of small repository interfaces, keeping the
// business logic decoupled from persistence. MemoryStorage implements all of them for
// tests and local development; the redisstore and mongostore subpackages provide
// production backends.
//
// # Lifecycle
//
// A task moves through
//
//	enqueued -> in-flight -> completed
//	                      -> retry-scheduled -> in-flight ...
//	                      -> dead-lettered
//
// Completed tasks are removed from storage. A failing task is retried after
// Backoff.Delay(attempt) until it has been attempted RetryPolicy.MaxAttempts times,
// then it is copied to the queue's dead letter queue together with the last error.
// No task is dropped without a trace.
//
// Handlers steer that machinery with two error values:
//
//   - ErrSkipTask acknowledges the task without processing it (no retry, no dead letter)
//   - NonRetryable(err) sends the task to the dead letter queue on the current attempt
//
// # Usage
//
//	registry, _ := queue.DefaultRegistry(queue.RetryPolicy{
//		MaxAttempts: 5,
//		Backoff:     queue.ExponentialBackoff{Base: time.Second, Max: time.Minute},
//	})
//
//	storage := queue.NewMemoryStorage()
//	defer storage.Close()
//
//	enqueuer, _ := queue.NewEnqueuer(storage, registry)
//	id, err := enqueuer.Enqueue(ctx, SendEmailPayload{UserID: 42}, queue.WithDelay(time.Minute))
//
//	worker, _ := queue.NewWorker(storage, registry, queue.WithMaxConcurrentTasks(4))
//	_ = worker.RegisterHandler(queue.NewTaskHandler(func(ctx context.Context, p SendEmailPayload) error {
//		return send(ctx, p)
//	}))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(worker.Run(ctx))
//
// # Error Handling
//
// Package-level sentinel errors (e.g. ErrQueueNotFound, ErrNoHandlers) signal
// violations of business invariants and can be checked with errors.Is.
package queue
