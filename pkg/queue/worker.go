package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/coachdesk/coachdesk/pkg/logger"
)

// WorkerRepository defines the interface for worker operations
type WorkerRepository interface {
	// ClaimTask atomically claims the next available task and increments its attempt counter.
	// Returns ErrNoTaskToClaim when nothing is ready.
	ClaimTask(ctx context.Context, workerID uuid.UUID, queues []string, lockDuration time.Duration) (*Task, error)

	// CompleteTask removes a successfully processed task. It returns ErrTaskLockLost
	// when workerID no longer holds the lock, as do RetryTask and ExtendLock.
	CompleteTask(ctx context.Context, workerID, taskID uuid.UUID) error

	// RetryTask records the error and makes the task claimable again at runAt
	RetryTask(ctx context.Context, workerID, taskID uuid.UUID, errorMsg string, runAt time.Time) error

	// RemoveTask deletes a task that was moved to the dead letter queue
	RemoveTask(ctx context.Context, taskID uuid.UUID) error

	// ExtendLock extends the lock timeout for long-running tasks (optional)
	ExtendLock(ctx context.Context, workerID, taskID uuid.UUID, duration time.Duration) error
}

// DeadLetterRepository stores tasks that will not be attempted again.
type DeadLetterRepository interface {
	PushDeadLetter(ctx context.Context, entry *DeadLetter) error
	ListDeadLetters(ctx context.Context, queue string, limit int) ([]*DeadLetter, error)
	GetDeadLetter(ctx context.Context, id uuid.UUID) (*DeadLetter, error)
	DeleteDeadLetter(ctx context.Context, id uuid.UUID) error
}

// Worker claims tasks from its queues and runs the registered handlers.
type Worker struct {
	repo        WorkerRepository
	deadLetters DeadLetterRepository
	registry    *Registry
	queues      []string
	workerID    uuid.UUID

	pullInterval time.Duration
	lockTimeout  time.Duration
	limiter      *rate.Limiter
	logger       *slog.Logger

	sem chan struct{}
	wg  sync.WaitGroup

	mu       sync.RWMutex
	handlers map[string]Handler
	cancel   context.CancelFunc
	loopDone chan struct{}
}

// WorkerOption configures a Worker. Zero and nil values keep the default.
type WorkerOption func(*Worker)

// WithQueues lists the queues the worker claims from, DefaultQueueName by default.
func WithQueues(queues ...string) WorkerOption {
	return func(w *Worker) {
		if len(queues) > 0 {
			w.queues = queues
		}
	}
}

// WithPullInterval sets how long the worker sleeps when no task is ready.
func WithPullInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.pullInterval = d
		}
	}
}

// WithLockTimeout sets how long a claimed task stays invisible to other workers.
func WithLockTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.lockTimeout = d
		}
	}
}

func WithMaxConcurrentTasks(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.sem = make(chan struct{}, n)
		}
	}
}

// WithRateLimiter caps how fast tasks are claimed, e.g. to stay under a
// provider send quota.
func WithRateLimiter(l *rate.Limiter) WorkerOption {
	return func(w *Worker) { w.limiter = l }
}

// WithDeadLetterRepository stores dead letters outside the task repository.
func WithDeadLetterRepository(repo DeadLetterRepository) WorkerOption {
	return func(w *Worker) {
		if repo != nil {
			w.deadLetters = repo
		}
	}
}

func WithWorkerLogger(l *slog.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWorker returns a Worker for the queues in registry. Without
// WithDeadLetterRepository, repo must implement DeadLetterRepository too.
func NewWorker(repo WorkerRepository, registry *Registry, opts ...WorkerOption) (*Worker, error) {
	if repo == nil {
		return nil, ErrRepositoryNil
	}
	if registry == nil {
		return nil, ErrRegistryNil
	}

	w := &Worker{
		repo:         repo,
		registry:     registry,
		handlers:     make(map[string]Handler),
		queues:       []string{DefaultQueueName},
		workerID:     uuid.New(),
		sem:          make(chan struct{}, 1),
		pullInterval: 5 * time.Second,
		lockTimeout:  5 * time.Minute,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.deadLetters == nil {
		dl, ok := repo.(DeadLetterRepository)
		if !ok {
			return nil, ErrDeadLetterRepositoryNil
		}
		w.deadLetters = dl
	}
	return w, nil
}

// RegisterHandler adds h under h.Name(), replacing any previous handler with
// that name. A nil handler is ignored.
func (w *Worker) RegisterHandler(h Handler) error {
	if h == nil {
		return nil
	}
	w.mu.Lock()
	w.handlers[h.Name()] = h
	w.mu.Unlock()
	return nil
}

func (w *Worker) RegisterHandlers(handlers ...Handler) error {
	for _, h := range handlers {
		if err := w.RegisterHandler(h); err != nil {
			return err
		}
	}
	return nil
}

// ID identifies the worker in task locks and logs.
func (w *Worker) ID() uuid.UUID { return w.workerID }

// Start validates the configuration and starts polling in the background.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return ErrWorkerStarted
	}
	if len(w.handlers) == 0 {
		return ErrNoHandlers
	}
	for _, name := range w.queues {
		q, err := w.registry.Get(name)
		if err != nil {
			return err
		}
		if q.Terminal() {
			return fmt.Errorf("%w: no processors allowed on %q", ErrQueueTerminal, name)
		}
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.loopDone = make(chan struct{})
	go w.loop(ctx, w.loopDone)

	w.logger.InfoContext(ctx, "worker started",
		slog.String("worker_id", w.workerID.String()),
		slog.Any("queues", w.queues),
		slog.Int("max_concurrent", cap(w.sem)))
	return nil
}

// Stop cancels polling and waits for in-flight tasks to finish.
func (w *Worker) Stop() error {
	w.mu.Lock()
	cancel, loopDone := w.cancel, w.loopDone
	w.cancel, w.loopDone = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return ErrWorkerNotStarted
	}

	cancel()
	// the loop is the only caller of wg.Add, so once it exits Wait is safe
	<-loopDone
	w.logger.Info("worker stopping, waiting for active tasks",
		slog.String("worker_id", w.workerID.String()))
	w.wg.Wait()
	w.logger.Info("worker stopped", slog.String("worker_id", w.workerID.String()))
	return nil
}

// Run returns an errgroup function that starts the worker and stops it once
// ctx is done.
func (w *Worker) Run(ctx context.Context) func() error {
	return func() error {
		if err := w.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		return w.Stop()
	}
}

func (w *Worker) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.pullInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.spawn(ctx)
		}
	}
}

// spawn starts one drain goroutine per free concurrency slot.
func (w *Worker) spawn(ctx context.Context) {
	for ctx.Err() == nil {
		select {
		case w.sem <- struct{}{}:
		default:
			return
		}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-w.sem }()
			w.drain(ctx)
		}()
	}
}

// drain processes tasks until none is ready or ctx is done.
func (w *Worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		claimed, err := w.claimAndProcess(ctx)
		if err != nil && !errors.Is(err, ErrHandlerNotFound) {
			w.logger.ErrorContext(ctx, "failed to process task",
				slog.String("worker_id", w.workerID.String()),
				logger.Error(err))
		}
		if !claimed {
			return
		}
	}
}

// claimAndProcess reports whether a task was claimed.
func (w *Worker) claimAndProcess(ctx context.Context) (bool, error) {
	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return false, nil
		}
	}

	task, err := w.repo.ClaimTask(ctx, w.workerID, w.queues, w.lockTimeout)
	switch {
	case errors.Is(err, ErrNoTaskToClaim), errors.Is(err, context.Canceled):
		return false, nil
	case err != nil:
		return false, errors.Join(ErrFailedToGetNextTask, err)
	case task == nil:
		return false, nil
	}

	// Bookkeeping after the handler must finish even while the worker stops.
	return true, w.process(context.WithoutCancel(ctx), task)
}

func (w *Worker) process(ctx context.Context, task *Task) (err error) {
	start := time.Now()
	ctx = withTaskInfo(ctx, task)
	log := w.logger.With(
		slog.String("worker_id", w.workerID.String()),
		logger.TaskID(task.ID),
		logger.TaskName(task.TaskName),
		logger.Queue(task.Queue),
		logger.Attempt(task.Attempt),
	)
	log.DebugContext(ctx, "claimed task")

	q, err := w.registry.Get(task.Queue)
	if err != nil {
		return err
	}

	w.mu.RLock()
	h, ok := w.handlers[task.TaskName]
	w.mu.RUnlock()
	if !ok {
		log.ErrorContext(ctx, "no handler registered for task type")
		if err := w.moveToDeadLetter(ctx, log, task, q, ErrHandlerNotFound.Error()+": "+task.TaskName); err != nil {
			return err
		}
		return ErrHandlerNotFound
	}

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "handler panicked", slog.Any("panic", r))
			err = w.fail(ctx, log, task, q, fmt.Errorf("panic in handler: %v", r), time.Since(start))
		}
	}()

	// The handler deadline is the lock, not the worker lifecycle, so a
	// graceful stop lets it finish.
	hctx, cancel := context.WithTimeout(ctx, w.lockTimeout)
	defer cancel()

	herr := h.Handle(hctx, task.Payload)
	switch {
	case herr == nil:
		if err := w.repo.CompleteTask(ctx, w.workerID, task.ID); err != nil {
			return fmt.Errorf("complete task %s: %w", task.ID, err)
		}
		log.InfoContext(ctx, "task completed", logger.Duration(time.Since(start)))
		return nil
	case errors.Is(herr, ErrSkipTask):
		if err := w.repo.CompleteTask(ctx, w.workerID, task.ID); err != nil {
			return fmt.Errorf("acknowledge skipped task %s: %w", task.ID, err)
		}
		log.InfoContext(ctx, "task skipped", slog.String("reason", herr.Error()))
		return nil
	default:
		return w.fail(ctx, log, task, q, herr, time.Since(start))
	}
}

// fail applies the queue's retry policy. Permanent errors and exhausted
// budgets go to the dead letter queue, anything else is rescheduled after
// the backoff delay for this attempt.
func (w *Worker) fail(ctx context.Context, log *slog.Logger, task *Task, q *Queue, cause error, took time.Duration) error {
	log.ErrorContext(ctx, "task failed",
		slog.Int("max_attempts", task.MaxAttempts),
		logger.Duration(took),
		logger.Error(cause))

	if !IsRetryable(cause) || task.Attempt >= task.MaxAttempts {
		return w.moveToDeadLetter(ctx, log, task, q, cause.Error())
	}

	delay := q.Policy().Backoff.Delay(task.Attempt)
	if err := w.repo.RetryTask(ctx, w.workerID, task.ID, cause.Error(), time.Now().Add(delay)); err != nil {
		return fmt.Errorf("schedule retry for task %s: %w", task.ID, err)
	}
	log.InfoContext(ctx, "task scheduled for retry",
		slog.Int("next_attempt", task.Attempt+1),
		slog.Duration("delay", delay))
	return nil
}

// moveToDeadLetter pushes the entry before removing the task: a failure in
// between leaves a duplicate for the operator, never a lost job.
func (w *Worker) moveToDeadLetter(ctx context.Context, log *slog.Logger, task *Task, q *Queue, reason string) error {
	entry := newDeadLetter(task, q.DeadLetter(), reason)
	if err := w.deadLetters.PushDeadLetter(ctx, entry); err != nil {
		return errors.Join(ErrFailedToMoveToDLQ, fmt.Errorf("task %s: %w", task.ID, err))
	}
	if err := w.repo.RemoveTask(ctx, task.ID); err != nil {
		return fmt.Errorf("remove dead-lettered task %s: %w", task.ID, err)
	}
	log.WarnContext(ctx, "task moved to dead letter queue",
		logger.DeadLetterID(entry.ID),
		slog.String("dead_letter_queue", entry.Queue))
	return nil
}

// ExtendLockForTask pushes a claimed task's lock forward. Handlers that run
// longer than the lock timeout call it periodically.
func (w *Worker) ExtendLockForTask(ctx context.Context, taskID uuid.UUID, extension time.Duration) error {
	return w.repo.ExtendLock(ctx, w.workerID, taskID, extension)
}
