// Command notifier runs the notification worker and the operator API in one process.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/coachdesk/coachdesk/modules/operator"
	"github.com/coachdesk/coachdesk/pkg/clientip"
	"github.com/coachdesk/coachdesk/pkg/config"
	"github.com/coachdesk/coachdesk/pkg/email"
	"github.com/coachdesk/coachdesk/pkg/httpserver"
	"github.com/coachdesk/coachdesk/pkg/logger"
	"github.com/coachdesk/coachdesk/pkg/mongo"
	"github.com/coachdesk/coachdesk/pkg/queue"
	"github.com/coachdesk/coachdesk/pkg/queue/mongostore"
	"github.com/coachdesk/coachdesk/pkg/queue/redisstore"
	"github.com/coachdesk/coachdesk/pkg/ratelimiter"
	"github.com/coachdesk/coachdesk/pkg/redis"
	"github.com/coachdesk/coachdesk/pkg/requestid"
	"github.com/coachdesk/coachdesk/svc/notification"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("notifier failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app      appConfig
		logCfg   logger.Config
		queueCfg queue.Config
		redisCfg redis.Config
		emailCfg email.Config
		httpCfg  httpserver.Config
		opCfg    operator.Config
	)
	if err := errors.Join(
		config.Load(&app),
		config.Load(&logCfg),
		config.Load(&queueCfg),
		config.Load(&redisCfg),
		config.Load(&emailCfg),
		config.Load(&httpCfg),
		config.Load(&opCfg),
	); err != nil {
		return err
	}

	overrides, err := logCfg.Options()
	if err != nil {
		return err
	}
	log := logger.New(append([]logger.Option{
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			queue.LoggerExtractor(),
		),
	}, overrides...)...)
	logger.SetAsDefault(log)

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = client.Close() }()

	registry, err := queue.DefaultRegistry(queueCfg.RetryPolicy())
	if err != nil {
		return err
	}
	store := redisstore.New(client,
		redisstore.WithKeyPrefix(redisCfg.KeyPrefix),
		redisstore.WithLogger(log),
	)
	checks := []httpserver.Check{{Name: "redis", Fn: redis.HealthCheck(client)}}

	var deadLetterRepo queue.DeadLetterRepository = store
	switch app.DeadLetterStore {
	case deadLetterStoreRedis:
	case deadLetterStoreMongo:
		var mongoCfg mongo.Config
		if err := config.Load(&mongoCfg); err != nil {
			return err
		}
		db, err := mongo.Open(ctx, mongoCfg)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		defer func() { _ = db.Client().Disconnect(context.WithoutCancel(ctx)) }()

		archive := mongostore.New(db, mongostore.WithLogger(log))
		if err := archive.Migrate(ctx); err != nil {
			return err
		}
		deadLetterRepo = archive
		checks = append(checks, httpserver.Check{Name: "mongodb", Fn: mongo.HealthCheck(db.Client())})
	default:
		return fmt.Errorf("unknown dead letter store %q", app.DeadLetterStore)
	}

	sender, err := email.NewSender(emailCfg)
	if err != nil {
		return fmt.Errorf("email sender: %w", err)
	}
	mailer, err := notification.NewMailer(sender,
		notification.WithProductName(app.ProductName),
		notification.WithBaseURL(app.BaseURL),
		notification.WithMailerLogger(log),
	)
	if err != nil {
		return err
	}
	dispatcher, err := notification.NewDispatcher(mailer)
	if err != nil {
		return err
	}
	processor, err := notification.NewProcessor(dispatcher, notification.WithProcessorLogger(log))
	if err != nil {
		return err
	}

	workerOpts := []queue.WorkerOption{
		queue.WithPullInterval(queueCfg.PollInterval),
		queue.WithLockTimeout(queueCfg.LockTimeout),
		queue.WithMaxConcurrentTasks(queueCfg.MaxConcurrentTasks),
		queue.WithDeadLetterRepository(deadLetterRepo),
		queue.WithWorkerLogger(log),
	}
	if queueCfg.RateLimit > 0 {
		burst := max(1, int(queueCfg.RateLimit))
		workerOpts = append(workerOpts, queue.WithRateLimiter(rate.NewLimiter(rate.Limit(queueCfg.RateLimit), burst)))
	}
	worker, err := queue.NewWorker(store, registry, workerOpts...)
	if err != nil {
		return err
	}
	if err := worker.RegisterHandler(processor); err != nil {
		return err
	}

	enqueuer, err := queue.NewEnqueuer(store, registry)
	if err != nil {
		return err
	}
	producer, err := notification.NewProducer(enqueuer)
	if err != nil {
		return err
	}
	deadLetters, err := queue.NewDeadLetters(deadLetterRepo, enqueuer)
	if err != nil {
		return err
	}

	var limiter ratelimiter.RateLimiter
	if limit, ok := opCfg.RateLimit(); ok {
		var limitStore ratelimiter.Store
		switch opCfg.EnqueueLimitStore {
		case operator.LimitStoreRedis:
			limitStore = ratelimiter.NewRedisStore(client, ratelimiter.WithRedisKeyPrefix(redisCfg.KeyPrefix+":ratelimit"))
		case operator.LimitStoreMemory:
			mem := ratelimiter.NewMemoryStore()
			defer mem.Close()
			limitStore = mem
		default:
			return fmt.Errorf("unknown enqueue limit store %q", opCfg.EnqueueLimitStore)
		}
		bucket, err := ratelimiter.NewBucket(limitStore, limit)
		if err != nil {
			return err
		}
		limiter = bucket
	}

	router, err := operator.Router(operator.RouterOptions{
		Producer:      producer,
		DeadLetters:   deadLetters,
		Stats:         store,
		Registry:      registry,
		Limiter:       limiter,
		Checks:        checks,
		HealthTimeout: httpCfg.HealthTimeout,
		PageSize:      opCfg.DeadLetterPageSize,
		Logger:        log,
	})
	if err != nil {
		return err
	}
	server := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	log.InfoContext(ctx, "notifier starting",
		slog.Any("queues", registry.Names()),
		slog.String("dead_letter_store", app.DeadLetterStore),
		slog.String("addr", httpCfg.Addr),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(worker.Run(gctx))
	g.Go(func() error { return server.Run(gctx, router) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.InfoContext(ctx, "notifier stopped")
	return nil
}
