package operator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coachdesk/coachdesk/handler"
	"github.com/coachdesk/coachdesk/pkg/binder"
	"github.com/coachdesk/coachdesk/pkg/clientip"
	"github.com/coachdesk/coachdesk/pkg/httpserver"
	"github.com/coachdesk/coachdesk/pkg/logger"
	"github.com/coachdesk/coachdesk/pkg/queue"
	"github.com/coachdesk/coachdesk/pkg/ratelimiter"
	"github.com/coachdesk/coachdesk/pkg/requestid"
	"github.com/coachdesk/coachdesk/svc/notification"
)

const defaultPageSize = 50

// RouterOptions configures the operator API.
// Producer, DeadLetters, Stats and Registry are required.
type RouterOptions struct {
	Producer    *notification.Producer
	DeadLetters *queue.DeadLetters
	Stats       queue.StatsRepository
	Registry    *queue.Registry

	// Limiter throttles POST /notifications per client IP. Optional.
	Limiter ratelimiter.RateLimiter
	// Checks back GET /health/ready.
	Checks        []httpserver.Check
	HealthTimeout time.Duration
	// PageSize is the default limit for GET /dead-letters.
	PageSize int
	Logger   *slog.Logger
}

// Router builds the operator API.
//
//	GET    /health/live
//	GET    /health/ready
//	POST   /notifications?queue=&delay=&max_attempts=
//	GET    /queues
//	GET    /dead-letters?queue=&limit=
//	GET    /dead-letters/{id}
//	POST   /dead-letters/{id}/replay
//	DELETE /dead-letters/{id}
func Router(opts RouterOptions) (chi.Router, error) {
	switch {
	case opts.Producer == nil:
		return nil, fmt.Errorf("%w: producer", ErrNilDependency)
	case opts.DeadLetters == nil:
		return nil, fmt.Errorf("%w: dead letters", ErrNilDependency)
	case opts.Stats == nil:
		return nil, fmt.Errorf("%w: stats repository", ErrNilDependency)
	case opts.Registry == nil:
		return nil, fmt.Errorf("%w: registry", ErrNilDependency)
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With(logger.Component("operator"))

	s := &service{
		producer:    opts.Producer,
		deadLetters: opts.DeadLetters,
		stats:       opts.Stats,
		registry:    opts.Registry,
		pageSize:    opts.PageSize,
		log:         log,
	}
	if s.pageSize <= 0 {
		s.pageSize = defaultPageSize
	}
	errorHandler := handler.NewErrorHandler(log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware, accessLog(log), recoverer(log))

	r.Get("/health/live", httpserver.HealthCheckHandler(log, opts.HealthTimeout))
	r.Get("/health/ready", httpserver.HealthCheckHandler(log, opts.HealthTimeout, opts.Checks...))

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(ratelimiter.Middleware(opts.Limiter, ratelimiter.ByClientIP, log))
		}
		r.Post("/notifications", handler.Wrap(s.enqueue,
			handler.WithBinders[handler.Context, enqueueRequest](binder.JSON(), binder.Query()),
			handler.WithErrorHandler[handler.Context, enqueueRequest](errorHandler),
		))
	})

	r.Get("/queues", handler.Wrap(s.queues,
		handler.WithErrorHandler[handler.Context, struct{}](errorHandler),
	))

	r.Route("/dead-letters", func(r chi.Router) {
		r.Get("/", handler.Wrap(s.listDeadLetters,
			handler.WithBinders[handler.Context, listRequest](binder.Query()),
			handler.WithErrorHandler[handler.Context, listRequest](errorHandler),
		))

		byID := []handler.WrapOption[handler.Context, deadLetterRequest]{
			handler.WithBinders[handler.Context, deadLetterRequest](binder.Path(chi.URLParam)),
			handler.WithErrorHandler[handler.Context, deadLetterRequest](errorHandler),
		}
		r.Get("/{id}", handler.Wrap(s.getDeadLetter, byID...))
		r.Delete("/{id}", handler.Wrap(s.discardDeadLetter, byID...))
		r.Post("/{id}/replay", handler.Wrap(s.replayDeadLetter, byID...))
	})

	return r, nil
}
