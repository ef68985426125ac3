// Package httpserver runs the operator API on top of net/http with
// context-driven graceful shutdown, configurable timeouts and health probes.
//
// Server binds its listener synchronously inside Run, so a bad address or a
// port conflict is reported as ErrStart straight away instead of after the
// first request. Run returns once the context is canceled or Shutdown is
// called; signal handling is left to the caller (see cmd/notifier).
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log, 0))
//	r.Get("/readyz", httpserver.HealthCheckHandler(log, 3*time.Second,
//		httpserver.Check{Name: "redis", Fn: redis.HealthCheck(client)},
//	))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		return err
//	}
//
// # Errors
//
// Run wraps listen and serve errors with ErrStart (plus ErrAlreadyRunning on a
// second call), Shutdown wraps shutdown errors with ErrShutdown.
package httpserver
