package httpserver

import "time"

// Config holds the operator API listener settings.
type Config struct {
	Addr            string        `env:"OPERATOR_ADDR" envDefault:":8081"`             // Addr is the address the server listens on.
	ReadTimeout     time.Duration `env:"OPERATOR_READ_TIMEOUT" envDefault:"15s"`       // ReadTimeout bounds reading the entire request.
	WriteTimeout    time.Duration `env:"OPERATOR_WRITE_TIMEOUT" envDefault:"30s"`      // WriteTimeout bounds writing the response.
	IdleTimeout     time.Duration `env:"OPERATOR_IDLE_TIMEOUT" envDefault:"120s"`      // IdleTimeout bounds keep-alive idleness.
	ShutdownTimeout time.Duration `env:"OPERATOR_SHUTDOWN_TIMEOUT" envDefault:"10s"`   // ShutdownTimeout is the time allowed for graceful shutdown.
	HealthTimeout   time.Duration `env:"OPERATOR_HEALTHCHECK_TIMEOUT" envDefault:"3s"` // HealthTimeout bounds each readiness check.
}

// Options converts the non-zero fields of c into server options.
func (c Config) Options() []Option {
	var opts []Option
	if c.Addr != "" {
		opts = append(opts, WithAddr(c.Addr))
	}
	for _, d := range []struct {
		v   time.Duration
		opt func(time.Duration) Option
	}{
		{c.ReadTimeout, WithReadTimeout},
		{c.WriteTimeout, WithWriteTimeout},
		{c.IdleTimeout, WithIdleTimeout},
		{c.ShutdownTimeout, WithShutdownTimeout},
	} {
		if d.v > 0 {
			opts = append(opts, d.opt(d.v))
		}
	}
	return opts
}

// NewFromConfig builds a Server from cfg. opts are applied after the config.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	return New(append(cfg.Options(), opts...)...)
}
