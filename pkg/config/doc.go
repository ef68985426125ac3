// Package config loads typed configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
//
//   - the default `.env` file (if any) is loaded on first use, further files
//     with LoadEnv;
//   - any struct is populated from `env` / `envDefault` field tags;
//   - each configuration type is parsed once and cached for the lifetime of the
//     process, so components can call Load for the same struct freely.
//
// # Usage
//
//	type Config struct {
//		AppName  string        `env:"APP_NAME" envDefault:"coachdesk"`
//		Interval time.Duration `env:"QUEUE_POLL_INTERVAL" envDefault:"1s"`
//		RedisURL string        `env:"REDIS_URL,required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
//   - ErrParsingConfig: the environment does not satisfy the struct tags
//   - ErrLoadingEnvFile: an explicit .env file could not be read
//   - ErrNilPointer: nil passed to Load / MustLoad
//
// Tests that change the environment between loads should call ResetCache.
package config
