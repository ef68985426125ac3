package main

// appConfig holds process level settings. Component settings live next to
// their packages (queue.Config, redis.Config, email.Config, ...).
type appConfig struct {
	Env             string `env:"APP_ENV" envDefault:"development"`         // Env selects the log format: development, staging or production.
	Name            string `env:"APP_NAME" envDefault:"coachdesk-notifier"` // Name is logged as the service attribute.
	ProductName     string `env:"APP_PRODUCT_NAME" envDefault:"Coachdesk"`  // ProductName appears in email subjects and footers.
	BaseURL         string `env:"APP_BASE_URL"`                             // BaseURL builds links in emails; empty omits buttons.
	DeadLetterStore string `env:"DEAD_LETTER_STORE" envDefault:"redis"`     // DeadLetterStore is "redis" or "mongodb".
}

const (
	deadLetterStoreRedis = "redis"
	deadLetterStoreMongo = "mongodb"
)
