package email

// Config holds email service configuration.
// Postmark tokens are optional: without them, or with DevMode set, NewSender
// returns a DevSender that writes messages to DevOutputDir.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevMode              bool   `env:"EMAIL_DEV_MODE" envDefault:"false"`
	DevOutputDir         string `env:"EMAIL_DEV_OUTPUT_DIR" envDefault:"./tmp/emails"`
}

// NewSender picks the delivery backend for cfg.
func NewSender(cfg Config) (EmailSender, error) {
	if cfg.DevMode || (cfg.PostmarkServerToken == "" && cfg.PostmarkAccountToken == "") {
		if cfg.DevOutputDir == "" {
			return nil, ErrInvalidConfig
		}
		return NewDevSender(cfg.DevOutputDir), nil
	}
	s, err := NewPostmarkClient(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
