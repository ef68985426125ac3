package logger

import (
	"fmt"
	"log/slog"
)

// Config overrides the environment preset from LOG_* variables.
type Config struct {
	Level  string `env:"LOG_LEVEL"`  // Level is debug, info, warn or error; empty keeps the preset.
	Format string `env:"LOG_FORMAT"` // Format is json or text; empty keeps the preset.
}

// Options converts cfg into options. Apply them after WithEnvironment.
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(c.Level)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		opts = append(opts, WithLevel(l))
	}
	switch f := Format(c.Format); f {
	case "":
	case FormatJSON, FormatText:
		opts = append(opts, WithFormat(f))
	default:
		return nil, fmt.Errorf("LOG_FORMAT: unknown format %q", c.Format)
	}
	return opts, nil
}
