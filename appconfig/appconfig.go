// Package appconfig reads the process environment. The core packages are
// configured explicitly; only the harness-level concerns (log level, the
// optional stats database) come from the environment.
package appconfig

import (
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

type AppConfig struct {
	LogLevel    string `env:"FELTPOKER_LOG_LEVEL" env-default:"info"`
	DatabaseURL string `env:"FELTPOKER_DATABASE_URL" env-default:""`
}

// LoadAppConfig reads environment variables into an AppConfig instance.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog level, defaulting to
// info for anything unrecognized.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
