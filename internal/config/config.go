package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	RedisURL string `env:"REDIS_URL" envDefault:"localhost:6379"`

	OracleProvider string `env:"ORACLE_PROVIDER" envDefault:"venice"`
	VeniceAPIKey   string `env:"VENICE_API_KEY"`
	ModelName      string `env:"MODEL_NAME" envDefault:"llama-3.3-70b"`

	// HistoryLimit is the oracle conversation window per request.
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"10"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured log level string to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
