// Package config loads mucore settings from MUCORE_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds process-wide settings. Command-line flags override it.
type Config struct {
	// DB is the article store path. ":memory:" keeps everything in memory.
	DB string `env:"MUCORE_DB" envDefault:"mucore.db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"MUCORE_LOG_LEVEL" envDefault:"info"`

	// MaxCascadeDepth bounds one cascade; <= 0 disables the bound.
	MaxCascadeDepth int `env:"MUCORE_MAX_CASCADE_DEPTH" envDefault:"1000"`

	// ServiceName is reported as the OpenTelemetry service.name.
	ServiceName string `env:"MUCORE_SERVICE_NAME" envDefault:"mucore"`

	// OTelEndpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	OTelEndpoint string `env:"MUCORE_OTEL_ENDPOINT"`

	// OTelEnabled can switch tracing off even when an endpoint is set.
	OTelEnabled bool `env:"MUCORE_OTEL_ENABLED" envDefault:"true"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (want debug, info, warn or error)", c.LogLevel)
	}
}

// TracingEnabled reports whether spans should be exported.
func (c Config) TracingEnabled() bool {
	return c.OTelEnabled && c.OTelEndpoint != ""
}
