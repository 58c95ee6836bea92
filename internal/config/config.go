/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// OTLP exporter transports.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http"
)

// Log output formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config covers process level configuration read from environment variables.
type Config struct {
	Environment string `env:"BEACON_ENV" envDefault:"development"`
	HTTPBind    string `env:"BEACON_HTTP_BIND" envDefault:"0.0.0.0"`
	HTTPPort    int    `env:"BEACON_HTTP_PORT" envDefault:"8000"`
	LogLevel    string `env:"BEACON_LOG_LEVEL"` // defaults to debug in development, info otherwise
	LogFormat   string `env:"BEACON_LOG_FORMAT" envDefault:"console"`
	ServiceName string `env:"BEACON_SERVICE_NAME" envDefault:"beacon"`
	InstanceID  string `env:"BEACON_INSTANCE_ID"`

	// Tracing configuration
	OTLPEndpoint      string  `env:"BEACON_OTLP_ENDPOINT"`
	OTLPProtocol      string  `env:"BEACON_OTLP_PROTOCOL" envDefault:"grpc"`
	OTLPInsecure      bool    `env:"BEACON_OTLP_INSECURE" envDefault:"true"`
	TracingSampleRate float64 `env:"BEACON_TRACING_SAMPLE_RATE" envDefault:"1.0"`
	TracingEnabled    bool    `env:"-"`

	// Whether /metrics counts its own scrapes.
	MetricsSelfInstrument bool `env:"BEACON_METRICS_SELF_INSTRUMENT" envDefault:"false"`
	PlaygroundEnabled     bool `env:"BEACON_PLAYGROUND_ENABLED" envDefault:"true"`

	ShutdownTimeout time.Duration `env:"BEACON_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LegacyEnvWarnings []string `env:"-"`
}

// Load reads dotenv files and environment variables, applies defaults, and validates the result.
func Load() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	// Tracing follows endpoint presence unless explicitly switched.
	cfg.TracingEnabled = cfg.OTLPEndpoint != ""
	if raw := strings.TrimSpace(os.Getenv("BEACON_TRACING_ENABLED")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse BEACON_TRACING_ENABLED: %w", err)
		}
		if enabled && cfg.OTLPEndpoint == "" {
			return nil, errors.New("BEACON_TRACING_ENABLED is set but no OTLP endpoint is configured")
		}
		cfg.TracingEnabled = enabled
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
		if cfg.IsDevelopment() {
			cfg.LogLevel = "debug"
		}
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.OTLPProtocol = strings.ToLower(cfg.OTLPProtocol)

	if cfg.InstanceID == "" {
		cfg.InstanceID = uuid.NewString()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.LegacyEnvWarnings = detectLegacyEnvWarnings()
	return cfg, nil
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		return fmt.Errorf("tracing sample rate must be between 0 and 1, got %v", c.TracingSampleRate)
	}
	if c.OTLPProtocol != ProtocolGRPC && c.OTLPProtocol != ProtocolHTTP {
		return fmt.Errorf("unsupported OTLP protocol %q (must be grpc or http)", c.OTLPProtocol)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.LogFormat != LogFormatConsole && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// HTTPAddr returns the listen address for the HTTP server.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPBind, c.HTTPPort)
}

// IsDevelopment reports whether the process runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// loadEnvFiles loads dotenv files in priority order:
//  1. ENV_FILE (if set, only this file is loaded and it must exist)
//  2. .env.local
//  3. .env
//
// godotenv never overrides variables that are already set, so earlier files win.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		// A named file must exist.
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

func detectLegacyEnvWarnings() []string {
	legacy := map[string]string{
		"PORT":            "use BEACON_HTTP_PORT",
		"LOG_LEVEL":       "use BEACON_LOG_LEVEL",
		"OTLP_ENDPOINT":   "use BEACON_OTLP_ENDPOINT (or OTEL_EXPORTER_OTLP_ENDPOINT)",
		"TRACING_ENABLED": "use BEACON_TRACING_ENABLED",
	}

	warnings := make([]string, 0, len(legacy))
	for key, recommendation := range legacy {
		if os.Getenv(key) != "" {
			warnings = append(warnings, fmt.Sprintf("legacy env key %s is set; %s", key, recommendation))
		}
	}
	return warnings
}
