// Package config provides centralized configuration management for the application.
// Settings come from defaults, then an optional YAML file, then environment
// variables, and are validated on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Catalog  CatalogConfig   `yaml:"catalog"`
	Server   ServerConfig    `yaml:"server"`
	Rate     RateLimitConfig `yaml:"rate"`
	Security SecurityConfig  `yaml:"security"`
	Logging  LoggingConfig   `yaml:"logging"`
	Output   OutputConfig    `yaml:"output"`
}

// CatalogConfig holds card catalog client settings.
type CatalogConfig struct {
	// BaseURL is the catalog API root (default: https://api.scryfall.com)
	BaseURL string `yaml:"base_url" env:"CATALOG_BASE_URL" default:"https://api.scryfall.com"`

	// MinDelay is the minimum spacing between outbound calls (default: 100ms)
	MinDelay time.Duration `yaml:"min_delay" env:"CATALOG_MIN_DELAY" default:"100ms"`

	// Timeout is the HTTP timeout for a single call (default: 30s)
	Timeout time.Duration `yaml:"timeout" env:"CATALOG_TIMEOUT" default:"30s"`

	// MaxRetries is how many times a 429 or 5xx is retried (default: 3)
	MaxRetries int `yaml:"max_retries" env:"CATALOG_MAX_RETRIES" default:"3"`

	// RetryBackoff is the first retry delay, doubled each attempt (default: 1s)
	RetryBackoff time.Duration `yaml:"retry_backoff" env:"CATALOG_RETRY_BACKOFF" default:"1s"`

	// UserAgent is sent with every call
	UserAgent string `yaml:"user_agent" env:"CATALOG_USER_AGENT" default:"mtgprice/1.0"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `yaml:"host" env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `yaml:"port" env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0, runs can be long)
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RunTimeout bounds a single pricing run (default: 10m)
	RunTimeout time.Duration `yaml:"run_timeout" env:"SERVER_RUN_TIMEOUT" default:"10m"`

	// MaxBodySize is the largest accepted upload in bytes (default: 10MB)
	MaxBodySize int64 `yaml:"max_body_size" env:"SERVER_MAX_BODY_SIZE" default:"10485760"`

	// MaxConcurrentRuns caps runs in flight against the shared catalog (default: 2)
	MaxConcurrentRuns int `yaml:"max_concurrent_runs" env:"SERVER_MAX_CONCURRENT_RUNS" default:"2"`

	// RunWaitTime is how long a request waits for a run slot (default: 30s)
	RunWaitTime time.Duration `yaml:"run_wait_time" env:"SERVER_RUN_WAIT_TIME" default:"30s"`
}

// RateLimitConfig holds per-IP request limits for serve mode.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per IP (default: 60)
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"60"`

	// Burst is how many requests may arrive at once (default: 10)
	Burst int `yaml:"burst" env:"RATE_LIMIT_BURST" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES"`

	// APIKeys is a comma-separated list of accepted X-API-Key values
	APIKeys []string `yaml:"api_keys" env:"API_KEYS"`

	// RequireAPIKey rejects API calls without a valid key (default: false)
	RequireAPIKey bool `yaml:"require_api_key" env:"REQUIRE_API_KEY" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	// Format is used when the output path has no recognized extension: csv or xlsx (default: csv)
	Format string `yaml:"format" env:"OUTPUT_FORMAT" default:"csv"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
