// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Prices   PricesConfig
	Export   ExportConfig
	Server   ServerConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// PricesConfig controls which files make up the price list and how they are read.
type PricesConfig struct {
	// Dir is the directory scanned for price lists (default: directory of the executable)
	Dir string `env:"PRICES_DIR" envAlt:"PRICE_DIR"`

	// NameFilter is the substring every price-list file name contains (default: price)
	NameFilter string `env:"PRICES_NAME_FILTER" default:"price"`

	// Extension is the required file extension (default: .csv)
	Extension string `env:"PRICES_EXTENSION" default:".csv"`

	// Encoding is the text encoding of every file: utf-8, windows-1251, koi8-r (default: utf-8)
	Encoding string `env:"PRICES_ENCODING" default:"utf-8"`

	// Workers is the number of files parsed in parallel (default: 4)
	Workers int `env:"PRICES_WORKERS" default:"4"`

	// MaxFileSize is the largest file in bytes that is read (default: 10MB)
	MaxFileSize int64 `env:"PRICES_MAX_FILE_SIZE" default:"10485760"`

	// LoadTimeout bounds a single aggregation run (default: 2m)
	LoadTimeout time.Duration `env:"PRICES_LOAD_TIMEOUT" default:"2m"`

	// ReloadInterval reloads the directory periodically in serve mode (default: 0, disabled)
	ReloadInterval time.Duration `env:"PRICES_RELOAD_INTERVAL" default:"0s"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	// Output is the file written on start-up (default: output.html)
	Output string `env:"EXPORT_OUTPUT" default:"output.html"`

	// Format is the report format: html, csv, xlsx, json (default: html)
	Format string `env:"EXPORT_FORMAT" default:"html"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ReloadLimit is requests per minute for the reload endpoint (default: 6)
	ReloadLimit int `env:"RATE_LIMIT_RELOAD" default:"6"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards the reload endpoint with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// SeqURL is an optional Seq ingestion endpoint records are also sent to
	SeqURL string `env:"LOG_SEQ_URL"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
