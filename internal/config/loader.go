package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/pricemachine/internal/core"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Prices validation
	if c.Prices.NameFilter == "" {
		errs = append(errs, "PRICES_NAME_FILTER must not be empty")
	}
	if c.Prices.Extension == "" {
		errs = append(errs, "PRICES_EXTENSION must not be empty")
	}
	if _, err := core.ParseEncoding(c.Prices.Encoding); err != nil {
		errs = append(errs, fmt.Sprintf("PRICES_ENCODING: %v", err))
	}
	if c.Prices.Workers <= 0 {
		errs = append(errs, "PRICES_WORKERS must be positive")
	}
	if c.Prices.MaxFileSize < 0 {
		errs = append(errs, "PRICES_MAX_FILE_SIZE must be non-negative")
	}
	if c.Prices.LoadTimeout <= 0 {
		errs = append(errs, "PRICES_LOAD_TIMEOUT must be positive")
	}
	if c.Prices.ReloadInterval < 0 {
		errs = append(errs, "PRICES_RELOAD_INTERVAL must be non-negative")
	}

	// Export validation
	if c.Export.Output == "" {
		errs = append(errs, "EXPORT_OUTPUT must not be empty")
	}
	validExports := map[string]bool{"html": true, "csv": true, "xlsx": true, "json": true}
	if !validExports[strings.ToLower(c.Export.Format)] {
		errs = append(errs, fmt.Sprintf("EXPORT_FORMAT (%q) must be one of: html, csv, xlsx, json", c.Export.Format))
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "SERVER_REQUEST_TIMEOUT must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.ReloadLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_RELOAD must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// LoadOptions translates the prices section into aggregation options.
// Validate must have accepted the config.
func (c *Config) LoadOptions() core.LoadOptions {
	enc, _ := core.ParseEncoding(c.Prices.Encoding)
	return core.LoadOptions{
		NameFilter:  c.Prices.NameFilter,
		Extension:   c.Prices.Extension,
		Encoding:    enc,
		Workers:     c.Prices.Workers,
		MaxFileSize: c.Prices.MaxFileSize,
		Timeout:     c.Prices.LoadTimeout,
	}
}

// String returns a safe string representation of the config for logging.
// The Seq endpoint is masked since it may carry an API key.
func (c *Config) String() string {
	seq := "[UNSET]"
	if c.Logging.SeqURL != "" {
		seq = "[MASKED]"
	}

	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Prices: {Dir: %q, NameFilter: %q, Extension: %q, Encoding: %q, Workers: %d}, ",
		c.Prices.Dir, c.Prices.NameFilter, c.Prices.Extension, c.Prices.Encoding, c.Prices.Workers))
	b.WriteString(fmt.Sprintf("Export: {Output: %q, Format: %q}, ", c.Export.Output, c.Export.Format))
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {TrustedProxies: %v, RequireAPIKey: %v, APIKeys: [%d MASKED]}, ",
		c.Security.TrustedProxies, c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, SeqURL: %s}",
		c.Logging.Level, c.Logging.Format, seq))
	b.WriteString("}")
	return b.String()
}
