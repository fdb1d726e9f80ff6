package config

import (
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/pricemachine/internal/core"
)

func validConfig() *Config {
	return &Config{
		Prices: PricesConfig{
			NameFilter:  "price",
			Extension:   ".csv",
			Encoding:    "utf-8",
			Workers:     4,
			MaxFileSize: 1024,
			LoadTimeout: time.Minute,
		},
		Export:  ExportConfig{Output: "output.html", Format: "html"},
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second, RequestTimeout: time.Second},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, ReloadLimit: 6},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prices.Dir != "" {
		t.Errorf("Prices.Dir = %q, want empty", cfg.Prices.Dir)
	}
	if cfg.Prices.NameFilter != "price" {
		t.Errorf("Prices.NameFilter = %q, want %q", cfg.Prices.NameFilter, "price")
	}
	if cfg.Prices.Extension != ".csv" {
		t.Errorf("Prices.Extension = %q, want %q", cfg.Prices.Extension, ".csv")
	}
	if cfg.Prices.Workers != 4 {
		t.Errorf("Prices.Workers = %d, want %d", cfg.Prices.Workers, 4)
	}
	if cfg.Prices.MaxFileSize != 10485760 {
		t.Errorf("Prices.MaxFileSize = %d, want %d", cfg.Prices.MaxFileSize, 10485760)
	}
	if cfg.Export.Output != "output.html" {
		t.Errorf("Export.Output = %q, want %q", cfg.Export.Output, "output.html")
	}
	if cfg.Export.Format != "html" {
		t.Errorf("Export.Format = %q, want %q", cfg.Export.Format, "html")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("PRICES_DIR", "/srv/prices")
	t.Setenv("PRICES_ENCODING", "windows-1251")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prices.Dir != "/srv/prices" {
		t.Errorf("Prices.Dir = %q, want %q", cfg.Prices.Dir, "/srv/prices")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if got := cfg.LoadOptions().Encoding; got != core.EncodingWindows1251 {
		t.Errorf("LoadOptions().Encoding = %q, want %q", got, core.EncodingWindows1251)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("PRICE_DIR", "/opt/alt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prices.Dir != "/opt/alt" {
		t.Errorf("Prices.Dir = %q, want %q", cfg.Prices.Dir, "/opt/alt")
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("PRICES_WORKERS", "many")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-integer PRICES_WORKERS")
	}
	if !strings.Contains(err.Error(), "PRICES_WORKERS") {
		t.Errorf("error should mention PRICES_WORKERS: %v", err)
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("PRICES_LOAD_TIMEOUT", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Prices.LoadTimeout != 90*time.Second {
		t.Errorf("Prices.LoadTimeout = %v, want %v", cfg.Prices.LoadTimeout, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"unknown encoding", func(c *Config) { c.Prices.Encoding = "latin-9" }, "PRICES_ENCODING"},
		{"zero workers", func(c *Config) { c.Prices.Workers = 0 }, "PRICES_WORKERS"},
		{"empty filter", func(c *Config) { c.Prices.NameFilter = "" }, "PRICES_NAME_FILTER"},
		{"unknown export", func(c *Config) { c.Export.Format = "pdf" }, "EXPORT_FORMAT"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"rate without limit", func(c *Config) { c.Rate.RequestsPerMinute = 0 }, "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"api key required without keys", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"api key required with keys", func(c *Config) { c.Security.RequireAPIKey = true; c.Security.APIKeys = []string{"k"} }, ""},
		{"rate disabled", func(c *Config) { c.Rate.Enabled = false; c.Rate.RequestsPerMinute = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksSeqURL(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.SeqURL = "http://seq:5341?apiKey=secret"
	cfg.Security.APIKeys = []string{"topsecret"}

	str := cfg.String()
	if strings.Contains(str, "secret") {
		t.Error("String() should mask the Seq URL and API keys")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
