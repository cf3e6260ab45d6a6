// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"

	"github.com/Harjeet1309/pdfmerge/internal/core"
	"github.com/Harjeet1309/pdfmerge/internal/match"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Compare  CompareConfig
	Results  ResultsConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request, uploads included (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing the response (default: 3m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"3m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 2m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"2m"`
}

// UploadConfig holds PDF upload and comparison capacity settings.
type UploadConfig struct {
	// MaxFileSize is the maximum size of one PDF in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// MaxConcurrent is the maximum number of comparisons running at once (default: 4)
	MaxConcurrent int `env:"COMPARE_MAX_CONCURRENT" envAlt:"UPLOAD_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a comparison slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// CompareConfig holds the matching thresholds and comparison behaviour.
type CompareConfig struct {
	// LineThreshold is the minimum token-set score (0-100) for two text lines to match (default: 85)
	LineThreshold int `env:"COMPARE_LINE_THRESHOLD" default:"85"`

	// ColumnThreshold is the minimum name similarity (0-100) for two columns to match (default: 80)
	ColumnThreshold int `env:"COMPARE_COLUMN_THRESHOLD" default:"80"`

	// ReconstructText turns common text lines back into a table (default: true)
	ReconstructText bool `env:"COMPARE_RECONSTRUCT_TEXT" default:"true"`

	// HeaderKeywords mark a text line as a table header
	HeaderKeywords []string `env:"COMPARE_HEADER_KEYWORDS" default:"RollNo,Name,Department,Grade"`

	// JoinMode is "single" (first column match) or "composite" (all matches) (default: single)
	JoinMode string `env:"COMPARE_JOIN_MODE" default:"single"`

	// ExtractTimeout bounds each extraction call (default: 30s)
	ExtractTimeout time.Duration `env:"COMPARE_EXTRACT_TIMEOUT" default:"30s"`
}

// ResultsConfig holds settings for the in-memory result store.
type ResultsConfig struct {
	// TTL is how long a result stays downloadable (default: 30m)
	TTL time.Duration `env:"RESULT_TTL" default:"30m"`

	// SweepInterval is how often expired results are dropped (default: 1m)
	SweepInterval time.Duration `env:"RESULT_SWEEP_INTERVAL" default:"1m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// CompareLimit is requests per minute for comparison endpoints (default: 10)
	CompareLimit int `env:"RATE_LIMIT_COMPARE" envAlt:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the /api routes with an X-API-Key header (default: false)
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
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Options converts the comparison settings to core.Options. JoinMode must
// already have passed Validate; an unknown mode falls back to single.
func (c *CompareConfig) Options() core.Options {
	mode, err := match.ParseJoinMode(c.JoinMode)
	if err != nil {
		mode = match.JoinSingle
	}
	return core.Options{
		LineThreshold:   c.LineThreshold,
		ColumnThreshold: c.ColumnThreshold,
		Reconstruct:     c.ReconstructText,
		HeaderKeywords:  append([]string(nil), c.HeaderKeywords...),
		JoinMode:        mode,
		ExtractTimeout:  c.ExtractTimeout,
	}
}

// ServiceConfig assembles the core.Service settings.
func (c *Config) ServiceConfig() core.ServiceConfig {
	return core.ServiceConfig{
		Options:       c.Compare.Options(),
		MaxConcurrent: c.Upload.MaxConcurrent,
		MaxWait:       c.Upload.MaxWaitTime,
		ResultTTL:     c.Results.TTL,
	}
}
