package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Harjeet1309/pdfmerge/internal/match"
)

// mapLookup serves keys from a fixed map instead of the process environment.
func mapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxConcurrent != 4 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 4)
	}
	if cfg.Upload.MaxFileSize != 52428800 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 52428800)
	}
	if cfg.Compare.LineThreshold != 85 || cfg.Compare.ColumnThreshold != 80 {
		t.Errorf("thresholds = %d/%d, want 85/80", cfg.Compare.LineThreshold, cfg.Compare.ColumnThreshold)
	}
	if !cfg.Compare.ReconstructText {
		t.Error("Compare.ReconstructText = false, want true")
	}
	wantKeywords := []string{"RollNo", "Name", "Department", "Grade"}
	if !reflect.DeepEqual(cfg.Compare.HeaderKeywords, wantKeywords) {
		t.Errorf("Compare.HeaderKeywords = %v, want %v", cfg.Compare.HeaderKeywords, wantKeywords)
	}
	if cfg.Results.TTL != 30*time.Minute {
		t.Errorf("Results.TTL = %v, want 30m", cfg.Results.TTL)
	}
	if cfg.Rate.RequestsPerMinute != 100 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 100)
	}
	if cfg.Security.RequireAPIKey {
		t.Error("Security.RequireAPIKey = true, want false")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COMPARE_MAX_CONCURRENT", "10")
	t.Setenv("COMPARE_LINE_THRESHOLD", "70")
	t.Setenv("COMPARE_RECONSTRUCT_TEXT", "false")
	t.Setenv("COMPARE_JOIN_MODE", "Composite")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxConcurrent != 10 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}

	opts := cfg.Compare.Options()
	if opts.LineThreshold != 70 || opts.Reconstruct || opts.JoinMode != match.JoinComposite {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{
		"PORT":                  "3000",
		"UPLOAD_MAX_CONCURRENT": "2",
		"RATE_LIMIT_UPLOAD":     "5",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Upload.MaxConcurrent != 2 {
		t.Errorf("Upload.MaxConcurrent = %d, want 2", cfg.Upload.MaxConcurrent)
	}
	if cfg.Rate.CompareLimit != 5 {
		t.Errorf("Rate.CompareLimit = %d, want 5", cfg.Rate.CompareLimit)
	}
}

func TestLoad_PrimaryWinsOverAlt(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{"SERVER_PORT": "9000", "PORT": "3000"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SERVER_PORT", "eighty"},
		{"COMPARE_EXTRACT_TIMEOUT", "soon"},
		{"COMPARE_RECONSTRUCT_TEXT", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, err := LoadFrom(mapLookup(map[string]string{tt.key: tt.value}))
			if err == nil {
				t.Fatalf("LoadFrom() expected error for %s=%q", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error should mention %s: %v", tt.key, err)
			}
		})
	}
}

func TestLoad_Duration(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{
		"SERVER_READ_TIMEOUT":     "45s",
		"UPLOAD_MAX_WAIT_TIME":    "1m30s",
		"COMPARE_EXTRACT_TIMEOUT": "5s",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Upload.MaxWaitTime != 90*time.Second {
		t.Errorf("Upload.MaxWaitTime = %v, want %v", cfg.Upload.MaxWaitTime, 90*time.Second)
	}
	if cfg.Compare.ExtractTimeout != 5*time.Second {
		t.Errorf("Compare.ExtractTimeout = %v, want 5s", cfg.Compare.ExtractTimeout)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadFrom(mapLookup(map[string]string{
		"TRUSTED_PROXIES":         "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16",
		"COMPARE_HEADER_KEYWORDS": "Invoice, ,Amount",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if !reflect.DeepEqual(cfg.Security.TrustedProxies, expected) {
		t.Errorf("TrustedProxies = %v, want %v", cfg.Security.TrustedProxies, expected)
	}
	if !reflect.DeepEqual(cfg.Compare.HeaderKeywords, []string{"Invoice", "Amount"}) {
		t.Errorf("HeaderKeywords = %v", cfg.Compare.HeaderKeywords)
	}
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadFrom(mapLookup(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero file size", func(c *Config) { c.Upload.MaxFileSize = 0 }, "UPLOAD_MAX_FILE_SIZE"},
		{"line threshold above 100", func(c *Config) { c.Compare.LineThreshold = 101 }, "COMPARE_LINE_THRESHOLD"},
		{"column threshold zero", func(c *Config) { c.Compare.ColumnThreshold = 0 }, "COMPARE_COLUMN_THRESHOLD"},
		{"unknown join mode", func(c *Config) { c.Compare.JoinMode = "outer" }, "COMPARE_JOIN_MODE"},
		{"zero extract timeout", func(c *Config) { c.Compare.ExtractTimeout = 0 }, "COMPARE_EXTRACT_TIMEOUT"},
		{"zero result ttl", func(c *Config) { c.Results.TTL = 0 }, "RESULT_TTL"},
		{"api key required without keys", func(c *Config) { c.Security.RequireAPIKey = true }, "API_KEYS"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %s: %v", tt.want, err)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Server.Port = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, key := range []string{"SERVER_PORT", "LOG_LEVEL"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error should mention %s: %v", key, err)
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
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Upload.MaxConcurrent = 3
	cfg.Results.TTL = time.Hour

	sc := cfg.ServiceConfig()
	if sc.MaxConcurrent != 3 || sc.ResultTTL != time.Hour || sc.MaxWait != cfg.Upload.MaxWaitTime {
		t.Errorf("ServiceConfig() = %+v", sc)
	}
	if sc.Options.ColumnThreshold != 80 || sc.Options.JoinMode != match.JoinSingle {
		t.Errorf("ServiceConfig().Options = %+v", sc.Options)
	}

	// Options must not alias the configured keywords.
	sc.Options.HeaderKeywords[0] = "changed"
	if cfg.Compare.HeaderKeywords[0] != "RollNo" {
		t.Error("Options() shares the HeaderKeywords slice")
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig(t)
	cfg.Security.APIKeys = []string{"s3cret-key", "other-key"}

	str := cfg.String()
	if strings.Contains(str, "s3cret") || strings.Contains(str, "other-key") {
		t.Error("String() should mask API keys")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}
