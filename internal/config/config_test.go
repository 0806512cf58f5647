package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	if cfg.HTTP.UserAgent == "" {
		t.Fatalf("default user agent must be set")
	}
	if cfg.HTTP.TimeoutSeconds != 30 {
		t.Fatalf("expected timeout 30s, got %d", cfg.HTTP.TimeoutSeconds)
	}
	if !cfg.HTTP.RespectRobots {
		t.Fatalf("robots.txt should be respected by default")
	}
	if cfg.Discovery.MaxDepth != 2 || cfg.Discovery.MaxPages != 60 || cfg.Discovery.MaxPDFs != 40 {
		t.Fatalf("unexpected crawl budget defaults: %+v", cfg.Discovery)
	}
	if cfg.Discovery.HubThreshold != 8 {
		t.Fatalf("expected hub threshold 8, got %d", cfg.Discovery.HubThreshold)
	}
	if cfg.Search.Endpoint == "" || cfg.Search.MaxQueries != 10 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if !cfg.Download.Enabled || cfg.Download.Dir == "" {
		t.Fatalf("unexpected download defaults: %+v", cfg.Download)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
http:
  timeout_seconds: 10
  delay_ms: 100
discovery:
  max_pages: 5
download:
  enabled: false
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	if cfg.HTTP.TimeoutSeconds != 10 {
		t.Fatalf("file value not applied, timeout = %d", cfg.HTTP.TimeoutSeconds)
	}
	if cfg.Discovery.MaxPages != 5 {
		t.Fatalf("file value not applied, max_pages = %d", cfg.Discovery.MaxPages)
	}
	if cfg.Download.Enabled {
		t.Fatalf("file value not applied, download should be disabled")
	}
	if cfg.Discovery.MaxDepth != 2 {
		t.Fatalf("defaults should fill unset keys, max_depth = %d", cfg.Discovery.MaxDepth)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	base, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty user agent", func(c *Config) { c.HTTP.UserAgent = "" }},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }},
		{"negative retries", func(c *Config) { c.HTTP.MaxRetries = -1 }},
		{"negative depth", func(c *Config) { c.Discovery.MaxDepth = -1 }},
		{"zero pages", func(c *Config) { c.Discovery.MaxPages = 0 }},
		{"zero pdf cap", func(c *Config) { c.Discovery.MaxPDFs = 0 }},
		{"zero target", func(c *Config) { c.Discovery.TargetCount = 0 }},
		{"zero total cap", func(c *Config) { c.Discovery.MaxTotal = 0 }},
		{"zero queries", func(c *Config) { c.Search.MaxQueries = 0 }},
		{"zero qps", func(c *Config) { c.Search.QPS = 0 }},
		{"download enabled without dir", func(c *Config) {
			c.Download.Enabled = true
			c.Download.Dir = ""
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{TimeoutSeconds: 12, DelayMs: 250}}
	if cfg.Timeout() != 12*time.Second {
		t.Fatalf("timeout helper returned %v", cfg.Timeout())
	}
	if cfg.Delay() != 250*time.Millisecond {
		t.Fatalf("delay helper returned %v", cfg.Delay())
	}
}
