// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Search    SearchConfig    `mapstructure:"search"`
	Download  DownloadConfig  `mapstructure:"download"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// HTTPConfig configures the fetch capability.
type HTTPConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	DelayMs        int    `mapstructure:"delay_ms"`
	RespectRobots  bool   `mapstructure:"respect_robots"`
}

// DiscoveryConfig governs the crawl budget and the hub rubric threshold.
// These are tunable heuristics, not contracts.
type DiscoveryConfig struct {
	MaxDepth     int `mapstructure:"max_depth"`
	MaxPages     int `mapstructure:"max_pages"`
	MaxPDFs      int `mapstructure:"max_pdfs"`
	TargetCount  int `mapstructure:"target_count"`
	MaxTotal     int `mapstructure:"max_total"`
	HubThreshold int `mapstructure:"hub_threshold"`
}

// SearchConfig configures the Exa fallback client.
type SearchConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	APIKey     string  `mapstructure:"api_key"`
	NumResults int     `mapstructure:"num_results"`
	MaxQueries int     `mapstructure:"max_queries"`
	QPS        float64 `mapstructure:"qps"`
}

// DownloadConfig sets where verified documents are persisted.
type DownloadConfig struct {
	Dir     string `mapstructure:"dir"`
	Enabled bool   `mapstructure:"enabled"`
}

// Load builds a Config from disk/environment. path may be empty, in which
// case defaults plus HARVESTER_* env vars apply.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.development", true)
	v.SetDefault("http.user_agent", "PCF-Harvester/3.0 (+https://github.com/Mshahabmemon/Web-crawler-for-downloading-pdfs)")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 3)
	v.SetDefault("http.delay_ms", 800)
	v.SetDefault("http.respect_robots", true)
	v.SetDefault("discovery.max_depth", 2)
	v.SetDefault("discovery.max_pages", 60)
	v.SetDefault("discovery.max_pdfs", 40)
	v.SetDefault("discovery.target_count", 20)
	v.SetDefault("discovery.max_total", 100)
	v.SetDefault("discovery.hub_threshold", 8)
	v.SetDefault("search.endpoint", "https://api.exa.ai/search")
	v.SetDefault("search.num_results", 30)
	v.SetDefault("search.max_queries", 10)
	v.SetDefault("search.qps", 1.0)
	v.SetDefault("download.dir", "data/pcf")
	v.SetDefault("download.enabled", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent must be set")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.Discovery.MaxDepth < 0 {
		return fmt.Errorf("discovery.max_depth must be >= 0")
	}
	if c.Discovery.MaxPages <= 0 {
		return fmt.Errorf("discovery.max_pages must be > 0")
	}
	if c.Discovery.MaxPDFs <= 0 {
		return fmt.Errorf("discovery.max_pdfs must be > 0")
	}
	if c.Discovery.TargetCount <= 0 {
		return fmt.Errorf("discovery.target_count must be > 0")
	}
	if c.Discovery.MaxTotal <= 0 {
		return fmt.Errorf("discovery.max_total must be > 0")
	}
	if c.Search.MaxQueries <= 0 {
		return fmt.Errorf("search.max_queries must be > 0")
	}
	if c.Search.QPS <= 0 {
		return fmt.Errorf("search.qps must be > 0")
	}
	if c.Download.Enabled && c.Download.Dir == "" {
		return fmt.Errorf("download.dir must be set when download is enabled")
	}
	return nil
}

// Timeout converts the HTTP timeout into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Delay converts the per-domain politeness delay into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.HTTP.DelayMs) * time.Millisecond
}
