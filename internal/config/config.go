// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	HostLimit  HostLimitConfig  `mapstructure:"hostlimit"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port    int `mapstructure:"port"`
	MaxURLs int `mapstructure:"max_urls"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// FetchConfig governs the article fetch stage.
type FetchConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	MaxConcurrent  int    `mapstructure:"max_concurrent"`
}

// AnalysisConfig sizes the CPU worker pool and its per-document deadline.
type AnalysisConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	PoolSize       int `mapstructure:"pool_size"`
	QueueDepth     int `mapstructure:"queue_depth"`
}

// DictionaryConfig points at the charged-word list.
type DictionaryConfig struct {
	Path string `mapstructure:"path"`
}

// HostLimitConfig configures optional per-host request rate limiting.
type HostLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JAUNDICE")
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
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_urls", 10)
	v.SetDefault("fetch.timeout_seconds", 5)
	v.SetDefault("fetch.user_agent", "jaundice-rate/0.1")
	v.SetDefault("fetch.max_concurrent", 10)
	v.SetDefault("analysis.timeout_seconds", 3)
	v.SetDefault("analysis.pool_size", 0)
	v.SetDefault("analysis.queue_depth", 64)
	v.SetDefault("dictionary.path", "charged_dict/negative.txt")
	v.SetDefault("hostlimit.enabled", false)
	v.SetDefault("hostlimit.rps", 2)
	v.SetDefault("hostlimit.burst", 1)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.MaxURLs <= 0 {
		return fmt.Errorf("server.max_urls must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.MaxConcurrent <= 0 {
		return fmt.Errorf("fetch.max_concurrent must be > 0")
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		return fmt.Errorf("analysis.timeout_seconds must be > 0")
	}
	if c.Dictionary.Path == "" {
		return fmt.Errorf("dictionary.path must be set")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	if c.HostLimit.Enabled && c.HostLimit.RPS <= 0 {
		return fmt.Errorf("hostlimit.rps must be > 0 when hostlimit is enabled")
	}
	return nil
}

// FetchTimeout returns the fetch stage deadline as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// AnalysisTimeout returns the analysis stage deadline as a duration.
func (c Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.TimeoutSeconds) * time.Second
}
