/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Configuration loading for jsonlens. Values come from built-in defaults,
an optional config file, a .env file and JSONLENS_* environment variables, in
increasing order of precedence, with bound command-line flags on top.
*/

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kleascm/jsonlens/pkg/logging"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. JSONLENS_SERVER_ADDR
const EnvPrefix = "JSONLENS"

// Config is the full application configuration
type Config struct {
	Logging   logging.LoggerConfig `mapstructure:"logging"`
	Transport TransportConfig      `mapstructure:"transport"`
	History   HistoryConfig        `mapstructure:"history"`
	Cache     CacheConfig          `mapstructure:"cache"`
	Server    ServerConfig         `mapstructure:"server"`
	Chart     ChartConfig          `mapstructure:"chart"`
}

// TransportConfig controls outbound HTTP requests
type TransportConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"`
	UserAgent       string        `mapstructure:"user_agent"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// HistoryConfig controls where past requests are kept
type HistoryConfig struct {
	Path  string `mapstructure:"path"`
	Limit int    `mapstructure:"limit"`
}

// CacheConfig sizes the inferred-schema cache
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ChartConfig holds chart defaults
type ChartConfig struct {
	Type string `mapstructure:"type"`
}

// SetDefaults registers every key with its default value
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output_dir", "")
	v.SetDefault("logging.max_files", 10)
	v.SetDefault("logging.timestamp", true)
	v.SetDefault("logging.caller", false)
	v.SetDefault("logging.colors", true)

	v.SetDefault("transport.timeout", 30*time.Second)
	v.SetDefault("transport.follow_redirects", true)
	v.SetDefault("transport.user_agent", "jsonlens/1.0")
	v.SetDefault("transport.max_body_bytes", int64(10<<20))

	v.SetDefault("history.path", "./.jsonlens/history.json")
	v.SetDefault("history.limit", 100)

	v.SetDefault("cache.size", 1024)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("chart.type", "bar")
}

// Load reads configuration into a Config. When the "config" key is set, that file is read
// first. A missing .env file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	if c.Transport.Timeout <= 0 {
		return fmt.Errorf("transport.timeout must be positive")
	}
	if c.Transport.MaxBodyBytes <= 0 {
		return fmt.Errorf("transport.max_body_bytes must be positive")
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be positive")
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive")
	}
	if c.Chart.Type != "bar" && c.Chart.Type != "line" {
		return fmt.Errorf("unsupported chart.type: %s", c.Chart.Type)
	}
	return nil
}
