package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	Forecast  ForecastConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds document store configuration
type StoreConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	AuthToken string `mapstructure:"auth_token"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds driver-vehicle matching configuration
type MatchingConfig struct {
	TopN               int  `mapstructure:"top_n"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// ForecastConfig holds demand forecast configuration
type ForecastConfig struct {
	DefaultTimeframe string        `mapstructure:"default_timeframe"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
}

// SchedulerConfig holds the forecast refresh schedule
type SchedulerConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Cron      string `mapstructure:"cron"`
	Timeframe string `mapstructure:"timeframe"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ricemill/")

	// Environment variable settings
	v.SetEnvPrefix("RICEMILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Store defaults are empty strings so AutomaticEnv can bind the keys
	v.SetDefault("store.base_url", "")
	v.SetDefault("store.auth_token", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "15m")

	// Matching defaults
	v.SetDefault("matching.top_n", 3)
	v.SetDefault("matching.enable_debug_logging", false)

	// Forecast defaults
	v.SetDefault("forecast.default_timeframe", "month")
	v.SetDefault("forecast.cache_ttl", "15m")

	// Scheduler defaults: refresh once a day before the morning shift
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.cron", "0 6 * * *")
	v.SetDefault("scheduler.timeframe", "month")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.BaseURL == "" {
		return fmt.Errorf("document store base URL is required (set RICEMILL_STORE_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Matching.TopN < 0 {
		return fmt.Errorf("matching top_n must not be negative, got: %d", config.Matching.TopN)
	}

	return nil
}
