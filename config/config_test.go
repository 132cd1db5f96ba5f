package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RICEMILL_STORE_BASE_URL", "https://mill-console.firebaseio.example")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Server.Port = %s, want 8080", config.Server.Port)
	}
	if config.Server.Environment != "development" {
		t.Errorf("Server.Environment = %s, want development", config.Server.Environment)
	}
	if config.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %s, want memory", config.Cache.Type)
	}
	if config.Cache.TTL != 15*time.Minute {
		t.Errorf("Cache.TTL = %v, want 15m", config.Cache.TTL)
	}
	if config.Matching.TopN != 3 {
		t.Errorf("Matching.TopN = %d, want 3", config.Matching.TopN)
	}
	if config.Forecast.DefaultTimeframe != "month" {
		t.Errorf("Forecast.DefaultTimeframe = %s, want month", config.Forecast.DefaultTimeframe)
	}
	if config.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = true, want false by default")
	}
	if config.Scheduler.Cron != "0 6 * * *" {
		t.Errorf("Scheduler.Cron = %s, want 0 6 * * *", config.Scheduler.Cron)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RICEMILL_STORE_BASE_URL", "https://mill-console.firebaseio.example")
	t.Setenv("RICEMILL_STORE_AUTH_TOKEN", "secret-token")
	t.Setenv("RICEMILL_SERVER_PORT", "9090")
	t.Setenv("RICEMILL_CACHE_TYPE", "redis")
	t.Setenv("RICEMILL_CACHE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("RICEMILL_MATCHING_TOP_N", "5")
	t.Setenv("RICEMILL_SCHEDULER_ENABLED", "true")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Store.BaseURL != "https://mill-console.firebaseio.example" {
		t.Errorf("Store.BaseURL = %s", config.Store.BaseURL)
	}
	if config.Store.AuthToken != "secret-token" {
		t.Errorf("Store.AuthToken = %s", config.Store.AuthToken)
	}
	if config.Server.Port != "9090" {
		t.Errorf("Server.Port = %s, want 9090", config.Server.Port)
	}
	if config.Cache.Type != "redis" {
		t.Errorf("Cache.Type = %s, want redis", config.Cache.Type)
	}
	if config.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("Cache.RedisURL = %s", config.Cache.RedisURL)
	}
	if config.Matching.TopN != 5 {
		t.Errorf("Matching.TopN = %d, want 5", config.Matching.TopN)
	}
	if !config.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = false, want true")
	}
}

func TestLoadValidation(t *testing.T) {
	t.Run("requires the store base URL", func(t *testing.T) {
		t.Setenv("RICEMILL_STORE_BASE_URL", "")

		if _, err := Load(); err == nil {
			t.Error("Load() succeeded without a store base URL")
		}
	})

	t.Run("rejects unknown cache types", func(t *testing.T) {
		t.Setenv("RICEMILL_STORE_BASE_URL", "https://mill-console.firebaseio.example")
		t.Setenv("RICEMILL_CACHE_TYPE", "memcached")

		if _, err := Load(); err == nil {
			t.Error("Load() accepted an unknown cache type")
		}
	})

	t.Run("redis cache requires a URL", func(t *testing.T) {
		t.Setenv("RICEMILL_STORE_BASE_URL", "https://mill-console.firebaseio.example")
		t.Setenv("RICEMILL_CACHE_TYPE", "redis")

		if _, err := Load(); err == nil {
			t.Error("Load() accepted a redis cache without a URL")
		}
	})

	t.Run("rejects negative top_n", func(t *testing.T) {
		t.Setenv("RICEMILL_STORE_BASE_URL", "https://mill-console.firebaseio.example")
		t.Setenv("RICEMILL_MATCHING_TOP_N", "-1")

		if _, err := Load(); err == nil {
			t.Error("Load() accepted a negative top_n")
		}
	})
}
