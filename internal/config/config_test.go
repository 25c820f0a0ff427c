package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
	assert.Equal(t, 6*time.Second, cfg.RefillInterval)
}

func TestLoadRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	cfg := LoadRateLimitConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	for k, v := range map[string]string{
		"APP_ENV": "test", "APP_PORT": "8080",
		"DB_USER": "root", "DB_HOST": "db", "DB_PORT": "3306", "DB_NAME": "shelter",
		"SESSION_SECRET": "s3cret", "SESSION_TTL_MIN": "30",
		"AMQP_URL": "amqp://broker/", "EVENTS_ENABLED": "true",
	} {
		t.Setenv(k, v)
	}
	t.Setenv("RABBITMQ_URL", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "amqp://broker/", cfg.AMQPURL)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, "shelter.events", cfg.EventsQueue)
	assert.Equal(t, "logs/db_log.txt", cfg.EventLogPath)
	assert.Equal(t, 2*time.Second, cfg.EventsDial)
}

func TestLoadCacheConfig(t *testing.T) {
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.TTL)
	assert.Equal(t, "shelter:lookup", cfg.Prefix)

	t.Setenv("CACHE_TTL", "-5s")
	t.Setenv("CACHE_ENABLED", "false")
	cfg = LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Minute, cfg.TTL)
}
