package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_BASE_URL", "API_TIMEOUT_MS", "API_RATE_RPS", "REDIS_ADDR", "NATS_URL", "SESSION_TTL", "SESSION_SWEEP"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "http://localhost:8000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 60*time.Second, cfg.APITimeout)
	assert.Equal(t, "maturity:session:credential", cfg.SessionKey)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweep)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.RateLimit().Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api/v1")
	t.Setenv("API_TIMEOUT_MS", "1500")
	t.Setenv("API_RATE_RPS", "2.5")
	t.Setenv("API_RATE_BURST", "4")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_SWEEP", "0s")

	cfg := Load()
	assert.Zero(t, cfg.SessionSweep)
	assert.Equal(t, "https://api.example.com/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.APITimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)

	rl := cfg.RateLimit()
	assert.True(t, rl.Enabled())
	assert.Equal(t, 2.5, rl.RequestsPerSecond)
	assert.Equal(t, 4, rl.Burst)
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("API_TIMEOUT_MS", "-5")
	assert.Equal(t, 60*time.Second, Load().APITimeout)
}
