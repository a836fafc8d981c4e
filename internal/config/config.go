package config

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/Checker-Finance/maturity-client/internal/rate"
	pkgconfig "github.com/Checker-Finance/maturity-client/pkg/config"
)

// Config holds the runtime configuration for the CLI and the mock backend.
type Config struct {
	ServiceName string // e.g. "maturityctl"
	Env         string // "dev", "uat", "prod"
	LogLevel    string

	APIBaseURL string // e.g. http://localhost:8000/api/v1
	APITimeout time.Duration
	RateRPS    float64 // 0 disables client-side rate limiting
	RateBurst  int

	RedisAddr  string // empty keeps remembered sessions in memory
	RedisDB    int
	RedisPass  string
	SessionKey string
	SessionTTL time.Duration // used when the token carries no expiry
	// SessionSweep is how often expired in-memory credentials are evicted; 0 disables.
	SessionSweep time.Duration

	NATSURL      string // empty disables session events
	EventsPrefix string

	AWSRegion   string
	MockAPIPort int
}

// Load loads configuration from environment variables and .env file if present.
func Load() *Config {
	// load .env silently (no error if missing)
	_ = godotenv.Load()

	return &Config{
		ServiceName:  pkgconfig.GetEnv("SERVICE_NAME", "maturityctl"),
		Env:          pkgconfig.GetEnv("ENV", "dev"),
		LogLevel:     pkgconfig.GetEnv("LOG_LEVEL", "info"),
		APIBaseURL:   pkgconfig.GetEnv("API_BASE_URL", "http://localhost:8000/api/v1"),
		APITimeout:   pkgconfig.GetEnvMillis("API_TIMEOUT_MS", 60*time.Second),
		RateRPS:      pkgconfig.GetEnvFloat("API_RATE_RPS", 0),
		RateBurst:    pkgconfig.GetEnvInt("API_RATE_BURST", 10),
		RedisAddr:    pkgconfig.GetEnv("REDIS_ADDR", ""),
		RedisDB:      pkgconfig.GetEnvInt("REDIS_DB", 0),
		RedisPass:    pkgconfig.GetEnv("REDIS_PASS", ""),
		SessionKey:   pkgconfig.GetEnv("SESSION_KEY", "maturity:session:credential"),
		SessionTTL:   pkgconfig.GetEnvDuration("SESSION_TTL", 12*time.Hour),
		SessionSweep: pkgconfig.GetEnvDuration("SESSION_SWEEP", 5*time.Minute),
		NATSURL:      pkgconfig.GetEnv("NATS_URL", ""),
		EventsPrefix: pkgconfig.GetEnv("EVENTS_PREFIX", "evt.maturity.session"),
		AWSRegion:    pkgconfig.GetEnv("AWS_REGION", "us-east-2"),
		MockAPIPort:  pkgconfig.GetEnvInt("MOCK_API_PORT", 8000),
	}
}

// RateLimit returns the client-side limiter settings.
func (c *Config) RateLimit() rate.Config {
	return rate.Config{RequestsPerSecond: c.RateRPS, Burst: c.RateBurst}
}
