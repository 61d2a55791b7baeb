package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything main needs to wire the engine. All values come
// from the environment so deployments stay twelve-factor.
type Config struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	// Marketplace backend the engine observes (profile + documents).
	MarketplaceBaseURL string

	// Store backend selection: redis URL wins over postgres DSN; with neither
	// set the engine runs on the in-memory store (single-instance only).
	Redis    RedisConfig
	Postgres PostgresConfig

	// PollInterval is the detector tick; PollTickTimeout bounds one fetch.
	PollInterval    time.Duration
	PollTickTimeout time.Duration
}

// RedisConfig holds connection settings for the Redis-backed store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds connection settings for the Postgres-backed store.
type PostgresConfig struct {
	DSN string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:               envOr("COMPLIMART_ADDR", ":8080"),
		JWTSigningKey:      envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:          envOr("JWT_ISSUER", "complimart"),
		JWTAudience:        envOr("JWT_AUDIENCE", "notification-engine"),
		MarketplaceBaseURL: envOr("MARKETPLACE_BASE_URL", ""),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		PollInterval:    envDurationOr("POLL_INTERVAL", 5*time.Second),
		PollTickTimeout: envDurationOr("POLL_TICK_TIMEOUT", 10*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
