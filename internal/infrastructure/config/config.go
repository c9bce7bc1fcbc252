package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v10"
)

// ErrMissingJWTSecret is returned when auth is enabled without a signing secret.
var ErrMissingJWTSecret = errors.New("AUTH_ENABLED requires JWT_SECRET")

// ErrNegativeRetries is returned for a negative AUDIT_MAX_RETRIES.
var ErrNegativeRetries = errors.New("AUDIT_MAX_RETRIES must not be negative")

// Config holds all application configuration.
type Config struct {
	// Audit trail database (leave empty to disable)
	DatabaseURL      string `env:"DATABASE_URL"       envDefault:""`
	DatabaseMaxConns int    `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	DatabaseMinConns int    `env:"DATABASE_MIN_CONNS" envDefault:"1"`
	MigrationsPath   string `env:"MIGRATIONS_PATH"    envDefault:"migrations"`
	AuditMaxRetries  int    `env:"AUDIT_MAX_RETRIES"  envDefault:"3"`

	// Redis idempotency store (leave empty to disable)
	RedisURL       string        `env:"REDIS_URL"        envDefault:""`
	RedisPoolSize  int           `env:"REDIS_POOL_SIZE"  envDefault:"10"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL"  envDefault:"24h"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Rate limiting per client IP (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Take client addresses from X-Forwarded-For/X-Real-IP (only behind a trusted proxy)
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Authentication (optional - leave disabled for open access)
	JWTSecret     string        `env:"JWT_SECRET"     envDefault:""`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	AuthEnabled   bool          `env:"AUTH_ENABLED"   envDefault:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	if c.AuthEnabled && c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.AuditMaxRetries < 0 {
		return ErrNegativeRetries
	}
	return nil
}

// AuditEnabled reports whether the audit trail database is configured.
func (c *Config) AuditEnabled() bool {
	return c.DatabaseURL != ""
}

// IdempotencyEnabled reports whether the Redis idempotency store is configured.
func (c *Config) IdempotencyEnabled() bool {
	return c.RedisURL != ""
}
