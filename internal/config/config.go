package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/yourusername/checkpoint/pkg/checkpoint"
)

// Config is the process configuration, read once at startup from the
// environment (with an optional .env file). Limit defaults mirror the
// service's original policy: bursts of 11, 43 requests per minute.
type Config struct {
	Addr string `env:"CHECKPOINT_ADDR" envDefault:":8080"`

	// LimitsFile points at a YAML limit policy; when set it overrides
	// the env-based limit fields below.
	LimitsFile    string  `env:"CHECKPOINT_LIMITS_FILE"`
	BurstLimit    int64   `env:"CHECKPOINT_BURST_LIMIT" envDefault:"11"`
	RatePerMinute float64 `env:"CHECKPOINT_RATE_LIMIT" envDefault:"43"`

	// TrustProxyHeaders enables X-Forwarded-For / X-Real-IP for client
	// address extraction. Only set it behind a proxy you control.
	TrustProxyHeaders bool `env:"CHECKPOINT_TRUST_PROXY" envDefault:"false"`

	// Redis settings for the decision-stats sink; disabled when the
	// address is empty.
	RedisAddr      string `env:"CHECKPOINT_REDIS_ADDR"`
	RedisPassword  string `env:"CHECKPOINT_REDIS_PASSWORD"`
	RedisDB        int    `env:"CHECKPOINT_REDIS_DB" envDefault:"0"`
	RedisTrackKeys bool   `env:"CHECKPOINT_REDIS_TRACK_KEYS" envDefault:"false"`

	ShutdownTimeout time.Duration `env:"CHECKPOINT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the environment into a Config. A missing .env file is
// fine; a malformed environment is not.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// Limits resolves the limit policy: the YAML file when configured,
// otherwise the env-based values. The result is validated; an invalid
// policy is a fatal startup fault.
func (c Config) Limits() (checkpoint.Config, error) {
	if c.LimitsFile != "" {
		return checkpoint.LoadConfigFromFile(c.LimitsFile)
	}

	limits := checkpoint.Config{
		Capacity:      c.BurstLimit,
		RatePerMinute: c.RatePerMinute,
	}
	if err := limits.Validate(); err != nil {
		return checkpoint.Config{}, err
	}
	return limits, nil
}
