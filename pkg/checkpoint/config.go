package checkpoint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide limit policy, read-only after startup.
// The sustained rate may be given either directly in tokens per second
// (RefillRate) or as a per-minute budget (RatePerMinute); RefillRate
// wins when both are set.
type Config struct {
	// Capacity is the maximum number of tokens (burst size)
	Capacity int64 `yaml:"capacity"`

	// RefillRate is the number of tokens added per second
	RefillRate float64 `yaml:"refill_rate,omitempty"`

	// RatePerMinute is an alternative way to express the sustained
	// rate; it is divided by 60 to obtain the per-second refill rate
	RatePerMinute float64 `yaml:"rate_per_minute,omitempty"`
}

// DefaultConfig returns the policy the service ships with:
// bursts of 11, 43 requests per minute sustained.
func DefaultConfig() Config {
	return Config{
		Capacity:      11,
		RatePerMinute: 43,
	}
}

// RefillPerSecond resolves the effective per-second refill rate.
func (c Config) RefillPerSecond() float64 {
	if c.RefillRate > 0 {
		return c.RefillRate
	}
	return c.RatePerMinute / 60
}

// Validate checks if the configuration is valid. A non-positive
// capacity or refill rate is a startup fault: it must never reach a
// running limiter (the retry computation divides by the rate).
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return ErrNegativeCapacity
	}
	if c.RefillPerSecond() <= 0 {
		return ErrNegativeRefillRate
	}
	return nil
}

// LoadConfigFromFile loads a limit policy from a YAML file.
func LoadConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}
