package jwt

import (
	"errors"
	"time"
)

// Config configures the JWT token service.
type Config struct {
	// Secret is the HMAC-SHA256 signing key. Required; there is no fallback
	// value, a missing secret must abort startup.
	Secret string `mapstructure:"secret"`

	// TTL is the lifetime of issued tokens (default: 1h).
	TTL time.Duration `mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.TTL == 0 {
		c.TTL = time.Hour
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("jwt: signing secret is required")
	}
	if c.TTL <= 0 {
		return errors.New("jwt: ttl must be positive")
	}
	return nil
}
