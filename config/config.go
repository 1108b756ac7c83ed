// Package config loads and validates process-wide configuration.
//
// Values come from the environment (prefix CLASSBOARD_, dots replaced by
// underscores, e.g. CLASSBOARD_SERVER_PORT) with an optional .env file loaded
// first. Secrets have no defaults: a missing JWT secret or provider
// credential is a fatal validation error at startup.
package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/classboard/auth/oauth"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/server"
)

// Config is the process-wide configuration, read once at startup and never
// mutated afterwards.
type Config struct {
	Server   server.Config `mapstructure:"server"`
	Logging  logger.Config `mapstructure:"logging"`
	Database Database      `mapstructure:"database"`
	Auth     Auth          `mapstructure:"auth"`
	OAuth    OAuth         `mapstructure:"oauth"`
	Frontend Frontend      `mapstructure:"frontend"`
}

// Database configures the persistent store.
type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Auth configures token issuance and password hashing.
type Auth struct {
	// JWTSecret signs bearer tokens. Required, no default.
	JWTSecret string `mapstructure:"jwt_secret"`
	// TokenTTL is the bearer token lifetime.
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	// BcryptCost is the password hashing work factor.
	BcryptCost int `mapstructure:"bcrypt_cost"`
	// DefaultRole is assigned to users created through an OAuth callback.
	DefaultRole string `mapstructure:"default_role"`
}

// OAuth holds per-provider client credentials.
type OAuth struct {
	Google oauth.Config `mapstructure:"google"`
	GitHub oauth.Config `mapstructure:"github"`
}

// Frontend configures the post-OAuth redirect target.
type Frontend struct {
	URL string `mapstructure:"url"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
// Secrets are deliberately left untouched.
func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "classboard.db"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = time.Hour
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 10
	}
	if c.Auth.DefaultRole == "" {
		c.Auth.DefaultRole = "student"
	}
}

// Validate checks the configuration. A missing signing secret or provider
// credential fails here so the process refuses to start.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required and has no default")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive (got: %s)", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 31 (got: %d)", c.Auth.BcryptCost)
	}
	switch c.Auth.DefaultRole {
	case "student", "teacher", "parent":
	default:
		return fmt.Errorf("auth.default_role must be one of [student, teacher, parent] (got: %s)", c.Auth.DefaultRole)
	}
	if c.Frontend.URL == "" {
		return fmt.Errorf("frontend.url is required")
	}
	if err := validateProvider("oauth.google", c.OAuth.Google); err != nil {
		return err
	}
	if err := validateProvider("oauth.github", c.OAuth.GitHub); err != nil {
		return err
	}
	return nil
}

func validateProvider(section string, cfg oauth.Config) error {
	if cfg.ClientID == "" {
		return fmt.Errorf("%s.client_id is required", section)
	}
	if cfg.ClientSecret == "" {
		return fmt.Errorf("%s.client_secret is required", section)
	}
	if cfg.RedirectURL == "" {
		return fmt.Errorf("%s.redirect_url is required", section)
	}
	return nil
}
