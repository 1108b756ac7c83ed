package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CLASSBOARD"

// Load reads configuration from the environment (and an optional .env file),
// applies defaults, and validates the result.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be populated directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only unmarshals keys it knows about; registering every key with
	// its zero value makes AutomaticEnv pick up the overrides.
	for key, zero := range configKeys() {
		v.SetDefault(key, zero)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func configKeys() map[string]any {
	return map[string]any{
		"server.host":                   "",
		"server.port":                   0,
		"server.read_timeout":           0,
		"server.write_timeout":          0,
		"server.idle_timeout":           0,
		"server.max_body_size":          "",
		"server.auth_rate_limit":        0,
		"server.cors.allowed_origins":   []string{},
		"server.cors.allow_credentials": false,
		"logging.level":                 "",
		"logging.format":                "",
		"logging.output":                "",
		"database.driver":               "",
		"database.dsn":                  "",
		"auth.jwt_secret":               "",
		"auth.token_ttl":                "0s",
		"auth.bcrypt_cost":              0,
		"auth.default_role":             "",
		"oauth.google.client_id":        "",
		"oauth.google.client_secret":    "",
		"oauth.google.redirect_url":     "",
		"oauth.github.client_id":        "",
		"oauth.github.client_secret":    "",
		"oauth.github.redirect_url":     "",
		"frontend.url":                  "",
	}
}
