package api

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Order store backend selectors.
const (
	BackendGORM = "gorm"
	BackendSQL  = "sql"
)

// Config carries environment-driven settings for the API process. It is
// built once at startup and passed to constructors; nothing reads the
// environment after this point.
type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	PostgresDSN     string `envconfig:"POSTGRES_DSN"`
	OrderBackend    string `envconfig:"ORDER_BACKEND" default:"gorm"`
	JWTSecret       string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTIssuer       string `envconfig:"JWT_ISSUER" default:"minimarket"`
	JWTAudience     string `envconfig:"JWT_AUDIENCE" default:"minimarket-clients"`
	TokenTTLMinutes int    `envconfig:"TOKEN_TTL_MINUTES" default:"120"`
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	switch cfg.OrderBackend {
	case BackendGORM, BackendSQL:
	default:
		return Config{}, fmt.Errorf("ORDER_BACKEND must be %q or %q, got %q", BackendGORM, BackendSQL, cfg.OrderBackend)
	}
	if cfg.TokenTTLMinutes <= 0 {
		return Config{}, fmt.Errorf("TOKEN_TTL_MINUTES must be a positive integer")
	}
	return cfg, nil
}

// TokenTTL returns the configured token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}
