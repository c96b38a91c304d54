package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings, parsed from environment variables.
type Config struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER" envDefault:"planivo_user"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"planivo_pass"`
	DBName     string `env:"DB_NAME" envDefault:"planivo"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	NATSURL  string `env:"NATS_URL"`

	// Account signing key for issuing browser NATS credentials.
	// Realtime credential issuance is disabled when unset.
	NATSSigningKeySeed   string `env:"NATS_SIGNING_KEY_SEED"`
	NATSAccountPublicKey string `env:"NATS_ACCOUNT_PUBLIC_KEY"`

	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
	EmailFrom      string `env:"EMAIL_FROM" envDefault:"no-reply@planivo.app"`
	AppBaseURL     string `env:"APP_BASE_URL" envDefault:"https://app.planivo.app"`

	PaymentAPIKey  string `env:"PAYMENT_API_KEY"`
	PaymentBaseURL string `env:"PAYMENT_BASE_URL" envDefault:"https://api.stripe.com"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// DSN assembles the Postgres connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSSLMode
}
