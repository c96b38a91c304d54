package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "https://api.stripe.com", cfg.PaymentBaseURL)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := Config{
		DBHost:     "db.internal",
		DBUser:     "svc",
		DBPassword: "pw",
		DBName:     "planivo",
		DBSSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal user=svc password=pw dbname=planivo sslmode=require",
		cfg.DSN())
}
