package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://parking@localhost/parking")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.DB.SeedBrands)
	assert.Empty(t, cfg.Auth.AccessSecret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://parking@localhost/parking")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("DB_SEED_BRANDS", "false")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.False(t, cfg.DB.SeedBrands)
	assert.Equal(t, "secret", cfg.Auth.AccessSecret)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := Load()
	assert.EqualError(t, err, "DB_DSN is required")
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://parking@localhost/parking")
	t.Setenv("HTTP_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}
