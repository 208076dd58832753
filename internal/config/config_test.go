package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := Load()
	require.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_COOKIE_SECURE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoad_TokenTTLIsFixed(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
}

func TestLoad_CookieSecureFollowsEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		override string
		want     bool
	}{
		{"production defaults secure", "production", "", true},
		{"development defaults insecure", "development", "", false},
		{"explicit override wins", "production", "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTH_JWT_SECRET", "test-secret")
			t.Setenv("APP_ENV", tt.env)
			t.Setenv("AUTH_COOKIE_SECURE", tt.override)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Auth.CookieSecure)
		})
	}
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}
