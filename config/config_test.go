package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mollylil16/developpement-farm-sub012/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DB_URL", "postgres://localhost:5432/farm")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("OTP_HMAC_SECRET", "otp-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.OtpTTL)
	assert.Equal(t, 5, cfg.OtpMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.ResetOtpTTL)
	assert.Equal(t, 5*time.Second, cfg.OAuthTimeout)
	assert.Equal(t, 12, cfg.RegisterBcryptCost)
	assert.False(t, cfg.RateLimitBypass)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("OTP_MAX_ATTEMPTS", "3")
	t.Setenv("GOOGLE_CLIENT_IDS", "app-a.apps.googleusercontent.com,app-b.apps.googleusercontent.com")
	t.Setenv("RATE_LIMIT_BYPASS", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 3, cfg.OtpMaxAttempts)
	assert.Equal(t, []string{"app-a.apps.googleusercontent.com", "app-b.apps.googleusercontent.com"}, cfg.GoogleClientIDs)
	assert.True(t, cfg.RateLimitBypass)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/farm")
	t.Setenv("JWT_SECRET", "jwt-secret")
	t.Setenv("OTP_HMAC_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_NonNumericPortFails(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "not-a-port")

	_, err := config.Load()
	assert.Error(t, err)
}
