package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAIDYET_MERCHANT_ID", "m1")
	t.Setenv("PAIDYET_API_KEY", "sk_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "production", cfg.PaidYET.Environment)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.RetryAttempts)
	assert.Equal(t, time.Second, cfg.API.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.Token.RefreshSkew)
	assert.Equal(t, 100, cfg.Server.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.Server.RateLimit.Window)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAIDYET_MERCHANT_ID", "m1")
	t.Setenv("PAIDYET_API_KEY", "sk_test")
	t.Setenv("PAIDYET_ENVIRONMENT", "sandbox")
	t.Setenv("API_RETRY_ATTEMPTS", "5")
	t.Setenv("API_TIMEOUT", "10s")
	t.Setenv("TOKEN_REFRESH_SKEW", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sandbox", cfg.PaidYET.Environment)
	assert.Equal(t, 5, cfg.API.RetryAttempts)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Token.RefreshSkew)
}

func TestLoadAllowedOriginsCommaSeparated(t *testing.T) {
	t.Setenv("PAIDYET_MERCHANT_ID", "m1")
	t.Setenv("PAIDYET_API_KEY", "sk_test")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		cfg.Server.AllowedOrigins,
	)
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("PAIDYET_MERCHANT_ID", "")
	t.Setenv("PAIDYET_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
