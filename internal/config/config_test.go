package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 15, cfg.LoanPeriodDays)
	assert.Equal(t, "1", cfg.FinePerDay.String())
	assert.Equal(t, "500", cfg.MaxAmountDue.String())
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "Asia/Kolkata", cfg.TimeZone)
	assert.Empty(t, cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("FINE_PER_DAY", "2.50")
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "2.5", cfg.FinePerDay.String())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"HTTP_PORT", "eighty"},
		{"FINE_PER_DAY", "one rupee"},
		{"SESSION_TTL", "forever"},
		{"LOGIN_RATE_LIMIT", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.JWTSecret = "short"
	cfg.LogLevel = "loud"
	cfg.TimeZone = "Mars/Olympus"
	cfg.LoanPeriodDays = 0

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LIBRARY_TIMEZONE")
	assert.Contains(t, err.Error(), "LOAN_PERIOD_DAYS")
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{TimeZone: "Nowhere/Special"}
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.TimeZone = "Asia/Kolkata"
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}
