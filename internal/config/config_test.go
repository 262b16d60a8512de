package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg := LoadFromEnv()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "./data/sla.db", cfg.DBPath)
	assert.Equal(t, 8080, cfg.HTTPPort)

	assert.Equal(t, 24.0, cfg.SlaHoursHigh)
	assert.Equal(t, 72.0, cfg.SlaHoursMedium)
	assert.Equal(t, 120.0, cfg.SlaHoursLow)

	assert.Equal(t, "BR", cfg.HolidayCountry)
	assert.Equal(t, 3, cfg.HolidayFetchRetries)
	assert.Equal(t, "abort", cfg.OnHolidayFetchFailure)

	assert.Equal(t, 4, cfg.ClassifyWorkers)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SLA_HOURS_HIGH", "8")
	t.Setenv("ON_HOLIDAY_FETCH_FAILURE", "treat_as_no_holidays")
	t.Setenv("CACHE_TTL_MINUTES", "30")

	cfg := LoadFromEnv()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, 8.0, cfg.SlaHoursHigh)
	assert.Equal(t, "treat_as_no_holidays", cfg.OnHolidayFetchFailure)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
}

func TestLoadFromEnv_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("SLA_HOURS_MEDIUM", "seventy-two")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 72.0, cfg.SlaHoursMedium)
}
