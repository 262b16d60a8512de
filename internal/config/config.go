package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv    string
	DBDriver  string
	DBPath    string
	RedisAddr string
	HTTPPort  int

	SlaHoursHigh   float64
	SlaHoursMedium float64
	SlaHoursLow    float64

	HolidayAPIURL         string
	HolidayCountry        string
	HolidayFetchRetries   int
	OnHolidayFetchFailure string

	ClassifyWorkers int
	CacheTTL        time.Duration
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		DBDriver:  getEnv("DB_DRIVER", "sqlite3"),
		DBPath:    getEnv("DB_PATH", "./data/sla.db"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnvInt("HTTP_PORT", 8080),

		SlaHoursHigh:   getEnvFloat("SLA_HOURS_HIGH", 24),
		SlaHoursMedium: getEnvFloat("SLA_HOURS_MEDIUM", 72),
		SlaHoursLow:    getEnvFloat("SLA_HOURS_LOW", 120),

		HolidayAPIURL:         getEnv("HOLIDAY_API_URL", ""),
		HolidayCountry:        getEnv("HOLIDAY_COUNTRY", "BR"),
		HolidayFetchRetries:   getEnvInt("HOLIDAY_FETCH_RETRIES", 3),
		OnHolidayFetchFailure: getEnv("ON_HOLIDAY_FETCH_FAILURE", "abort"),

		ClassifyWorkers: getEnvInt("CLASSIFY_WORKERS", 4),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_MINUTES", 10)) * time.Minute,
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return val
}

func getEnvFloat(key string, fallback float64) float64 {
	val, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return val
}
