package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Auth0
	Auth0Domain   string
	Auth0Audience string

	// Server
	Port        string
	CORSOrigins []string
	Env         string

	// S3 Storage for exported reports
	S3 S3Config

	Forecast  ForecastConfig
	Refresh   RefreshConfig
	RateLimit RateLimitConfig
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether report storage has been configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// ForecastConfig holds forecast engine settings
type ForecastConfig struct {
	DefaultDays int
	MaxDays     int
	// UpstreamTimeout bounds each read from the data store
	UpstreamTimeout time.Duration
	// TimeZone decides which calendar day "today" is
	TimeZone string
}

// Location resolves the configured time zone, falling back to UTC
func (c ForecastConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RefreshConfig holds the dashboard refresh schedule
type RefreshConfig struct {
	Enabled  bool
	Schedule string // cron expression, evaluated in ForecastConfig.TimeZone
}

// RateLimitConfig holds per-organization API rate limits
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// Load reads configuration from environment variables for the API server
func Load() (*Config, error) {
	cfg := load()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Auth0Domain == "" {
		return nil, fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if cfg.Auth0Audience == "" {
		return nil, fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	return cfg, nil
}

// LoadForCLI reads configuration for operator tools, which talk to the database directly
func LoadForCLI() (*Config, error) {
	cfg := load()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() *Config {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Auth0Domain:   getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience: getEnv("AUTH0_AUDIENCE", ""),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
		Env:           getEnv("ENV", "development"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
		},
		Forecast: ForecastConfig{
			DefaultDays:     getEnvInt("FORECAST_DEFAULT_DAYS", 90),
			MaxDays:         getEnvInt("FORECAST_MAX_DAYS", 365),
			UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 5*time.Second),
			TimeZone:        getEnv("APP_TIMEZONE", "UTC"),
		},
		Refresh: RefreshConfig{
			Enabled:  getEnv("REFRESH_ENABLED", "true") == "true",
			Schedule: getEnv("REFRESH_SCHEDULE", "5 0 * * *"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 20),
		},
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Forecast.DefaultDays < 0 {
		return fmt.Errorf("FORECAST_DEFAULT_DAYS must not be negative")
	}
	if c.Forecast.MaxDays < 1 {
		return fmt.Errorf("FORECAST_MAX_DAYS must be positive")
	}
	if c.Forecast.DefaultDays > c.Forecast.MaxDays {
		return fmt.Errorf("FORECAST_DEFAULT_DAYS (%d) exceeds FORECAST_MAX_DAYS (%d)", c.Forecast.DefaultDays, c.Forecast.MaxDays)
	}
	if _, err := time.LoadLocation(c.Forecast.TimeZone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Forecast.TimeZone, err)
	}
	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
