// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Detection settings
	ScamThreshold   float64 // cumulative score at which a scam is confirmed
	EscalationBonus float64 // flat bonus when multiple categories fire in one turn

	// Session settings
	SessionTTL time.Duration // idle eviction window

	// Callback settings
	CallbackURL         string        // final report endpoint (optional; disables reporting if unset)
	CallbackSecret      string        // HMAC secret for report signing
	CallbackMaxAttempts int
	ReportMinDuration   time.Duration // engagement time required before the final report fires

	// Security
	APIKey       string // key SDK clients authenticate with
	RateLimitRPS int
}

// Defaults
const (
	DefaultPort             = "8080"
	DefaultEnv              = "development"
	DefaultLogLevel         = "info"
	DefaultScamThreshold    = 40.0
	DefaultEscalationBonus  = 10.0
	DefaultSessionTTL       = time.Hour
	DefaultCallbackAttempts = 4
	DefaultReportMinTime    = 3 * time.Minute
	DefaultRateLimit        = 100

	// The confirmation threshold is only meaningful in this band; values
	// outside it either never confirm or confirm on a single signal.
	MinScamThreshold = 30.0
	MaxScamThreshold = 60.0
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", DefaultPort),
		Env:                 getEnv("ENV", DefaultEnv),
		LogLevel:            getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:         os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		ScamThreshold:       getEnvFloat("SCAM_THRESHOLD", DefaultScamThreshold),
		EscalationBonus:     getEnvFloat("ESCALATION_BONUS", DefaultEscalationBonus),
		SessionTTL:          getEnvDuration("SESSION_TTL", DefaultSessionTTL),
		CallbackURL:         os.Getenv("CALLBACK_URL"),
		CallbackSecret:      os.Getenv("CALLBACK_SECRET"),
		CallbackMaxAttempts: int(getEnvInt64("CALLBACK_MAX_ATTEMPTS", DefaultCallbackAttempts)),
		ReportMinDuration:   getEnvDuration("REPORT_MIN_DURATION", DefaultReportMinTime),
		APIKey:              os.Getenv("API_KEY"),
		RateLimitRPS:        int(getEnvInt64("RATE_LIMIT_RPS", int64(DefaultRateLimit))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.ScamThreshold < MinScamThreshold || c.ScamThreshold > MaxScamThreshold {
		return fmt.Errorf("SCAM_THRESHOLD must be between %.0f and %.0f", MinScamThreshold, MaxScamThreshold)
	}
	if c.EscalationBonus < 0 {
		return fmt.Errorf("ESCALATION_BONUS must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.ReportMinDuration < 0 {
		return fmt.Errorf("REPORT_MIN_DURATION must not be negative")
	}

	if c.IsProduction() {
		if c.APIKey == "" {
			return fmt.Errorf("API_KEY is required in production")
		}
		if c.CallbackURL != "" && c.CallbackSecret == "" {
			return fmt.Errorf("CALLBACK_SECRET is required when CALLBACK_URL is set in production")
		}
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
