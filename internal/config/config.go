package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Auth0
	Auth0Domain       string
	Auth0Audience     string
	Auth0OwnerSubject string // Optional: only this subject may call the API

	// Server
	Port               string
	CORSOrigins        []string
	Env                string
	RateLimitPerMinute int

	// Finance
	DefaultBudgetLimit decimal.Decimal
	CurrencySymbol     string
	Timezone           string // Owner's zone: decides "today" and the current month

	// Derived view cache
	CacheSize int
	CacheTTL  time.Duration

	// Periodic re-read of the record store; zero disables it
	SnapshotReloadInterval time.Duration

	// S3 Storage for snapshot backups
	S3 S3Config
}

// S3Config holds AWS S3 configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO/LocalStack local dev
}

// Enabled reports whether backups are configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Auth0Domain:       getEnv("AUTH0_DOMAIN", ""),
		Auth0Audience:     getEnv("AUTH0_AUDIENCE", ""),
		Auth0OwnerSubject: getEnv("AUTH0_OWNER_SUBJECT", ""),
		Port:              getEnv("PORT", "8080"),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		Env:               getEnv("ENV", "development"),
		CurrencySymbol:    getEnv("CURRENCY_SYMBOL", "₹"),
		Timezone:          getEnv("TIMEZONE", "Asia/Kolkata"),
		S3: S3Config{
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS, set for MinIO/LocalStack
		},
	}

	var err error
	if cfg.DefaultBudgetLimit, err = decimal.NewFromString(getEnv("DEFAULT_BUDGET_LIMIT", "80000")); err != nil {
		return nil, fmt.Errorf("DEFAULT_BUDGET_LIMIT: %w", err)
	}
	if cfg.RateLimitPerMinute, err = strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
	}
	if cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "256")); err != nil {
		return nil, fmt.Errorf("CACHE_SIZE: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.SnapshotReloadInterval, err = time.ParseDuration(getEnv("SNAPSHOT_RELOAD_INTERVAL", "0s")); err != nil {
		return nil, fmt.Errorf("SNAPSHOT_RELOAD_INTERVAL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseURL returns DATABASE_URL, reading .env first
func DatabaseURL() string {
	_ = godotenv.Load()
	return getEnv("DATABASE_URL", "")
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required")
	}
	if c.Auth0Audience == "" {
		return fmt.Errorf("AUTH0_AUDIENCE is required")
	}
	if c.DefaultBudgetLimit.IsNegative() {
		return fmt.Errorf("DEFAULT_BUDGET_LIMIT must not be negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("CACHE_SIZE must not be negative")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.SnapshotReloadInterval < 0 {
		return fmt.Errorf("SNAPSHOT_RELOAD_INTERVAL must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
