// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/api and cmd/moodctl.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo
)

// --------------------------------------------------------------------------
// Store drivers
// --------------------------------------------------------------------------

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	// Record store
	StoreDriver  string
	StoreTimeout time.Duration

	// Mongo
	MongoURI    string
	MongoDBName string

	// Postgres
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Sustained-sadness alert
	AutoAlertEnabled     bool
	AutoAlertInterval    time.Duration
	SadAlertThreshold    int
	SadAlertLookbackDays int // 0 = entire history
	AlertCooldown        time.Duration

	// Night-login alert
	NightAlertEnabled   bool
	NightAlertInterval  time.Duration
	NightAlertThreshold int
	Timezone            string

	// SMS gateway (Twilio)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	TwilioAPIURL     string
	AlertPhone       string
	SMSRatePerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StoreDriver:  strings.ToLower(envOr("STORE_DRIVER", DriverMongo)),
		StoreTimeout: time.Duration(envInt("STORE_TIMEOUT_SECONDS", 15)) * time.Second,

		MongoURI:    envOr("MONGO_URI", ""),
		MongoDBName: envOr("MONGO_DB_NAME", "unified-mind-app"),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 5000)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		AutoAlertEnabled:     envBool("AUTO_ALERT_ENABLED", false),
		AutoAlertInterval:    time.Duration(envInt("AUTO_ALERT_INTERVAL_MIN", 10)) * time.Minute,
		SadAlertThreshold:    envInt("SAD_ALERT_STREAK", 5),
		SadAlertLookbackDays: envInt("SAD_ALERT_LOOKBACK_DAYS", 0),
		AlertCooldown:        time.Duration(envInt("SCHEDULER_ALERT_COOLDOWN_HOURS", 24)) * time.Hour,

		NightAlertEnabled:   envBool("NIGHT_ALERT_ENABLED", false),
		NightAlertInterval:  time.Duration(envInt("NIGHT_ALERT_INTERVAL_MIN", 15)) * time.Minute,
		NightAlertThreshold: envInt("NIGHT_ALERT_THRESHOLD", 5),
		Timezone:            envOr("TIMEZONE", "Asia/Kolkata"),

		TwilioAccountSID: envOr("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  envOr("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:       envOr("TWILIO_FROM", ""),
		TwilioAPIURL:     envOr("TWILIO_API_URL", "https://api.twilio.com"),
		AlertPhone:       envOr("ALERT_PHONE", ""),
		SMSRatePerMinute: envInt("SMS_RATE_PER_MINUTE", 60),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI must be set when STORE_DRIVER=%s", DriverMongo)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.StoreDriver, DriverMongo, DriverPostgres)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.AutoAlertInterval <= 0 || c.NightAlertInterval <= 0 {
		return fmt.Errorf("alert intervals must be positive")
	}
	return nil
}

// ResponseCacheEnabled reports whether analytics responses may be cached.
// Only the postgres driver publishes new-record notifications; on any other
// store a cached response would outlive the history it was computed from.
func (c *Config) ResponseCacheEnabled() bool {
	return c.CacheEnabled && c.StoreDriver == DriverPostgres
}

// Location returns the night-alert timezone. Validate has already checked
// that it loads; UTC is returned otherwise.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TwilioConfigured reports whether gateway credentials are present.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			return level
		}
	}
	return fallback
}
