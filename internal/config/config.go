package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// CORS
	AllowedOrigins []string

	// Notification delivery job
	NotifierEnabled  bool
	NotifierSchedule string        // Cron expression (e.g., "0 * * * *" for hourly)
	NotifierTimeout  time.Duration // Timeout for one delivery run
	WindowLookback   time.Duration // How far back a run looks for missed sends
	WindowLookahead  time.Duration // How far forward a run plans

	// Cleanup job
	CleanupEnabled   bool
	CleanupSchedule  string
	CleanupTimeout   time.Duration
	LogRetentionDays int // Notification log retention window

	// Push gateway
	ExpoPushURL string
	PushTimeout time.Duration

	// Timezone all notification times are interpreted in. The mobile
	// clients schedule against device-local time; here it is an explicit
	// deployment setting.
	Timezone string
}

func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/coincopilot?sslmode=disable"),

		// Auth
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		// CORS
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		// Notification delivery job
		NotifierEnabled:  getBoolEnv("NOTIFIER_ENABLED", true),
		NotifierSchedule: getEnv("NOTIFIER_SCHEDULE", "0 * * * *"), // Default: hourly at minute 0
		NotifierTimeout:  getDurationEnv("NOTIFIER_TIMEOUT", 2*time.Minute),
		WindowLookback:   getDurationEnv("WINDOW_LOOKBACK", 24*time.Hour),
		WindowLookahead:  getDurationEnv("WINDOW_LOOKAHEAD", time.Hour),

		// Cleanup job
		CleanupEnabled:   getBoolEnv("CLEANUP_ENABLED", true),
		CleanupSchedule:  getEnv("CLEANUP_SCHEDULE", "30 3 * * *"), // Default: daily at 03:30
		CleanupTimeout:   getDurationEnv("CLEANUP_TIMEOUT", 2*time.Minute),
		LogRetentionDays: getIntEnv("LOG_RETENTION_DAYS", 45),

		// Push gateway
		ExpoPushURL: getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		PushTimeout: getDurationEnv("PUSH_TIMEOUT", 30*time.Second),

		Timezone: getEnv("TIMEZONE", "UTC"),
	}
}

// Location resolves the configured timezone. An unknown zone name is a
// configuration error; notification instants must not silently shift.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
