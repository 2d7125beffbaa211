package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the supplier sync service
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// GCP (optional; enables gcp-secret:// credential references)
	GCPProjectID string

	// Sync Settings
	SyncBatchSize      int
	SyncTimeout        time.Duration
	AdapterTimeout     time.Duration
	MaxConcurrentSyncs int

	// Pricing / fan-out
	DefaultMarkupPercentage float64
	DefaultCommissionRate   float64
	RepriceOnSync           bool

	// Scheduled syncs (cron spec with seconds field; empty disables)
	AutoSyncSchedule string

	// CORS
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() *Config {
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL == "" {
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbUser := getEnv("DB_USER", "postgres")
		dbPassword := getEnv("DB_PASSWORD", "")
		dbName := getEnv("DB_NAME", "storefront")
		dbSSLMode := getEnv("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode)
	}

	config := &Config{
		Port:        getEnv("PORT", "8095"),
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: databaseURL,

		GCPProjectID: getEnv("GCP_PROJECT_ID", ""),

		SyncBatchSize:      getEnvAsInt("SYNC_BATCH_SIZE", 50),
		SyncTimeout:        getEnvAsDuration("SYNC_TIMEOUT", 30*time.Minute),
		AdapterTimeout:     getEnvAsDuration("ADAPTER_TIMEOUT", 30*time.Second),
		MaxConcurrentSyncs: getEnvAsInt("MAX_CONCURRENT_SYNCS", 1),

		DefaultMarkupPercentage: getEnvAsFloat("DEFAULT_MARKUP_PERCENTAGE", 50),
		DefaultCommissionRate:   getEnvAsFloat("DEFAULT_COMMISSION_RATE", 0.20),
		RepriceOnSync:           getEnvAsBool("REPRICE_ON_SYNC", false),

		AutoSyncSchedule: getEnv("AUTO_SYNC_SCHEDULE", ""),

		AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
	}

	if config.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return config
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
