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
	// Server configuration
	Port        string
	CORSOrigins string // comma separated, credentials are allowed

	// Logging configuration
	LogLevel   string // trace, debug, info, warn, error
	LogFormat  string // json, text
	DBLogLevel string // silent, error, warn, info

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Authorizer configuration
	AuthzURL      string
	AuthzClientID string

	// Lifecycle configuration
	IntentionTTL   time.Duration
	MatchTTL       time.Duration
	BatchSchedule  string
	ExpirySchedule string

	// Rate limiting for member mutations, 0 disables
	RateLimitRPS   int
	RateLimitBurst int
}

// Load loads configuration from environment variables, after merging an
// optional .env file named by ENV_FILE.
func Load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := FromEnv()

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.AuthzURL == "" {
		return nil, fmt.Errorf("AUTHZ_URL is required")
	}
	if cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required")
	}
	if cfg.IntentionTTL <= 0 || cfg.MatchTTL <= 0 {
		return nil, fmt.Errorf("INTENTION_TTL and MATCH_TTL must be positive")
	}

	return cfg, nil
}

// FromEnv reads the configuration without validating it
func FromEnv() *Config {
	return &Config{
		Port:              getEnv("PORT", "3000"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:3000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		DBLogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		DBType:            getEnv("DB_TYPE", "mysql"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		AuthzURL:          getEnv("AUTHZ_URL", ""),
		AuthzClientID:     getEnv("AUTHZ_CLIENT_ID", ""),
		IntentionTTL:      getEnvAsDuration("INTENTION_TTL", 72*time.Hour),
		MatchTTL:          getEnvAsDuration("MATCH_TTL", 7*24*time.Hour),
		BatchSchedule:     getEnv("BATCH_SCHEDULE", "0 */3 * * *"),
		ExpirySchedule:    getEnvOrEmpty("EXPIRY_SCHEDULE", "@every 5m"),
		RateLimitRPS:      getEnvAsInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 10),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrEmpty is getEnv, except an explicitly empty variable stays empty
func getEnvOrEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a time.Duration ("72h", "30m")
// or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
