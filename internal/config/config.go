package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration, loaded from environment
// variables with lab-friendly defaults.
type Config struct {
	// HTTP server port
	HTTPPort int

	// Log level: debug, info, warn, error
	LogLevel string

	// Postgres DSN; empty means Postgres is not used
	PostgresDSN string

	// Path of the embedded sqlite database used when no DSN is set
	SQLitePath string

	// Redis address for the published-book cache; empty disables Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Seed for the roster shuffle; 0 means seed from the wall clock
	Seed int64
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		HTTPPort:      getEnvAsInt("PORT_HTTP", 8080),
		LogLevel:      getEnvAsString("LOG_LEVEL", "info"),
		PostgresDSN:   getEnvAsString("POSTGRES_DSN", ""),
		SQLitePath:    getEnvAsString("SQLITE_PATH", "data/market.db"),
		RedisAddr:     getEnvAsString("REDIS_ADDR", ""),
		RedisPassword: getEnvAsString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		Seed:          int64(getEnvAsInt("SEED", 0)),
	}
}

// HTTPAddr returns the HTTP listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
