package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string
	// Host is the public base URL of this app, used for OAuth and webhook callbacks.
	Host string

	// Database
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	MigrationsPath string
	StoreTimeout   time.Duration

	// Admin gate
	AdminPassword     string
	AdminPasswordHash string
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	// Submission throttle
	SubmitRateLimit  int
	SubmitRateWindow time.Duration
	RedisURL         string

	Shopify ShopifyConfig

	LogFile string
}

// ShopifyConfig holds the app credentials used by the install flow and webhooks.
type ShopifyConfig struct {
	APIKey     string
	APISecret  string
	Scopes     string
	APIVersion string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),
		Host: strings.TrimRight(getEnv("HOST", "http://localhost:8080"), "/"),

		// Database
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "repairdesk"),
		DBPassword:     getEnv("DB_PASSWORD", "repairdesk"),
		DBName:         getEnv("DB_NAME", "repairdesk"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		SQLitePath:     getEnv("SQLITE_PATH", "repairdesk.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		// Admin gate
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTokenSecret:  os.Getenv("ADMIN_TOKEN_SECRET"),

		RedisURL: os.Getenv("REDIS_URL"),

		Shopify: ShopifyConfig{
			APIKey:     os.Getenv("SHOPIFY_API_KEY"),
			APISecret:  os.Getenv("SHOPIFY_API_SECRET"),
			Scopes:     getEnv("SHOPIFY_SCOPES", "read_products"),
			APIVersion: getEnv("SHOPIFY_API_VERSION", "2024-07"),
		},

		LogFile: os.Getenv("LOG_FILE"),
	}

	var err error
	if config.StoreTimeout, err = parseDuration("STORE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if config.AdminTokenTTL, err = parseDuration("ADMIN_TOKEN_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if config.SubmitRateWindow, err = parseDuration("SUBMIT_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if config.SubmitRateLimit, err = parsePositiveInt("SUBMIT_RATE_LIMIT", 30); err != nil {
		return nil, err
	}

	switch config.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", config.DBDriver)
	}

	// Session tokens fall back to the shared secret so a single ADMIN_PASSWORD is enough to run.
	if config.AdminTokenSecret == "" {
		config.AdminTokenSecret = config.AdminPassword
	}

	return config, nil
}

// AdminConfigured reports whether any admin credential is set.
func (c *Config) AdminConfigured() bool {
	return c.AdminPassword != "" || c.AdminPasswordHash != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func parsePositiveInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
