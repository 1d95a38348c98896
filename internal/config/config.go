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
	Port   string
	AppEnv string // development, production

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlite-pure, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string // silent, error, warn, info

	// Signing key for password reset tokens
	SecretKey string

	// Mail configuration
	EmailBackend      string // smtp, console
	EmailHost         string
	EmailPort         int
	EmailHostUser     string
	EmailHostPassword string
	EmailTimeout      time.Duration

	FrontendURL          string
	PasswordResetTimeout time.Duration

	// Throttling and login lockout
	ThrottleAnonRate  string
	ThrottleUserRate  string
	LoginFailureLimit int
	LoginCooloff      time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "3000"),
		AppEnv:               getEnv("APP_ENV", "development"),
		DBType:               getEnv("DB_TYPE", "postgres"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBDatabase:           getEnv("DB_DATABASE", ""),
		DBUser:               getEnv("DB_USER", ""),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:    getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:           getEnv("DB_LOG_LEVEL", "warn"),
		SecretKey:            getEnv("SECRET_KEY", ""),
		EmailBackend:         getEnv("EMAIL_BACKEND", "console"),
		EmailHost:            getEnv("EMAIL_HOST", "localhost"),
		EmailPort:            getEnvAsInt("EMAIL_PORT", 587),
		EmailHostUser:        getEnv("EMAIL_HOST_USER", "noreply@localhost"),
		EmailHostPassword:    getEnv("EMAIL_HOST_PASSWORD", ""),
		EmailTimeout:         getEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),
		FrontendURL:          getEnv("FRONTEND_URL", "http://localhost:5173"),
		PasswordResetTimeout: getEnvAsDuration("PASSWORD_RESET_TIMEOUT", 24*time.Hour),
		ThrottleAnonRate:     getEnv("THROTTLE_ANON_RATE", "100/day"),
		ThrottleUserRate:     getEnv("THROTTLE_USER_RATE", "1000/day"),
		LoginFailureLimit:    getEnvAsInt("LOGIN_FAILURE_LIMIT", 5),
		LoginCooloff:         getEnvAsDuration("LOGIN_COOLOFF", time.Hour),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBUser == "" && !cfg.IsSQLite() {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}
	if cfg.EmailBackend != "smtp" && cfg.EmailBackend != "console" {
		return nil, fmt.Errorf("unsupported EMAIL_BACKEND: %s", cfg.EmailBackend)
	}
	if _, err := ParseRate(cfg.ThrottleAnonRate); err != nil {
		return nil, fmt.Errorf("THROTTLE_ANON_RATE: %w", err)
	}
	if _, err := ParseRate(cfg.ThrottleUserRate); err != nil {
		return nil, fmt.Errorf("THROTTLE_USER_RATE: %w", err)
	}
	if cfg.LoginFailureLimit < 1 {
		return nil, fmt.Errorf("LOGIN_FAILURE_LIMIT must be at least 1")
	}

	return cfg, nil
}

// LoadFile loads an .env file into the process environment, then calls Load.
// An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return Load()
}

// IsProduction reports whether APP_ENV selects production behavior
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsSQLite reports whether the configured database is a SQLite file
func (c *Config) IsSQLite() bool {
	return c.DBType == "sqlite" || c.DBType == "sqlite-pure"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
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

// getEnvAsDuration accepts Go durations ("90m") or plain seconds ("3600")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
