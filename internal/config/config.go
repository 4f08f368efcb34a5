package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	API      APIConfig
	Delivery DeliveryConfig
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the duplicate-suppression store configuration.
// An empty URL disables Redis and falls back to the in-process store.
type RedisConfig struct {
	URL string
}

// APIConfig holds API server configuration
type APIConfig struct {
	Port           int
	AllowedOrigins []string
}

// DeliveryConfig selects the delivery backend. Provider is "smtp", "ses"
// or "mock"; the SES fields are only read when Provider is "ses".
type DeliveryConfig struct {
	Provider string

	SESAccessKey string
	SESSecretKey string
	SESRegion    string
	SESFrom      string

	MockSuccessRate float64
}

// Load reads configuration from environment variables. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	mockRate, err := strconv.ParseFloat(getEnv("MOCK_SUCCESS_RATE", "0.92"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MOCK_SUCCESS_RATE: %w", err)
	}

	provider := getEnv("DELIVERY_PROVIDER", "smtp")
	switch provider {
	case "smtp", "ses", "mock":
	default:
		return nil, fmt.Errorf("invalid DELIVERY_PROVIDER %q (must be smtp, ses or mock)", provider)
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "mailing"),
			Password: getEnv("DB_PASSWORD", "mailing"),
			DBName:   getEnv("DB_NAME", "mailing"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		API: APIConfig{
			Port:           apiPort,
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Delivery: DeliveryConfig{
			Provider:        provider,
			SESAccessKey:    getEnv("SES_ACCESS_KEY", ""),
			SESSecretKey:    getEnv("SES_SECRET_KEY", ""),
			SESRegion:       getEnv("SES_REGION", "us-east-1"),
			SESFrom:         getEnv("SES_FROM", ""),
			MockSuccessRate: mockRate,
		},
	}, nil
}

// DSN returns the database connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
