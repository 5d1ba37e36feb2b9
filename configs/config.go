package configs

import (
	"os"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Quote    QuoteConfig
	Trading  TradingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// QuoteConfig holds quote provider configuration
type QuoteConfig struct {
	BaseURL string
	APIKey  string
}

// TradingConfig holds ledger defaults
type TradingConfig struct {
	StartingCash decimal.Decimal
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Quote: QuoteConfig{
			BaseURL: getEnv("QUOTE_API_URL", "https://cloud.iexapis.com"),
			APIKey:  getEnv("QUOTE_API_KEY", ""),
		},
		Trading: TradingConfig{
			StartingCash: getDecimalEnv("STARTING_CASH", "10000.00"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDecimalEnv gets a decimal environment variable, falling back to the
// default when unset or unparseable
func getDecimalEnv(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}
