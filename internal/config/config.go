package config

import (
	"os"
	"strconv"

	"auction-engine/utils"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string

	// Driver selects the listing/bid store: "memory", "sqlite" or "postgres".
	Driver     string
	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// BuyerPremiumPercent is the percentage fee added to the hammer price
	// on settlement invoices.
	BuyerPremiumPercent float64

	OutbidEmailsEnabled bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.Info("config: no .env file found, falling back to system env vars", nil)
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Driver:     getEnv("DB_DRIVER", "memory"),
		SQLitePath: getEnv("SQLITE_PATH", "./auction.db"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "auction"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "auction123"),
		PostgresDB:       getEnv("POSTGRES_DB", "auction_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		BuyerPremiumPercent: getEnvFloat("BUYER_PREMIUM_PERCENT", 5),
		OutbidEmailsEnabled: getEnvBool("OUTBID_EMAILS_ENABLED", true),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
