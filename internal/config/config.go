package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port        string
	Env         string
	AdminAPIKey string

	DB        DatabaseConfig
	Redis     RedisConfig
	DataPlans DataPlansConfig
	Currency  CurrencyConfig
	Worker    WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// DataPlansConfig contains credentials for the plan catalog provider.
type DataPlansConfig struct {
	BaseURL  string
	APIToken string
}

// CurrencyConfig holds the base currency and the static conversion table
// (units of base currency per 1 unit of source currency). Rates are
// deployment configuration, not market data.
type CurrencyConfig struct {
	Base  string
	Rates map[string]decimal.Decimal
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SyncInterval time.Duration
}

// defaultRates mirrors the operator-maintained conversion table. Extend via
// the EXCHANGE_RATES env var when the catalog starts quoting a new currency.
var defaultRates = map[string]string{
	"CNY": "0.14",
	"THB": "0.028",
	"EUR": "1.08",
	"GBP": "1.27",
	"JPY": "0.0067",
	"KRW": "0.00075",
	"SGD": "0.74",
	"HKD": "0.13",
	"AUD": "0.65",
	"CAD": "0.74",
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.AdminAPIKey = getEnv("ADMIN_API_KEY", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// DataPlans catalog provider
	cfg.DataPlans = DataPlansConfig{
		BaseURL:  getEnv("DATAPLANS_BASE_URL", "https://app.dataplans.io/api/v1"),
		APIToken: getEnv("DATAPLANS_API_TOKEN", ""),
	}

	// Currency conversion table
	rates, err := loadRates()
	if err != nil {
		return nil, fmt.Errorf("invalid EXCHANGE_RATES: %w", err)
	}
	cfg.Currency = CurrencyConfig{
		Base:  getEnv("BASE_CURRENCY", "USD"),
		Rates: rates,
	}

	// Workers (durations)
	if cfg.Worker.SyncInterval, err = parseDurationEnv("SYNC_INTERVAL", "6h"); err != nil {
		return nil, fmt.Errorf("invalid SYNC_INTERVAL: %w", err)
	}

	// Basic validation for DB parameters — keeps messages concise and helpful.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.AdminAPIKey == "" {
		return nil, errors.New("ADMIN_API_KEY must be set for admin and webhook routes")
	}

	return cfg, nil
}

// loadRates builds the conversion table from the built-in defaults, merged
// with the optional EXCHANGE_RATES env var (a JSON object of code → rate).
func loadRates() (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(defaultRates))
	for code, raw := range defaultRates {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("built-in rate %s: %w", code, err)
		}
		rates[code] = d
	}

	if raw := os.Getenv("EXCHANGE_RATES"); raw != "" {
		var override map[string]string
		if err := json.Unmarshal([]byte(raw), &override); err != nil {
			return nil, err
		}
		for code, v := range override {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("rate %s: %w", code, err)
			}
			if d.IsNegative() {
				return nil, fmt.Errorf("rate %s must be >= 0", code)
			}
			rates[code] = d
		}
	}
	return rates, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
