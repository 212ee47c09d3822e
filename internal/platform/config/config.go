package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string

	// CurrencyProfile selects the denomination ladder ("standard" or "extended").
	CurrencyProfile string

	// Diestel credit-limit policy.
	DiestelTotalCap decimal.Decimal
	DiestelDailyMax decimal.Decimal
	DiestelDailyMin decimal.Decimal

	// Card minimum-payment policy.
	MinPaymentRate  decimal.Decimal
	MinPaymentFloor decimal.Decimal

	// Recovery policy.
	RollbackWindow   time.Duration
	RetryMaxAttempts int

	// Rate limiting, e.g. "100-M" for 100 requests per minute.
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("CURRENCY_PROFILE", "standard")
	viper.SetDefault("DIESTEL_TOTAL_CAP", "100000")
	viper.SetDefault("DIESTEL_DAILY_MAX", "8000")
	viper.SetDefault("DIESTEL_DAILY_MIN", "10")
	viper.SetDefault("MIN_PAYMENT_RATE", "0.05")
	viper.SetDefault("MIN_PAYMENT_FLOOR", "200")
	viper.SetDefault("ROLLBACK_WINDOW_HOURS", 24)
	viper.SetDefault("RETRY_MAX_ATTEMPTS", 3)
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	cfg.CurrencyProfile = viper.GetString("CURRENCY_PROFILE")

	var err error
	if cfg.DiestelTotalCap, err = decimal.NewFromString(viper.GetString("DIESTEL_TOTAL_CAP")); err != nil {
		return nil, err
	}
	if cfg.DiestelDailyMax, err = decimal.NewFromString(viper.GetString("DIESTEL_DAILY_MAX")); err != nil {
		return nil, err
	}
	if cfg.DiestelDailyMin, err = decimal.NewFromString(viper.GetString("DIESTEL_DAILY_MIN")); err != nil {
		return nil, err
	}
	if cfg.MinPaymentRate, err = decimal.NewFromString(viper.GetString("MIN_PAYMENT_RATE")); err != nil {
		return nil, err
	}
	if cfg.MinPaymentFloor, err = decimal.NewFromString(viper.GetString("MIN_PAYMENT_FLOOR")); err != nil {
		return nil, err
	}

	cfg.RollbackWindow = time.Duration(viper.GetInt("ROLLBACK_WINDOW_HOURS")) * time.Hour
	cfg.RetryMaxAttempts = viper.GetInt("RETRY_MAX_ATTEMPTS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
