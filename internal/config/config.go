package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	PaidYET PaidYETConfig
	API     APIConfig
	Token   TokenConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Port           int
	Env            string // "development", "production"
	AllowedOrigins []string
	RateLimit      RateLimitConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type PaidYETConfig struct {
	MerchantID    string
	APIKey        string
	Environment   string // "production" or "sandbox"
	WebhookSecret string // empty disables signature verification
}

type APIConfig struct {
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

type TokenConfig struct {
	// RefreshSkew is subtracted from the issuer-reported lifetime when
	// judging a cached token live: 60-minute tokens are reused for at most
	// 55 minutes.
	RefreshSkew time.Duration
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 3000)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "15m")
	viper.SetDefault("PAIDYET_ENVIRONMENT", "production")
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("API_RETRY_ATTEMPTS", 3)
	viper.SetDefault("API_RETRY_DELAY", "1s")
	viper.SetDefault("TOKEN_REFRESH_SKEW", "5m")
	viper.SetDefault("REDIS_DB", 0)

	cfg := &Config{
		Server: ServerConfig{
			Port:           viper.GetInt("APP_PORT"),
			Env:            viper.GetString("APP_ENV"),
			AllowedOrigins: splitOrigins(viper.GetString("ALLOWED_ORIGINS")),
			RateLimit: RateLimitConfig{
				Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
				Window:   parseDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			},
		},
		PaidYET: PaidYETConfig{
			MerchantID:    viper.GetString("PAIDYET_MERCHANT_ID"),
			APIKey:        viper.GetString("PAIDYET_API_KEY"),
			Environment:   viper.GetString("PAIDYET_ENVIRONMENT"),
			WebhookSecret: viper.GetString("PAIDYET_WEBHOOK_SECRET"),
		},
		API: APIConfig{
			Timeout:       parseDuration("API_TIMEOUT", 30*time.Second),
			RetryAttempts: viper.GetInt("API_RETRY_ATTEMPTS"),
			RetryDelay:    parseDuration("API_RETRY_DELAY", time.Second),
		},
		Token: TokenConfig{
			RefreshSkew: parseDuration("TOKEN_REFRESH_SKEW", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
	}

	if cfg.PaidYET.MerchantID == "" || cfg.PaidYET.APIKey == "" {
		return nil, fmt.Errorf("PAIDYET_MERCHANT_ID and PAIDYET_API_KEY must be set")
	}

	return cfg, nil
}

// splitOrigins parses the comma-separated ALLOWED_ORIGINS list.
func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(viper.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
