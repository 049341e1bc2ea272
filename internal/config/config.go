package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config gathers everything the service reads from the environment. Provider
// secrets stay opaque strings; handlers receive constructed clients, never
// raw keys.
type Config struct {
	Port string

	MySQLUser     string
	MySQLPassword string
	MySQLHost     string
	MySQLPort     string
	MySQLDatabase string
	MySQLParams   string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	StripeSecretKey string

	PayPalBaseURL  string
	PayPalClientID string
	PayPalSecret   string

	PayOSBaseURL     string
	PayOSClientID    string
	PayOSAPIKey      string
	PayOSChecksumKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// APIBaseURL is this service's public base, used to build the
	// provider's cancel/return redirect URLs.
	APIBaseURL string
	// FrontendBaseURL hosts the /order/success and /order/cancel pages.
	FrontendBaseURL string

	// ExchangeRateVNDUSD converts order totals to the wallet processor's
	// settlement currency.
	ExchangeRateVNDUSD float64
}

// Load reads .env (if present) and the process environment.
func Load(logger *logrus.Logger) Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn("⚠️ No .env file found — using system environment variables")
	} else {
		logger.Info("✅ .env file loaded")
	}

	return Config{
		Port: getEnv("PORT", "8080"),

		MySQLUser:     getEnv("MYSQL_USER", "shopduy"),
		MySQLPassword: getEnv("MYSQL_PASSWORD", "shopduy"),
		MySQLHost:     getEnv("MYSQL_HOST", "127.0.0.1"),
		MySQLPort:     getEnv("MYSQL_PORT", "3306"),
		MySQLDatabase: getEnv("MYSQL_DATABASE", "shopduy"),
		MySQLParams:   getEnv("MYSQL_PARAMS", "charset=utf8mb4&parseTime=True&loc=Local"),

		RedisAddr:     getEnv("REDIS_HOST", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),

		PayPalBaseURL:  getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
		PayPalClientID: os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalSecret:   os.Getenv("PAYPAL_SECRET"),

		PayOSBaseURL:     getEnv("PAYOS_BASE_URL", "https://api-merchant.payos.vn"),
		PayOSClientID:    os.Getenv("PAYOS_CLIENT_ID"),
		PayOSAPIKey:      os.Getenv("PAYOS_API_KEY"),
		PayOSChecksumKey: os.Getenv("PAYOS_CHECKSUM_KEY"),

		SMTPHost:     getEnv("SMTP_HOST", "ssl0.ovh.net"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@shopduy.vn"),

		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8080"),
		FrontendBaseURL: getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),

		ExchangeRateVNDUSD: getEnvFloat("EXCHANGE_RATE_VND_USD", 25000),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
