package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string

	// Backend API
	BackendURL     string
	APIKey         string
	APISecret      string
	RequestTimeout time.Duration

	// Session storage
	RedisURL    string
	PostgresDSN string
	SessionTTL  time.Duration

	// Order rules
	MinOrderAmount  float64
	MaxOrderAmount  float64
	ManageInventory bool

	// Payment
	SupportedPaymentMethods []string
	StripeSecretKey         string

	// Event sinks
	KafkaBrokers  []string
	CheckoutTopic string
	SNSTopicARN   string

	// Confirmation email
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// Load reads configuration from the environment. A .env file is honored when
// present but is never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("APP_ENV", "development"),
		BackendURL:     os.Getenv("BACKEND_URL"),
		APIKey:         os.Getenv("BACKEND_API_KEY"),
		APISecret:      os.Getenv("BACKEND_API_SECRET"),
		RequestTimeout: getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),

		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SessionTTL:  getEnvDuration("SESSION_TTL", 30*time.Minute),

		MinOrderAmount:  getEnvFloat("MIN_ORDER_AMOUNT", 0),
		MaxOrderAmount:  getEnvFloat("MAX_ORDER_AMOUNT", 0),
		ManageInventory: getEnvBool("MANAGE_INVENTORY", true),

		SupportedPaymentMethods: splitList(getEnv("SUPPORTED_PAYMENT_METHODS", "stripe,paypal,cod")),
		StripeSecretKey:         os.Getenv("STRIPE_API_KEY"),

		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		CheckoutTopic: getEnv("CHECKOUT_TOPIC", "checkout-events"),
		SNSTopicARN:   os.Getenv("CHECKOUT_SNS_TOPIC_ARN"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
	}

	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("missing required environment variable BACKEND_URL")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
