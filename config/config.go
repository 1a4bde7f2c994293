package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/johnoltman65/commerce-authnet/authnet"
)

type Config struct {
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	AuthnetAPILoginID     string
	AuthnetTransactionKey string
	AuthnetEndpoint       string
	AuthnetTimeout        time.Duration

	KafkaBrokers      string
	PaymentEventTopic string

	JWTSecret string

	// Settlement reconciliation worker settings.
	ReconcileInterval time.Duration
	ReconcileLookback time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8088"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		AuthnetAPILoginID:     os.Getenv("AUTHNET_API_LOGIN_ID"),
		AuthnetTransactionKey: os.Getenv("AUTHNET_TRANSACTION_KEY"),
		AuthnetEndpoint:       getEnv("AUTHNET_ENDPOINT", authnet.SandboxEndpoint),
		AuthnetTimeout:        getDuration("AUTHNET_TIMEOUT_SECONDS", 30) * time.Second,

		KafkaBrokers:      getEnv("KAFKA_BROKERS", "localhost:9092"),
		PaymentEventTopic: getEnv("PAYMENT_EVENTS_TOPIC", "payment-events"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		ReconcileInterval: getDuration("RECONCILE_INTERVAL_MINUTES", 60) * time.Minute,
		ReconcileLookback: getDuration("RECONCILE_LOOKBACK_HOURS", 48) * time.Hour,
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" ||
		cfg.AuthnetAPILoginID == "" || cfg.AuthnetTransactionKey == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback int64) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
