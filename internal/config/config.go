// Package config loads service settings from the environment, after an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string

	DBDriver    string
	DatabaseURL string

	// RedisAddr enables the checkout idempotency cache when set.
	RedisAddr string

	// KafkaBrokers is a comma-separated broker list; empty disables the
	// outbox relay.
	KafkaBrokers       string
	KafkaTopic         string
	OutboxPollInterval time.Duration

	ServiceFeePercent decimal.Decimal
	TaxPercent        decimal.Decimal
	PayoutPolicy      string

	ServiceName  string
	OTLPEndpoint string
	LogLevel     string
}

// Load reads .env when present (a missing file is not an error) and then the
// process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for unset
// keys.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := Config{
		HTTPAddr:     get("HTTP_ADDR", ":8080"),
		GRPCAddr:     get("GRPC_ADDR", ":50051"),
		DBDriver:     get("DB_DRIVER", "sqlite"),
		DatabaseURL:  get("DATABASE_URL", "./data/ledger.db"),
		RedisAddr:    get("REDIS_ADDR", ""),
		KafkaBrokers: get("KAFKA_BROKERS", ""),
		KafkaTopic:   get("KAFKA_TOPIC", "marketplace.events"),
		PayoutPolicy: get("PAYOUT_POLICY", domain.PolicyProRataFee),
		ServiceName:  get("OTEL_SERVICE_NAME", "marketplace-service"),
		OTLPEndpoint: get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:     get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.OutboxPollInterval, err = time.ParseDuration(get("OUTBOX_POLL_INTERVAL", "2s")); err != nil {
		return Config{}, fmt.Errorf("config: OUTBOX_POLL_INTERVAL: %w", err)
	}
	if cfg.OutboxPollInterval <= 0 {
		return Config{}, fmt.Errorf("config: OUTBOX_POLL_INTERVAL must be positive")
	}
	if cfg.ServiceFeePercent, err = percent("SERVICE_FEE_PERCENT", get("SERVICE_FEE_PERCENT", "0")); err != nil {
		return Config{}, err
	}
	if cfg.TaxPercent, err = percent("TAX_PERCENT", get("TAX_PERCENT", "0")); err != nil {
		return Config{}, err
	}
	if _, err := domain.ParsePayoutPolicy(cfg.PayoutPolicy); err != nil {
		return Config{}, fmt.Errorf("config: PAYOUT_POLICY: %w", err)
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return Config{}, fmt.Errorf("config: DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}
	return cfg, nil
}

func percent(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s: %w", key, err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("config: %s must be between 0 and 100, got %s", key, raw)
	}
	return d, nil
}
