package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "./data/ledger.db", cfg.DatabaseURL)
	assert.Equal(t, "marketplace.events", cfg.KafkaTopic)
	assert.Equal(t, 2*time.Second, cfg.OutboxPollInterval)
	assert.True(t, cfg.ServiceFeePercent.IsZero())
	assert.Equal(t, "pro_rata_fee", cfg.PayoutPolicy)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_DRIVER":            "postgres",
		"DATABASE_URL":         "postgres://ledger@localhost/ledger",
		"SERVICE_FEE_PERCENT":  " 2.5 ",
		"TAX_PERCENT":          "7",
		"PAYOUT_POLICY":        "item_total",
		"OUTBOX_POLL_INTERVAL": "500ms",
		"KAFKA_BROKERS":        "k1:9092,k2:9092",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "2.5", cfg.ServiceFeePercent.String())
	assert.Equal(t, "7", cfg.TaxPercent.String())
	assert.Equal(t, "item_total", cfg.PayoutPolicy)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, "k1:9092,k2:9092", cfg.KafkaBrokers)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"fee above 100":     {"SERVICE_FEE_PERCENT": "101"},
		"negative tax":      {"TAX_PERCENT": "-1"},
		"fee not a number":  {"SERVICE_FEE_PERCENT": "ten"},
		"unknown policy":    {"PAYOUT_POLICY": "everything"},
		"unknown driver":    {"DB_DRIVER": "mysql"},
		"bad interval":      {"OUTBOX_POLL_INTERVAL": "soon"},
		"non-positive poll": {"OUTBOX_POLL_INTERVAL": "0s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(kv))
			assert.Error(t, err)
		})
	}
}
