package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"-2.345", "-2.35"},
		{"7", "7"},
	}
	for _, tt := range tests {
		assert.True(t, RoundMoney(dec(tt.in)).Equal(dec(tt.want)), "RoundMoney(%s)", tt.in)
	}
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, "10.00", PercentOf(dec("100.00"), dec("10")).StringFixed(2))
	assert.Equal(t, "0.33", PercentOf(dec("3.33"), dec("10")).StringFixed(2))
	assert.Equal(t, "2.25", PercentOf(dec("45.00"), dec("5")).StringFixed(2))
	assert.True(t, PercentOf(dec("45.00"), decimal.Zero).IsZero())
}

func TestValidMoney(t *testing.T) {
	assert.NoError(t, validMoney("price", dec("10.50")))
	assert.NoError(t, validMoney("price", dec("10.500")))
	assert.Error(t, validMoney("price", dec("10.505")))
	assert.Error(t, validMoney("price", dec("-1")))
}
