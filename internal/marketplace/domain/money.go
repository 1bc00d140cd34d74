package domain

import "github.com/shopspring/decimal"

// Amounts are stored with two decimal places.
const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyPlaces)
}

// PercentOf returns round(amount * percent / 100).
func PercentOf(amount decimal.Decimal, percent decimal.Decimal) decimal.Decimal {
	return RoundMoney(amount.Mul(percent).Div(hundred))
}

// SumMoney adds all amounts.
func SumMoney(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

func validMoney(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return NewValidationf("%s must not be negative", field)
	}
	if d.Exponent() < -moneyPlaces && !d.Equal(RoundMoney(d)) {
		return NewValidationf("%s must have at most %d decimal places", field, moneyPlaces)
	}
	return nil
}
