package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutPolicies(t *testing.T) {
	a := item("a", "v1", "20.00", "5.00", "2.00")
	b := item("b", "v2", "25.00", "5.00", "2.00")
	o := RecomputeTotals(Order{
		Shipping:   decimal.Zero,
		Tax:        decimal.Zero,
		ServiceFee: dec("4.50"),
		Items:      []OrderItem{a, b},
	})

	assert.Equal(t, "27.00", ItemTotalPayout(o, a).StringFixed(2))
	// 4.50 * 20/45 = 2.00
	assert.Equal(t, "25.00", ProRataFeePayout(o, a).StringFixed(2))
	// 4.50 * 25/45 = 2.50
	assert.Equal(t, "29.50", ProRataFeePayout(o, b).StringFixed(2))

	noFee := o
	noFee.ServiceFee = decimal.Zero
	assert.Equal(t, "27.00", ProRataFeePayout(noFee, a).StringFixed(2))
}

func TestFeeSharesAddUpToFee(t *testing.T) {
	items := []OrderItem{
		item("a", "v1", "10.00", "0", "0"),
		item("b", "v2", "10.00", "0", "0"),
		item("c", "v3", "10.00", "0", "0"),
	}
	for _, fee := range []string{"0.01", "0.02", "1.00", "4.51"} {
		o := RecomputeTotals(Order{
			Shipping:   decimal.Zero,
			Tax:        decimal.Zero,
			ServiceFee: dec(fee),
			Items:      items,
		})
		sum := decimal.Zero
		paid := decimal.Zero
		for _, it := range o.Items {
			share := FeeShare(o, it.ID)
			assert.False(t, share.IsNegative(), "fee %s item %s", fee, it.ID)
			sum = sum.Add(share)
			paid = paid.Add(ProRataFeePayout(o, it))
		}
		assert.Equal(t, dec(fee).StringFixed(2), sum.StringFixed(2), "fee %s", fee)
		assert.Equal(t, o.Total.Sub(o.ServiceFee).StringFixed(2), paid.StringFixed(2), "fee %s", fee)
	}

	o := RecomputeTotals(Order{Shipping: decimal.Zero, Tax: decimal.Zero, ServiceFee: dec("0.01"), Items: items})
	assert.Equal(t, "0.00", FeeShare(o, "a").StringFixed(2))
	assert.Equal(t, "0.01", FeeShare(o, "b").StringFixed(2))
	assert.Equal(t, "0.00", FeeShare(o, "c").StringFixed(2))
	assert.True(t, FeeShare(o, "missing").IsZero())
}

func TestParsePayoutPolicy(t *testing.T) {
	for _, name := range []string{"", PolicyProRataFee, PolicyItemTotal} {
		p, err := ParsePayoutPolicy(name)
		require.NoError(t, err)
		assert.NotNil(t, p)
	}
	_, err := ParsePayoutPolicy("everything")
	assert.Error(t, err)
}

func TestCheckPayable(t *testing.T) {
	it := item("a", "v1", "1", "0", "0")
	assert.ErrorIs(t, CheckPayable(it), ErrItemNotFulfilled)
	it.OrderStatus = StatusFulfilled
	assert.NoError(t, CheckPayable(it))
}
