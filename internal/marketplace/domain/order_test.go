package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(id, vendor, subTotal, shipping, tax string) OrderItem {
	it := OrderItem{
		ID:          id,
		VendorID:    vendor,
		SubTotal:    dec(subTotal),
		Shipping:    dec(shipping),
		Tax:         dec(tax),
		Saved:       decimal.Zero,
		OrderStatus: StatusPending,
	}
	it.Total = SumMoney(it.SubTotal, it.Shipping, it.Tax)
	it.InitialTotal = it.Total
	return it
}

func TestRecomputeTotalsTwoVendors(t *testing.T) {
	o := Order{
		Shipping:   decimal.Zero,
		Tax:        decimal.Zero,
		ServiceFee: decimal.Zero,
		Items: []OrderItem{
			item("a", "vendor-b", "20.00", "5.00", "2.00"),
			item("b", "vendor-a", "25.00", "5.00", "2.00"),
		},
	}
	o = RecomputeTotals(o)

	assert.Equal(t, "45.00", o.SubTotal.StringFixed(2))
	assert.Equal(t, "27.00", o.Items[0].Total.StringFixed(2))
	assert.Equal(t, "32.00", o.Items[1].Total.StringFixed(2))
	assert.Equal(t, "59.00", o.Total.StringFixed(2))
	assert.Equal(t, "59.00", o.InitialTotal.StringFixed(2))
	assert.Equal(t, []string{"vendor-a", "vendor-b"}, o.VendorIDs)
	assert.True(t, o.Balanced())
}

func TestRecomputeTotalsIncludesSurcharges(t *testing.T) {
	o := Order{
		Shipping:   dec("1.00"),
		Tax:        dec("0.50"),
		ServiceFee: dec("2.25"),
		Items:      []OrderItem{item("a", "v", "45.00", "0", "0")},
	}
	o = RecomputeTotals(o)
	assert.Equal(t, "48.75", o.Total.StringFixed(2))
	assert.True(t, o.Balanced())

	o.Total = o.Total.Add(dec("0.01"))
	assert.False(t, o.Balanced())
}

func TestReplaceItem(t *testing.T) {
	o := Order{Items: []OrderItem{item("a", "v", "1", "0", "0")}}
	changed := o.Items[0]
	changed.Qty = 9
	assert.True(t, o.ReplaceItem(changed))
	assert.Equal(t, 9, o.Items[0].Qty)
	assert.False(t, o.ReplaceItem(OrderItem{ID: "missing"}))
}
