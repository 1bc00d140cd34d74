package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCoupon(t *testing.T) {
	it := item("i1", "v1", "100.00", "0", "0")
	c := Coupon{ID: "c1", VendorID: "v1", Code: "TEN", Discount: 10, Active: true}

	once, err := ApplyCoupon(it, c)
	require.NoError(t, err)
	assert.Equal(t, "10.00", once.Saved.StringFixed(2))
	assert.Equal(t, "90.00", once.Total.StringFixed(2))
	assert.Equal(t, "100.00", once.InitialTotal.StringFixed(2))
	assert.True(t, once.AppliedCoupon)
	assert.Equal(t, "c1", once.CouponID)

	twice, err := ApplyCoupon(once, c)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApplyCouponKeepsShippingAndTax(t *testing.T) {
	it := item("i1", "v1", "20.00", "5.00", "2.00")
	got, err := ApplyCoupon(it, Coupon{ID: "c1", VendorID: "v1", Discount: 50})
	require.NoError(t, err)
	// Only the sub-total is discounted.
	assert.Equal(t, "10.00", got.Saved.StringFixed(2))
	assert.Equal(t, "17.00", got.Total.StringFixed(2))
}

func TestApplyCouponRejects(t *testing.T) {
	it := item("i1", "v1", "100.00", "0", "0")

	_, err := ApplyCoupon(it, Coupon{ID: "c1", VendorID: "v2", Discount: 10})
	assert.ErrorIs(t, err, ErrCouponVendorMismatch)

	tiny := item("i2", "v1", "0.04", "0", "0")
	_, err = ApplyCoupon(tiny, Coupon{ID: "c1", VendorID: "v1", Discount: 10})
	assert.ErrorIs(t, err, ErrCouponNoDiscount)

	cancelled := it
	cancelled.OrderStatus = StatusCancelled
	_, err = ApplyCoupon(cancelled, Coupon{ID: "c1", VendorID: "v1", Discount: 10})
	assert.ErrorIs(t, err, ErrOrderSettled)

	fulfilled := it
	fulfilled.OrderStatus = StatusFulfilled
	_, err = ApplyCoupon(fulfilled, Coupon{ID: "c1", VendorID: "v1", Discount: 10})
	assert.ErrorIs(t, err, ErrOrderSettled)
}

func TestSelectCoupon(t *testing.T) {
	candidates := []Coupon{
		{ID: "other", VendorID: "v2", Code: "SAVE", Active: true},
		{ID: "inactive", VendorID: "v1", Code: "SAVE", Active: false},
	}

	_, err := SelectCoupon("SAVE", "v1", candidates)
	assert.ErrorIs(t, err, ErrCouponVendorMismatch)

	_, err = SelectCoupon("SAVE", "v3", candidates[1:])
	assert.ErrorIs(t, err, ErrCouponNotFound)

	candidates = append(candidates, Coupon{ID: "mine", VendorID: "v1", Code: "SAVE", Active: true})
	c, err := SelectCoupon("SAVE", "v1", candidates)
	require.NoError(t, err)
	assert.Equal(t, "mine", c.ID)
}

func TestCouponValidate(t *testing.T) {
	assert.NoError(t, Coupon{VendorID: "v", Code: "X", Discount: 100}.Validate())
	assert.Error(t, Coupon{VendorID: "v", Code: "X", Discount: 0}.Validate())
	assert.Error(t, Coupon{VendorID: "v", Code: "X", Discount: 101}.Validate())
	assert.Error(t, Coupon{Code: "X", Discount: 5}.Validate())
	assert.Equal(t, "SAVE10", NormalizeCouponCode("  save10 "))
}
