package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Coupon is a vendor-scoped percentage discount code. Codes are unique per
// vendor, not globally.
type Coupon struct {
	ID       string
	VendorID string
	Code     string
	Discount int
	Active   bool
}

// NormalizeCouponCode trims and upper-cases a code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Coupon) Validate() error {
	if c.VendorID == "" {
		return NewValidation("coupon vendor is required")
	}
	if c.Code == "" {
		return NewValidation("coupon code is required")
	}
	if c.Discount < 1 || c.Discount > 100 {
		return NewValidation("coupon discount must be between 1 and 100 percent")
	}
	return nil
}

// SelectCoupon picks the active coupon for vendorID out of all coupons that
// share a code. It fails with ErrCouponNotFound when no active coupon has the
// code and ErrCouponVendorMismatch when the code belongs only to other vendors.
func SelectCoupon(code, vendorID string, candidates []Coupon) (Coupon, error) {
	otherVendor := false
	for _, c := range candidates {
		if !c.Active {
			continue
		}
		if c.VendorID == vendorID {
			return c, nil
		}
		otherVendor = true
	}
	if otherVendor {
		return Coupon{}, ErrCouponVendorMismatch.Withf("code %s", code)
	}
	return Coupon{}, ErrCouponNotFound.Withf("code %s", code)
}

// ApplyCoupon reprices item with c. A prior adjustment is replaced, so
// applying the same coupon twice leaves the item as after the first time.
func ApplyCoupon(item OrderItem, c Coupon) (OrderItem, error) {
	if c.VendorID != item.VendorID {
		return item, ErrCouponVendorMismatch.Withf("code %s", c.Code)
	}
	switch item.OrderStatus {
	case StatusCancelled:
		return item, ErrOrderSettled.Withf("item %s is cancelled", item.ID)
	case StatusFulfilled:
		// a fulfilled item may already be paid out to its vendor
		return item, ErrOrderSettled.Withf("item %s is fulfilled", item.ID)
	}

	saved := PercentOf(item.SubTotal, decimal.NewFromInt(int64(c.Discount)))
	if !saved.IsPositive() {
		return item, ErrCouponNoDiscount.Withf("code %s on item %s", c.Code, item.ID)
	}

	item.InitialTotal = SumMoney(item.SubTotal, item.Shipping, item.Tax)
	item.Saved = saved
	item.Total = item.InitialTotal.Sub(saved)
	item.CouponID = c.ID
	item.AppliedCoupon = true
	return item, nil
}
