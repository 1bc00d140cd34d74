package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payout is money owed to a vendor for exactly one fulfilled order item.
type Payout struct {
	ID        string
	Code      string
	VendorID  string
	ItemID    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// PayoutCodeDigits is the length of the public payout code.
const PayoutCodeDigits = 6

// PayoutPolicy decides how much of a fulfilled item is owed to its vendor.
type PayoutPolicy func(order Order, item OrderItem) decimal.Decimal

// Policy names accepted by ParsePayoutPolicy.
const (
	PolicyItemTotal  = "item_total"
	PolicyProRataFee = "pro_rata_fee"
)

// ItemTotalPayout pays the vendor the full item total.
func ItemTotalPayout(_ Order, item OrderItem) decimal.Decimal {
	return item.Total
}

// ProRataFeePayout pays the item total minus the item's share of the order
// service fee, weighted by sub-total. Never negative.
func ProRataFeePayout(order Order, item OrderItem) decimal.Decimal {
	amount := item.Total.Sub(FeeShare(order, item.ID))
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// FeeShare is the part of order.ServiceFee borne by item itemID. Shares are
// rounded on the running sub-total, so the shares of all items in o.Items
// add up to the fee exactly and the cent left by rounding lands on one item.
func FeeShare(o Order, itemID string) decimal.Decimal {
	if o.ServiceFee.IsZero() || !o.SubTotal.IsPositive() {
		return decimal.Zero
	}
	cum := decimal.Zero
	allocated := decimal.Zero
	for _, it := range o.Items {
		cum = cum.Add(it.SubTotal)
		upTo := RoundMoney(o.ServiceFee.Mul(cum).Div(o.SubTotal))
		if it.ID == itemID {
			return upTo.Sub(allocated)
		}
		allocated = upTo
	}
	return decimal.Zero
}

func ParsePayoutPolicy(name string) (PayoutPolicy, error) {
	switch name {
	case PolicyItemTotal:
		return ItemTotalPayout, nil
	case PolicyProRataFee, "":
		return ProRataFeePayout, nil
	}
	return nil, fmt.Errorf("unknown payout policy %q", name)
}

// CheckPayable verifies item may be paid out.
func CheckPayable(item OrderItem) error {
	if item.OrderStatus != StatusFulfilled {
		return ErrItemNotFulfilled.Withf("item %s is %s", item.ID, item.OrderStatus)
	}
	return nil
}
