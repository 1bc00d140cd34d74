package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentStripe      PaymentMethod = "Stripe"
	PaymentPayPal      PaymentMethod = "PayPal"
	PaymentFlutterwave PaymentMethod = "Flutterwave"
	PaymentPaystack    PaymentMethod = "Paystack"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentStripe, PaymentPayPal, PaymentFlutterwave, PaymentPaystack:
		return true
	}
	return false
}

type ShippingService string

const (
	ShippingFedex  ShippingService = "Fedex"
	ShippingUPS    ShippingService = "UPS"
	ShippingDHL    ShippingService = "DHL"
	ShippingAmazon ShippingService = "Amazon"
	ShippingOther  ShippingService = "Other"
)

func (s ShippingService) Valid() bool {
	switch s {
	case ShippingFedex, ShippingUPS, ShippingDHL, ShippingAmazon, ShippingOther:
		return true
	}
	return false
}

// OrderCodeDigits is the length of the external-facing order and item codes.
const OrderCodeDigits = 6

// Order is a checkout transaction. It owns its items; every monetary field
// except Shipping, Tax and ServiceFee is derived by RecomputeTotals.
//
// Shipping and Tax are order-level surcharges on top of the items, which
// already carry their own shipping and tax inside Total.
type Order struct {
	ID            string
	Code          string
	CustomerID    string
	VendorIDs     []string
	SubTotal      decimal.Decimal
	Shipping      decimal.Decimal
	Tax           decimal.Decimal
	ServiceFee    decimal.Decimal
	Total         decimal.Decimal
	InitialTotal  decimal.Decimal
	Saved         decimal.Decimal
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	PaymentID     string
	OrderStatus   OrderStatus
	Version       int
	CreatedAt     time.Time
	Items         []OrderItem

	// IdempotencyKey is the client key of the checkout that created the
	// order, unique per customer. Empty when the client sent none.
	IdempotencyKey string
}

// OrderItem is one product line of an order with its own fulfillment state.
// OrderID, Price and Qty never change after creation.
type OrderItem struct {
	ID              string
	OrderID         string
	Code            string
	ProductID       string
	VendorID        string
	Qty             int
	Size            string
	Color           string
	Price           decimal.Decimal
	SubTotal        decimal.Decimal
	Shipping        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	InitialTotal    decimal.Decimal
	Saved           decimal.Decimal
	CouponID        string
	AppliedCoupon   bool
	OrderStatus     OrderStatus
	ShippingService ShippingService
	TrackingID      string
	Version         int
	CreatedAt       time.Time
}

// ItemFromLine snapshots a cart line into a new pending order item.
func ItemFromLine(line CartLine) OrderItem {
	return OrderItem{
		ProductID:    line.ProductID,
		VendorID:     line.VendorID,
		Qty:          line.Qty,
		Size:         line.Size,
		Color:        line.Color,
		Price:        line.Price,
		SubTotal:     line.SubTotal,
		Shipping:     line.Shipping,
		Tax:          line.Tax,
		Total:        line.Total,
		InitialTotal: line.Total,
		Saved:        decimal.Zero,
		OrderStatus:  StatusPending,
	}
}

// RecomputeTotals re-derives the rolled-up fields of o from o.Items:
//
//	sub_total     = Σ item.sub_total
//	saved         = Σ item.saved
//	initial_total = Σ item.initial_total + shipping + tax + service_fee
//	total         = Σ item.total + shipping + tax + service_fee
//
// The vendor set is rebuilt from the items as well.
func RecomputeTotals(o Order) Order {
	subTotal, saved, initial, items := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, it := range o.Items {
		subTotal = subTotal.Add(it.SubTotal)
		saved = saved.Add(it.Saved)
		initial = initial.Add(it.InitialTotal)
		items = items.Add(it.Total)
	}
	surcharges := SumMoney(o.Shipping, o.Tax, o.ServiceFee)

	o.SubTotal = RoundMoney(subTotal)
	o.Saved = RoundMoney(saved)
	o.InitialTotal = RoundMoney(initial.Add(surcharges))
	o.Total = RoundMoney(items.Add(surcharges))
	o.VendorIDs = VendorSet(o.Items)
	return o
}

// Balanced reports whether the rollup invariant holds for o.
func (o Order) Balanced() bool {
	items := decimal.Zero
	for _, it := range o.Items {
		items = items.Add(it.Total)
	}
	return o.Total.Equal(RoundMoney(SumMoney(items, o.Shipping, o.Tax, o.ServiceFee)))
}

// VendorSet returns the distinct vendor ids of items, sorted.
func VendorSet(items []OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it.VendorID == "" {
			continue
		}
		if _, ok := seen[it.VendorID]; ok {
			continue
		}
		seen[it.VendorID] = struct{}{}
		out = append(out, it.VendorID)
	}
	sort.Strings(out)
	return out
}

// ReplaceItem swaps the item with the same id into o.Items.
func (o *Order) ReplaceItem(item OrderItem) bool {
	for i := range o.Items {
		if o.Items[i].ID == item.ID {
			o.Items[i] = item
			return true
		}
	}
	return false
}
