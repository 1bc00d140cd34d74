package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one pending product selection. The line is keyed by
// (CartID, ProductID, Size, Color) and stores its own price snapshot.
type CartLine struct {
	ID        string
	CartID    string
	UserID    string
	ProductID string
	VendorID  string
	Qty       int
	Price     decimal.Decimal
	SubTotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Size      string
	Color     string
	CreatedAt time.Time
}

// TaxPolicy computes the tax owed for a line sub-total of product p.
type TaxPolicy func(p Product, subTotal decimal.Decimal) decimal.Decimal

// FlatTax charges percent of the sub-total.
func FlatTax(percent decimal.Decimal) TaxPolicy {
	return func(_ Product, subTotal decimal.Decimal) decimal.Decimal {
		return PercentOf(subTotal, percent)
	}
}

// LineSelection identifies what the customer picked.
type LineSelection struct {
	CartID string
	UserID string
	Qty    int
	Size   string
	Color  string
}

func (s LineSelection) Validate() error {
	if strings.TrimSpace(s.CartID) == "" {
		return NewValidation("cart id is required")
	}
	if s.Qty < 1 {
		return NewValidation("quantity must be at least 1")
	}
	return nil
}

// PriceLine fills the monetary fields of a line for product p:
// sub_total = price*qty, shipping = product shipping*qty, tax from the policy,
// total = sub_total + shipping + tax.
func PriceLine(p Product, sel LineSelection, tax TaxPolicy) (CartLine, error) {
	if err := sel.Validate(); err != nil {
		return CartLine{}, err
	}
	if p.Status != ProductPublished {
		return CartLine{}, ErrProductUnavailable.Withf("product %s is %s", p.ID, p.Status)
	}
	if sel.Qty > p.Stock {
		return CartLine{}, ErrOutOfStock.Withf("product %s: requested %d, available %d", p.ID, sel.Qty, p.Stock)
	}

	qty := decimal.NewFromInt(int64(sel.Qty))
	line := CartLine{
		CartID:    sel.CartID,
		UserID:    sel.UserID,
		ProductID: p.ID,
		VendorID:  p.VendorID,
		Qty:       sel.Qty,
		Price:     RoundMoney(p.Price),
		Size:      strings.TrimSpace(sel.Size),
		Color:     strings.TrimSpace(sel.Color),
	}
	line.SubTotal = RoundMoney(line.Price.Mul(qty))
	line.Shipping = RoundMoney(p.Shipping.Mul(qty))
	line.Tax = decimal.Zero
	if tax != nil {
		line.Tax = RoundMoney(tax(p, line.SubTotal))
	}
	line.Total = SumMoney(line.SubTotal, line.Shipping, line.Tax)
	return line, nil
}
