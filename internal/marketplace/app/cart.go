package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

type AddLineInput struct {
	CartID    string
	UserID    string
	ProductID string
	Qty       int
	Size      string
	Color     string
}

// AddOrUpdateLine prices the selection against the current product and
// stores it. Adding the same product, size and color again replaces the
// quantity.
func (l *Ledger) AddOrUpdateLine(ctx context.Context, in AddLineInput) (line domain.CartLine, err error) {
	ctx, span := startSpan(ctx, "Ledger.AddOrUpdateLine",
		attribute.String("cart.id", in.CartID), attribute.String("product.id", in.ProductID))
	defer func() { endSpan(span, err) }()

	sel := domain.LineSelection{CartID: in.CartID, UserID: in.UserID, Qty: in.Qty, Size: in.Size, Color: in.Color}
	if err := sel.Validate(); err != nil {
		return domain.CartLine{}, err
	}

	err = l.store.WithTx(ctx, func(tx ports.Repository) error {
		p, err := tx.GetProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		line, err = domain.PriceLine(p, sel, l.opts.Tax)
		if err != nil {
			return err
		}
		line.ID = uuid.NewString()
		line.CreatedAt = l.now()
		return tx.UpsertCartLine(ctx, &line)
	})
	if err != nil {
		return domain.CartLine{}, err
	}
	return line, nil
}

func (l *Ledger) RemoveLine(ctx context.Context, cartID, lineID string) error {
	return l.store.DeleteCartLine(ctx, cartID, lineID)
}

func (l *Ledger) ListLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	return l.store.ListCartLines(ctx, cartID)
}

func (l *Ledger) ClearCart(ctx context.Context, cartID string) error {
	return l.store.ClearCart(ctx, cartID)
}

// CartSummary is the sum of a cart's lines.
type CartSummary struct {
	Lines    int
	Items    int
	SubTotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func (l *Ledger) SummarizeCart(ctx context.Context, cartID string) (CartSummary, error) {
	lines, err := l.store.ListCartLines(ctx, cartID)
	if err != nil {
		return CartSummary{}, err
	}
	s := CartSummary{SubTotal: decimal.Zero, Shipping: decimal.Zero, Tax: decimal.Zero, Total: decimal.Zero}
	for _, ln := range lines {
		s.Lines++
		s.Items += ln.Qty
		s.SubTotal = s.SubTotal.Add(ln.SubTotal)
		s.Shipping = s.Shipping.Add(ln.Shipping)
		s.Tax = s.Tax.Add(ln.Tax)
		s.Total = s.Total.Add(ln.Total)
	}
	return s, nil
}
