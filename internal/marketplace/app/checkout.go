package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

type CheckoutInput struct {
	CartID        string
	CustomerID    string
	PaymentMethod domain.PaymentMethod
	// IdempotencyKey makes retries of the same checkout return the first
	// order instead of failing on the now empty cart.
	IdempotencyKey string
}

func (in CheckoutInput) validate() error {
	if strings.TrimSpace(in.CartID) == "" {
		return domain.NewValidation("cart id is required")
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return domain.NewValidation("customer id is required")
	}
	if !in.PaymentMethod.Valid() {
		return domain.NewValidationf("unknown payment method %q", in.PaymentMethod)
	}
	return nil
}

// Checkout turns the cart into an order in one transaction: stock is taken,
// lines are snapshotted into pending items, totals are rolled up, the cart is
// emptied, each vendor is notified and an order.created event is queued.
func (l *Ledger) Checkout(ctx context.Context, in CheckoutInput) (order domain.Order, err error) {
	ctx, span := startSpan(ctx, "Ledger.Checkout",
		attribute.String("cart.id", in.CartID), attribute.String("customer.id", in.CustomerID))
	defer func() { endSpan(span, err) }()

	if err := in.validate(); err != nil {
		return domain.Order{}, err
	}
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)

	if in.IdempotencyKey != "" {
		if prior, ok := l.replayCheckout(ctx, in); ok {
			span.SetAttributes(attribute.Bool("checkout.replayed", true))
			return prior, nil
		}
	}

	err = l.retryUnique(ctx, "checkout", func(tx ports.Repository, _ int) error {
		var err error
		order, err = l.checkoutTx(ctx, tx, in)
		return err
	})
	if errors.Is(err, domain.ErrDuplicate) && in.IdempotencyKey != "" {
		// A concurrent checkout with the same key committed first.
		if prior, lookupErr := l.store.GetOrderByIdempotencyKey(ctx, in.CustomerID, in.IdempotencyKey); lookupErr == nil {
			return prior, nil
		}
	}
	if err != nil {
		l.log.WarnContext(ctx, "checkout failed", "cart_id", in.CartID, "error", err)
		return domain.Order{}, err
	}

	l.rememberCheckout(ctx, in, order.ID)
	l.opts.Metrics.OrderCheckedOut(len(order.VendorIDs))
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.String("order.code", order.Code))
	l.log.InfoContext(ctx, "order created",
		"order_id", order.ID, "code", order.Code, "items", len(order.Items), "total", order.Total.StringFixed(2))
	return order, nil
}

func (l *Ledger) checkoutTx(ctx context.Context, tx ports.Repository, in CheckoutInput) (domain.Order, error) {
	lines, err := tx.ListCartLines(ctx, in.CartID)
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart.Withf("cart %s", in.CartID)
	}

	now := l.now()
	order := domain.Order{
		ID:             uuid.NewString(),
		Code:           domain.NumericCode(domain.OrderCodeDigits),
		CustomerID:     in.CustomerID,
		Shipping:       decimal.Zero,
		Tax:            decimal.Zero,
		PaymentStatus:  domain.PaymentProcessing,
		PaymentMethod:  in.PaymentMethod,
		OrderStatus:    domain.StatusPending,
		CreatedAt:      now,
		IdempotencyKey: in.IdempotencyKey,
	}

	subTotal := decimal.Zero
	for _, line := range lines {
		p, err := tx.GetProduct(ctx, line.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		// the cart only reserves the selection; the item is priced
		// against the product as it is now
		priced, err := domain.PriceLine(p, domain.LineSelection{
			CartID: line.CartID,
			UserID: line.UserID,
			Qty:    line.Qty,
			Size:   line.Size,
			Color:  line.Color,
		}, l.opts.Tax)
		if err != nil {
			return domain.Order{}, err
		}
		if err := tx.TakeStock(ctx, line.ProductID, line.Qty); err != nil {
			return domain.Order{}, err
		}

		item := domain.ItemFromLine(priced)
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		item.Code = domain.NumericCode(domain.OrderCodeDigits)
		item.CreatedAt = now
		order.Items = append(order.Items, item)
		subTotal = subTotal.Add(item.SubTotal)
	}
	order.ServiceFee = domain.PercentOf(subTotal, l.opts.ServiceFeePercent)
	order = domain.RecomputeTotals(order)

	if err := tx.CreateOrder(ctx, &order); err != nil {
		return domain.Order{}, err
	}
	if err := tx.ClearCart(ctx, in.CartID); err != nil {
		return domain.Order{}, err
	}
	if err := l.recordChange(ctx, tx, domain.EntityOrder, order.ID, "order_status", "", string(order.OrderStatus)); err != nil {
		return domain.Order{}, err
	}
	if err := l.notifyVendors(ctx, tx, order); err != nil {
		return domain.Order{}, err
	}

	items := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, map[string]any{
			"item_id":    it.ID,
			"code":       it.Code,
			"product_id": it.ProductID,
			"vendor_id":  it.VendorID,
			"qty":        it.Qty,
			"total":      it.Total.StringFixed(2),
		})
	}
	return order, emit(ctx, tx, domain.NewEvent(domain.EventOrderCreated, order.ID, map[string]any{
		"code":        order.Code,
		"customer_id": order.CustomerID,
		"vendors":     order.VendorIDs,
		"total":       order.Total.StringFixed(2),
		"service_fee": order.ServiceFee.StringFixed(2),
		"items":       items,
	}))
}

// notifyVendors writes one New Order notification per vendor, pointing at
// the vendor's first item in the order.
func (l *Ledger) notifyVendors(ctx context.Context, tx ports.Repository, order domain.Order) error {
	users := map[string]string{}
	notified := map[string]bool{}
	for _, it := range order.Items {
		if notified[it.VendorID] {
			continue
		}
		notified[it.VendorID] = true

		userID, err := vendorUser(ctx, tx, it.VendorID, users)
		if err != nil {
			return err
		}
		n := domain.Notification{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        domain.NotifyNewOrder,
			OrderItemID: it.ID,
			CreatedAt:   order.CreatedAt,
		}
		if err := tx.CreateNotification(ctx, &n); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) idempotencyKey(in CheckoutInput) string {
	return l.opts.Cache.GenerateKey("checkout", in.CustomerID+":"+in.IdempotencyKey)
}

// replayCheckout finds the order an earlier checkout with the same key
// created, through the cache first and the orders table second.
func (l *Ledger) replayCheckout(ctx context.Context, in CheckoutInput) (domain.Order, bool) {
	if l.opts.Cache != nil {
		orderID, err := l.opts.Cache.Get(ctx, l.idempotencyKey(in))
		if err != nil {
			l.log.WarnContext(ctx, "idempotency cache unavailable", "error", err)
		} else if orderID != "" {
			if o, err := l.store.GetOrder(ctx, orderID); err == nil {
				return o, true
			}
		}
	}
	o, err := l.store.GetOrderByIdempotencyKey(ctx, in.CustomerID, in.IdempotencyKey)
	if err != nil {
		return domain.Order{}, false
	}
	return o, true
}

func (l *Ledger) rememberCheckout(ctx context.Context, in CheckoutInput, orderID string) {
	if in.IdempotencyKey == "" || l.opts.Cache == nil {
		return
	}
	if err := l.opts.Cache.Set(ctx, l.idempotencyKey(in), orderID, l.opts.IdempotencyTTL); err != nil {
		l.log.WarnContext(ctx, "failed to cache checkout key", "order_id", orderID, "error", err)
	}
}
