package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

// CreateCoupon stores an active coupon. Codes are upper-cased and unique per
// vendor.
func (l *Ledger) CreateCoupon(ctx context.Context, vendorID, code string, discount int) (domain.Coupon, error) {
	c := domain.Coupon{
		ID:       uuid.NewString(),
		VendorID: vendorID,
		Code:     domain.NormalizeCouponCode(code),
		Discount: discount,
		Active:   true,
	}
	if err := c.Validate(); err != nil {
		return domain.Coupon{}, err
	}
	err := l.store.WithTx(ctx, func(tx ports.Repository) error {
		if _, err := tx.GetVendor(ctx, vendorID); err != nil {
			return err
		}
		return tx.CreateCoupon(ctx, &c)
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	return c, nil
}

func (l *Ledger) SetCouponActive(ctx context.Context, id string, active bool) error {
	return l.store.SetCouponActive(ctx, id, active)
}

func (l *Ledger) ListVendorCoupons(ctx context.Context, vendorID string) ([]domain.Coupon, error) {
	return l.store.ListVendorCoupons(ctx, vendorID)
}

// ApplyCoupon reprices one order item with the vendor's coupon and rolls the
// change up into its order. Applying the same code again leaves the item as
// it was after the first application.
func (l *Ledger) ApplyCoupon(ctx context.Context, itemID, code string) (item domain.OrderItem, err error) {
	ctx, span := startSpan(ctx, "Ledger.ApplyCoupon", attribute.String("order_item.id", itemID))
	defer func() { endSpan(span, err) }()

	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return domain.OrderItem{}, domain.NewValidation("coupon code is required")
	}

	err = l.store.WithTx(ctx, func(tx ports.Repository) error {
		order, locked, err := lockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if order.PaymentStatus.Settled() {
			return domain.ErrOrderSettled.Withf("order %s payment is %s", order.ID, order.PaymentStatus)
		}
		switch _, err := tx.GetPayoutByItem(ctx, locked.ID); {
		case err == nil:
			return domain.ErrOrderSettled.Withf("item %s already paid out", locked.ID)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		candidates, err := tx.FindCouponsByCode(ctx, code)
		if err != nil {
			return err
		}
		coupon, err := domain.SelectCoupon(code, locked.VendorID, candidates)
		if err != nil {
			return err
		}
		item, err = domain.ApplyCoupon(locked, coupon)
		if err != nil {
			return err
		}
		if err := tx.UpdateOrderItem(ctx, &item); err != nil {
			return err
		}

		order.ReplaceItem(item)
		order = domain.RecomputeTotals(order)
		if err := tx.UpdateOrder(ctx, &order); err != nil {
			return err
		}
		return emit(ctx, tx, domain.NewEvent(domain.EventItemCouponApplied, order.ID, map[string]any{
			"item_id":     item.ID,
			"coupon_id":   coupon.ID,
			"code":        coupon.Code,
			"saved":       item.Saved.StringFixed(2),
			"item_total":  item.Total.StringFixed(2),
			"order_total": order.Total.StringFixed(2),
		}))
	})
	if err != nil {
		return domain.OrderItem{}, err
	}
	l.opts.Metrics.CouponApplied()
	l.log.InfoContext(ctx, "coupon applied", "order_item_id", item.ID, "code", code, "saved", item.Saved.StringFixed(2))
	return item, nil
}

// lockItem locks the order that owns itemID, then the item. Every item
// mutation takes the locks in this order.
func lockItem(ctx context.Context, tx ports.Repository, itemID string) (domain.Order, domain.OrderItem, error) {
	peek, err := tx.GetOrderItem(ctx, itemID)
	if err != nil {
		return domain.Order{}, domain.OrderItem{}, err
	}
	order, err := tx.GetOrderForUpdate(ctx, peek.OrderID)
	if err != nil {
		return domain.Order{}, domain.OrderItem{}, err
	}
	item, err := tx.GetOrderItemForUpdate(ctx, itemID)
	if err != nil {
		return domain.Order{}, domain.OrderItem{}, err
	}
	order.ReplaceItem(item)
	return order, item, nil
}
