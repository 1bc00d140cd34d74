package app

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

type ItemStatusInput struct {
	ItemID          string
	Status          domain.OrderStatus
	ShippingService domain.ShippingService
	TrackingID      string
}

// MarkItemStatus moves one item through the fulfillment state machine. The
// order's own status is left alone. Shipped and Fulfilled notify the
// customer.
func (l *Ledger) MarkItemStatus(ctx context.Context, in ItemStatusInput) (item domain.OrderItem, err error) {
	ctx, span := startSpan(ctx, "Ledger.MarkItemStatus",
		attribute.String("order_item.id", in.ItemID), attribute.String("status", string(in.Status)))
	defer func() { endSpan(span, err) }()

	if in.ShippingService != "" && !in.ShippingService.Valid() {
		return domain.OrderItem{}, domain.NewValidationf("unknown shipping service %q", in.ShippingService)
	}

	var from domain.OrderStatus
	err = l.store.WithTx(ctx, func(tx ports.Repository) error {
		order, locked, err := lockItem(ctx, tx, in.ItemID)
		if err != nil {
			return err
		}
		from = locked.OrderStatus
		if err := domain.CheckTransition(from, in.Status); err != nil {
			return err
		}

		item = locked
		item.OrderStatus = in.Status
		if in.ShippingService != "" {
			item.ShippingService = in.ShippingService
		}
		if t := strings.TrimSpace(in.TrackingID); t != "" {
			item.TrackingID = t
		}
		if err := tx.UpdateOrderItem(ctx, &item); err != nil {
			return err
		}
		if err := l.recordChange(ctx, tx, domain.EntityOrderItem, item.ID, "order_status", string(from), string(item.OrderStatus)); err != nil {
			return err
		}

		if kind, ok := domain.NotificationFor(item.OrderStatus); ok {
			n := domain.Notification{
				ID:          uuid.NewString(),
				UserID:      order.CustomerID,
				Type:        kind,
				OrderItemID: item.ID,
				CreatedAt:   l.now(),
			}
			if err := tx.CreateNotification(ctx, &n); err != nil {
				return err
			}
		}

		return emit(ctx, tx, domain.NewEvent(domain.EventItemStatusChanged, order.ID, map[string]any{
			"item_id":          item.ID,
			"vendor_id":        item.VendorID,
			"from":             string(from),
			"to":               string(item.OrderStatus),
			"shipping_service": string(item.ShippingService),
			"tracking_id":      item.TrackingID,
		}))
	})
	if err != nil {
		return domain.OrderItem{}, err
	}
	l.log.InfoContext(ctx, "order item status changed", "order_item_id", item.ID, "from", from, "to", item.OrderStatus)
	return item, nil
}

// MarkOrderStatus moves the order through the same state machine. Items are
// not cascaded.
func (l *Ledger) MarkOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (order domain.Order, err error) {
	ctx, span := startSpan(ctx, "Ledger.MarkOrderStatus",
		attribute.String("order.id", orderID), attribute.String("status", string(status)))
	defer func() { endSpan(span, err) }()

	var from domain.OrderStatus
	err = l.store.WithTx(ctx, func(tx ports.Repository) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		from = order.OrderStatus
		if err := domain.CheckTransition(from, status); err != nil {
			return err
		}
		order.OrderStatus = status
		if err := tx.UpdateOrder(ctx, &order); err != nil {
			return err
		}
		if err := l.recordChange(ctx, tx, domain.EntityOrder, order.ID, "order_status", string(from), string(status)); err != nil {
			return err
		}
		return emit(ctx, tx, domain.NewEvent(domain.EventOrderStatusChanged, order.ID, map[string]any{
			"from": string(from),
			"to":   string(status),
		}))
	})
	if err != nil {
		return domain.Order{}, err
	}
	l.log.InfoContext(ctx, "order status changed", "order_id", order.ID, "from", from, "to", status)
	return order, nil
}

// MarkPaymentStatus settles the payment of an order as Paid or Failed. A
// settled payment never changes again.
func (l *Ledger) MarkPaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus, paymentID string) (order domain.Order, err error) {
	ctx, span := startSpan(ctx, "Ledger.MarkPaymentStatus",
		attribute.String("order.id", orderID), attribute.String("payment_status", string(status)))
	defer func() { endSpan(span, err) }()

	var from domain.PaymentStatus
	err = l.store.WithTx(ctx, func(tx ports.Repository) error {
		var err error
		order, err = tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		from = order.PaymentStatus
		if err := domain.CheckPaymentTransition(from, status); err != nil {
			return err
		}
		order.PaymentStatus = status
		if paymentID = strings.TrimSpace(paymentID); paymentID != "" {
			order.PaymentID = paymentID
		}
		if err := tx.UpdateOrder(ctx, &order); err != nil {
			return err
		}
		if err := l.recordChange(ctx, tx, domain.EntityOrder, order.ID, "payment_status", string(from), string(status)); err != nil {
			return err
		}
		return emit(ctx, tx, domain.NewEvent(domain.EventPaymentStatusChanged, order.ID, map[string]any{
			"from":       string(from),
			"to":         string(status),
			"payment_id": order.PaymentID,
			"total":      order.Total.StringFixed(2),
		}))
	})
	if err != nil {
		return domain.Order{}, err
	}
	l.log.InfoContext(ctx, "payment status changed", "order_id", order.ID, "from", from, "to", status)
	return order, nil
}

func (l *Ledger) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return l.store.GetOrder(ctx, id)
}

func (l *Ledger) GetOrderByCode(ctx context.Context, code string) (domain.Order, error) {
	return l.store.GetOrderByCode(ctx, code)
}

func (l *Ledger) ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	return l.store.ListCustomerOrders(ctx, customerID)
}

func (l *Ledger) ListVendorItems(ctx context.Context, vendorID string) ([]domain.OrderItem, error) {
	return l.store.ListVendorItems(ctx, vendorID)
}

func (l *Ledger) GetOrderItem(ctx context.Context, id string) (domain.OrderItem, error) {
	return l.store.GetOrderItem(ctx, id)
}

// History returns the status transitions of an order or order item, oldest
// first.
func (l *Ledger) History(ctx context.Context, entity, id string) ([]domain.StatusChange, error) {
	if entity != domain.EntityOrder && entity != domain.EntityOrderItem {
		return nil, domain.NewValidationf("unknown entity %q", entity)
	}
	return l.store.ListStatusChanges(ctx, entity, id)
}
