package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

const orderColumns = `id, code, customer_id, sub_total, shipping, tax, service_fee, total, initial_total, saved,
	payment_status, payment_method, payment_id, order_status, COALESCE(idempotency_key, ''), version, created_at`

const itemColumns = `id, order_id, code, product_id, vendor_id, qty, size, color, price, sub_total, shipping, tax,
	total, initial_total, saved, coupon_id, applied_coupon, order_status, shipping_service, tracking_id,
	version, created_at`

type scanner interface{ Scan(...any) error }

func scanOrder(s scanner) (domain.Order, error) {
	var o domain.Order
	err := s.Scan(&o.ID, &o.Code, &o.CustomerID, &o.SubTotal, &o.Shipping, &o.Tax, &o.ServiceFee, &o.Total,
		&o.InitialTotal, &o.Saved, &o.PaymentStatus, &o.PaymentMethod, &o.PaymentID, &o.OrderStatus,
		&o.IdempotencyKey, &o.Version, timeCol{&o.CreatedAt})
	return o, err
}

func scanItem(s scanner) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := s.Scan(&it.ID, &it.OrderID, &it.Code, &it.ProductID, &it.VendorID, &it.Qty, &it.Size, &it.Color,
		&it.Price, &it.SubTotal, &it.Shipping, &it.Tax, &it.Total, &it.InitialTotal, &it.Saved, &it.CouponID,
		&it.AppliedCoupon, &it.OrderStatus, &it.ShippingService, &it.TrackingID, &it.Version,
		timeCol{&it.CreatedAt})
	return it, err
}

// CreateOrder inserts the order with its items and vendor set. Versions
// start at 1.
func (r *repo) CreateOrder(ctx context.Context, o *domain.Order) error {
	const q = `
		INSERT INTO orders
			(id, code, customer_id, sub_total, shipping, tax, service_fee, total, initial_total, saved,
			 payment_status, payment_method, payment_id, order_status, idempotency_key, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`
	if _, err := r.exec(ctx, q, o.ID, o.Code, o.CustomerID, o.SubTotal, o.Shipping, o.Tax, o.ServiceFee,
		o.Total, o.InitialTotal, o.Saved, string(o.PaymentStatus), string(o.PaymentMethod), o.PaymentID,
		string(o.OrderStatus), nullable(o.IdempotencyKey), r.d.ts(o.CreatedAt)); err != nil {
		return fmt.Errorf("sqlstore: create order: %w", err)
	}
	o.Version = 1

	for _, vendorID := range o.VendorIDs {
		if _, err := r.exec(ctx, `INSERT INTO order_vendors (order_id, vendor_id) VALUES (?, ?)`, o.ID, vendorID); err != nil {
			return fmt.Errorf("sqlstore: add vendor %q to order: %w", vendorID, err)
		}
	}

	const qi = `
		INSERT INTO order_items
			(id, order_id, code, product_id, vendor_id, qty, size, color, price, sub_total, shipping, tax,
			 total, initial_total, saved, coupon_id, applied_coupon, order_status, shipping_service,
			 tracking_id, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`
	for i := range o.Items {
		it := &o.Items[i]
		if _, err := r.exec(ctx, qi, it.ID, o.ID, it.Code, it.ProductID, it.VendorID, it.Qty, it.Size, it.Color,
			it.Price, it.SubTotal, it.Shipping, it.Tax, it.Total, it.InitialTotal, it.Saved, it.CouponID,
			it.AppliedCoupon, string(it.OrderStatus), string(it.ShippingService), it.TrackingID,
			r.d.ts(it.CreatedAt)); err != nil {
			return fmt.Errorf("sqlstore: create order item: %w", err)
		}
		it.OrderID = o.ID
		it.Version = 1
	}
	return nil
}

func (r *repo) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return r.loadOrder(ctx, `id = ?`, id, "")
}

func (r *repo) GetOrderForUpdate(ctx context.Context, id string) (domain.Order, error) {
	return r.loadOrder(ctx, `id = ?`, id, r.d.forUpdate())
}

func (r *repo) GetOrderByCode(ctx context.Context, code string) (domain.Order, error) {
	return r.loadOrder(ctx, `code = ?`, code, "")
}

func (r *repo) GetOrderByIdempotencyKey(ctx context.Context, customerID, key string) (domain.Order, error) {
	row := r.queryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = ? AND idempotency_key = ?`,
		customerID, key)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NewNotFound("order with idempotency key", key)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlstore: get order by idempotency key: %w", err)
	}
	return r.withChildren(ctx, o)
}

func (r *repo) loadOrder(ctx context.Context, where string, arg any, lock string) (domain.Order, error) {
	row := r.queryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where+lock, arg)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NewNotFound("order", fmt.Sprint(arg))
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlstore: get order %v: %w", arg, err)
	}
	return r.withChildren(ctx, o)
}

// withChildren loads the items and vendor set of o.
func (r *repo) withChildren(ctx context.Context, o domain.Order) (domain.Order, error) {
	items, err := r.listItems(ctx, `order_id = ?`, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items

	rows, err := r.query(ctx, `SELECT vendor_id FROM order_vendors WHERE order_id = ? ORDER BY vendor_id`, o.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlstore: list order vendors: %w", err)
	}
	defer rows.Close()
	o.VendorIDs = nil
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return domain.Order{}, err
		}
		o.VendorIDs = append(o.VendorIDs, v)
	}
	return o, rows.Err()
}

func (r *repo) ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = ? ORDER BY created_at DESC, id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list orders of %q: %w", customerID, err)
	}
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	// Children are loaded after the cursor is closed; SQLite has only one
	// connection to run them on.
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i], err = r.withChildren(ctx, orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrder persists the mutable order fields when o.Version still
// matches the stored row, then bumps o.Version.
func (r *repo) UpdateOrder(ctx context.Context, o *domain.Order) error {
	const q = `
		UPDATE orders SET
			sub_total = ?, shipping = ?, tax = ?, service_fee = ?, total = ?, initial_total = ?, saved = ?,
			payment_status = ?, payment_method = ?, payment_id = ?, order_status = ?,
			version = version + 1
		WHERE id = ? AND version = ?`
	err := r.execOne(ctx, q, o.SubTotal, o.Shipping, o.Tax, o.ServiceFee, o.Total, o.InitialTotal, o.Saved,
		string(o.PaymentStatus), string(o.PaymentMethod), o.PaymentID, string(o.OrderStatus), o.ID, o.Version)
	if errors.Is(err, errNoRows) {
		return domain.ErrConcurrencyConflict.Withf("order %s version %d", o.ID, o.Version)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: update order %q: %w", o.ID, err)
	}
	o.Version++
	return nil
}

func (r *repo) GetOrderItem(ctx context.Context, id string) (domain.OrderItem, error) {
	return r.getItem(ctx, id, "")
}

func (r *repo) GetOrderItemForUpdate(ctx context.Context, id string) (domain.OrderItem, error) {
	return r.getItem(ctx, id, r.d.forUpdate())
}

func (r *repo) getItem(ctx context.Context, id, lock string) (domain.OrderItem, error) {
	it, err := scanItem(r.queryRow(ctx, `SELECT `+itemColumns+` FROM order_items WHERE id = ?`+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderItem{}, domain.NewNotFound("order item", id)
	}
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("sqlstore: get order item %q: %w", id, err)
	}
	return it, nil
}

func (r *repo) ListVendorItems(ctx context.Context, vendorID string) ([]domain.OrderItem, error) {
	return r.listItems(ctx, `vendor_id = ?`, vendorID)
}

func (r *repo) listItems(ctx context.Context, where string, arg any) ([]domain.OrderItem, error) {
	rows, err := r.query(ctx, `SELECT `+itemColumns+` FROM order_items WHERE `+where+` ORDER BY created_at, code`, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list order items: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateOrderItem persists the mutable item fields when item.Version still
// matches, then bumps item.Version.
func (r *repo) UpdateOrderItem(ctx context.Context, item *domain.OrderItem) error {
	const q = `
		UPDATE order_items SET
			total = ?, initial_total = ?, saved = ?, coupon_id = ?, applied_coupon = ?,
			order_status = ?, shipping_service = ?, tracking_id = ?,
			version = version + 1
		WHERE id = ? AND version = ?`
	err := r.execOne(ctx, q, item.Total, item.InitialTotal, item.Saved, item.CouponID, item.AppliedCoupon,
		string(item.OrderStatus), string(item.ShippingService), item.TrackingID, item.ID, item.Version)
	if errors.Is(err, errNoRows) {
		return domain.ErrConcurrencyConflict.Withf("order item %s version %d", item.ID, item.Version)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: update order item %q: %w", item.ID, err)
	}
	item.Version++
	return nil
}
