package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func (r *repo) CreateCoupon(ctx context.Context, c *domain.Coupon) error {
	_, err := r.exec(ctx, `INSERT INTO coupons (id, vendor_id, code, discount, active) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.VendorID, c.Code, c.Discount, c.Active)
	if err != nil {
		return fmt.Errorf("sqlstore: create coupon %q: %w", c.Code, err)
	}
	return nil
}

func (r *repo) SetCouponActive(ctx context.Context, id string, active bool) error {
	err := r.execOne(ctx, `UPDATE coupons SET active = ? WHERE id = ?`, active, id)
	if errors.Is(err, errNoRows) {
		return domain.NewNotFound("coupon", id)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: set coupon %q active: %w", id, err)
	}
	return nil
}

// FindCouponsByCode returns every coupon with code, active or not, across
// vendors.
func (r *repo) FindCouponsByCode(ctx context.Context, code string) ([]domain.Coupon, error) {
	return r.listCoupons(ctx, `code = ?`, code)
}

func (r *repo) ListVendorCoupons(ctx context.Context, vendorID string) ([]domain.Coupon, error) {
	return r.listCoupons(ctx, `vendor_id = ?`, vendorID)
}

func (r *repo) listCoupons(ctx context.Context, where string, arg any) ([]domain.Coupon, error) {
	rows, err := r.query(ctx, `SELECT id, vendor_id, code, discount, active FROM coupons WHERE `+where+` ORDER BY code, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list coupons: %w", err)
	}
	defer rows.Close()

	var out []domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(&c.ID, &c.VendorID, &c.Code, &c.Discount, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
