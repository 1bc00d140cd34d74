package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

// UpsertCartLine writes line under its (cart, product, size, color) key. An
// existing line keeps its id and creation time; everything else is replaced,
// so a repeated add sets the quantity instead of adding to it.
func (r *repo) UpsertCartLine(ctx context.Context, line *domain.CartLine) error {
	const q = `
		INSERT INTO cart_lines
			(id, cart_id, user_id, product_id, vendor_id, qty, price, sub_total, shipping, tax, total,
			 size, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (cart_id, product_id, size, color) DO UPDATE SET
			user_id = excluded.user_id,
			vendor_id = excluded.vendor_id,
			qty = excluded.qty,
			price = excluded.price,
			sub_total = excluded.sub_total,
			shipping = excluded.shipping,
			tax = excluded.tax,
			total = excluded.total
		RETURNING id, created_at`
	err := r.queryRow(ctx, q, line.ID, line.CartID, line.UserID, line.ProductID, line.VendorID, line.Qty,
		line.Price, line.SubTotal, line.Shipping, line.Tax, line.Total, line.Size, line.Color,
		r.d.ts(line.CreatedAt)).Scan(&line.ID, timeCol{&line.CreatedAt})
	if err != nil {
		return fmt.Errorf("sqlstore: upsert cart line: %w", r.d.translate(err))
	}
	return nil
}

func (r *repo) DeleteCartLine(ctx context.Context, cartID, lineID string) error {
	err := r.execOne(ctx, `DELETE FROM cart_lines WHERE cart_id = ? AND id = ?`, cartID, lineID)
	if errors.Is(err, errNoRows) {
		return domain.NewNotFound("cart line", lineID)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: delete cart line %q: %w", lineID, err)
	}
	return nil
}

func (r *repo) ListCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error) {
	const q = `
		SELECT id, cart_id, user_id, product_id, vendor_id, qty, price, sub_total, shipping, tax, total,
		       size, color, created_at
		FROM   cart_lines
		WHERE  cart_id = ?
		ORDER  BY created_at, id`
	rows, err := r.query(ctx, q, cartID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list cart %q: %w", cartID, err)
	}
	defer rows.Close()

	var out []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ID, &l.CartID, &l.UserID, &l.ProductID, &l.VendorID, &l.Qty, &l.Price,
			&l.SubTotal, &l.Shipping, &l.Tax, &l.Total, &l.Size, &l.Color, timeCol{&l.CreatedAt}); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *repo) ClearCart(ctx context.Context, cartID string) error {
	if _, err := r.exec(ctx, `DELETE FROM cart_lines WHERE cart_id = ?`, cartID); err != nil {
		return fmt.Errorf("sqlstore: clear cart %q: %w", cartID, err)
	}
	return nil
}
