package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func (r *repo) CreateNotification(ctx context.Context, n *domain.Notification) error {
	_, err := r.exec(ctx, `
		INSERT INTO notifications (id, user_id, type, order_item_id, seen, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.OrderItemID, n.Seen, r.d.ts(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlstore: create notification: %w", err)
	}
	return nil
}

func (r *repo) ListNotifications(ctx context.Context, userID string, unseenOnly bool) ([]domain.Notification, error) {
	q := `SELECT id, user_id, type, order_item_id, seen, created_at FROM notifications WHERE user_id = ?`
	args := []any{userID}
	if unseenOnly {
		q += ` AND seen = ?`
		args = append(args, false)
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.OrderItemID, &n.Seen, timeCol{&n.CreatedAt}); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repo) MarkNotificationSeen(ctx context.Context, id string) error {
	err := r.execOne(ctx, `UPDATE notifications SET seen = ? WHERE id = ?`, true, id)
	if errors.Is(err, errNoRows) {
		return domain.NewNotFound("notification", id)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: mark notification %q: %w", id, err)
	}
	return nil
}

const reviewColumns = `id, user_id, product_id, review, reply, rating, active, created_at`

func scanReview(s scanner) (domain.Review, error) {
	var rv domain.Review
	err := s.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Review, &rv.Reply, &rv.Rating, &rv.Active,
		timeCol{&rv.CreatedAt})
	return rv, err
}

func (r *repo) CreateReview(ctx context.Context, rv *domain.Review) error {
	_, err := r.exec(ctx, `INSERT INTO reviews (`+reviewColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rv.ID, rv.UserID, rv.ProductID, rv.Review, rv.Reply, rv.Rating, rv.Active, r.d.ts(rv.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlstore: create review: %w", err)
	}
	return nil
}

func (r *repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	rv, err := scanReview(r.queryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.NewNotFound("review", id)
	}
	if err != nil {
		return domain.Review{}, fmt.Errorf("sqlstore: get review %q: %w", id, err)
	}
	return rv, nil
}

// UpdateReview writes the reply and the moderation flag.
func (r *repo) UpdateReview(ctx context.Context, rv domain.Review) error {
	err := r.execOne(ctx, `UPDATE reviews SET reply = ?, active = ? WHERE id = ?`, rv.Reply, rv.Active, rv.ID)
	if errors.Is(err, errNoRows) {
		return domain.NewNotFound("review", rv.ID)
	}
	if err != nil {
		return fmt.Errorf("sqlstore: update review %q: %w", rv.ID, err)
	}
	return nil
}

func (r *repo) ListProductReviews(ctx context.Context, productID string, activeOnly bool) ([]domain.Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = ?`
	args := []any{productID}
	if activeOnly {
		q += ` AND active = ?`
		args = append(args, true)
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// AddWishlist is idempotent.
func (r *repo) AddWishlist(ctx context.Context, e domain.WishlistEntry) error {
	_, err := r.exec(ctx, `INSERT INTO wishlist (user_id, product_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		e.UserID, e.ProductID)
	if err != nil {
		return fmt.Errorf("sqlstore: add wishlist: %w", err)
	}
	return nil
}

// RemoveWishlist reports whether an entry was removed.
func (r *repo) RemoveWishlist(ctx context.Context, e domain.WishlistEntry) (bool, error) {
	err := r.execOne(ctx, `DELETE FROM wishlist WHERE user_id = ? AND product_id = ?`, e.UserID, e.ProductID)
	if errors.Is(err, errNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlstore: remove wishlist: %w", err)
	}
	return true, nil
}

func (r *repo) ListWishlist(ctx context.Context, userID string) ([]domain.Product, error) {
	rows, err := r.query(ctx, `
		SELECT p.id, p.vendor_id, COALESCE(p.category_id, ''), p.name, p.description, p.price,
		       p.regular_price, p.stock, p.shipping, p.status, p.featured, p.sku, p.slug, p.created_at
		FROM   wishlist w
		JOIN   products p ON p.id = w.product_id
		WHERE  w.user_id = ?
		ORDER  BY p.name, p.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list wishlist: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repo) SaveAddress(ctx context.Context, a *domain.Address) error {
	const q = `
		INSERT INTO addresses (id, user_id, full_name, mobile, email, country, state, city, address, zip_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			mobile = excluded.mobile,
			email = excluded.email,
			country = excluded.country,
			state = excluded.state,
			city = excluded.city,
			address = excluded.address,
			zip_code = excluded.zip_code`
	if _, err := r.exec(ctx, q, a.ID, a.UserID, a.FullName, a.Mobile, a.Email, a.Country, a.State, a.City,
		a.Address, a.ZipCode); err != nil {
		return fmt.Errorf("sqlstore: save address: %w", err)
	}
	return nil
}

func (r *repo) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	rows, err := r.query(ctx, `
		SELECT id, user_id, full_name, mobile, email, country, state, city, address, zip_code
		FROM   addresses WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list addresses: %w", err)
	}
	defer rows.Close()

	var out []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.FullName, &a.Mobile, &a.Email, &a.Country, &a.State, &a.City,
			&a.Address, &a.ZipCode); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
