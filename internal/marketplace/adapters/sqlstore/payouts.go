package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

// CreatePayout relies on the unique item_id constraint, so a concurrent
// second payout for the same item fails with domain.ErrAlreadyPaidOut.
func (r *repo) CreatePayout(ctx context.Context, p *domain.Payout) error {
	const q = `
		INSERT INTO payouts (id, code, vendor_id, item_id, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.exec(ctx, q, p.ID, p.Code, p.VendorID, p.ItemID, p.Amount, r.d.ts(p.CreatedAt)); err != nil {
		return fmt.Errorf("sqlstore: create payout for item %q: %w", p.ItemID, err)
	}
	return nil
}

func (r *repo) GetPayoutByItem(ctx context.Context, itemID string) (domain.Payout, error) {
	var p domain.Payout
	err := r.queryRow(ctx, `SELECT id, code, vendor_id, item_id, amount, created_at FROM payouts WHERE item_id = ?`, itemID).
		Scan(&p.ID, &p.Code, &p.VendorID, &p.ItemID, &p.Amount, timeCol{&p.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Payout{}, domain.NewNotFound("payout for item", itemID)
	}
	if err != nil {
		return domain.Payout{}, fmt.Errorf("sqlstore: get payout for item %q: %w", itemID, err)
	}
	return p, nil
}

func (r *repo) ListVendorPayouts(ctx context.Context, vendorID string) ([]domain.Payout, error) {
	rows, err := r.query(ctx, `
		SELECT id, code, vendor_id, item_id, amount, created_at
		FROM   payouts WHERE vendor_id = ?
		ORDER  BY created_at, id`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list payouts of %q: %w", vendorID, err)
	}
	defer rows.Close()

	var out []domain.Payout
	for rows.Next() {
		var p domain.Payout
		if err := rows.Scan(&p.ID, &p.Code, &p.VendorID, &p.ItemID, &p.Amount, timeCol{&p.CreatedAt}); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
