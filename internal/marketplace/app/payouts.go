package app

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

// CreatePayout records what the vendor is owed for a fulfilled item. An item
// is paid out at most once; the store's unique constraint backs the check
// below against concurrent callers.
func (l *Ledger) CreatePayout(ctx context.Context, itemID string) (p domain.Payout, err error) {
	ctx, span := startSpan(ctx, "Ledger.CreatePayout", attribute.String("order_item.id", itemID))
	defer func() { endSpan(span, err) }()

	err = l.retryUnique(ctx, "create_payout", func(tx ports.Repository, _ int) error {
		order, item, err := lockItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if err := domain.CheckPayable(item); err != nil {
			return err
		}
		switch _, err := tx.GetPayoutByItem(ctx, item.ID); {
		case err == nil:
			return domain.ErrAlreadyPaidOut.Withf("item %s", item.ID)
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		p = domain.Payout{
			ID:        uuid.NewString(),
			Code:      domain.NumericCode(domain.PayoutCodeDigits),
			VendorID:  item.VendorID,
			ItemID:    item.ID,
			Amount:    domain.RoundMoney(l.opts.Payout(order, item)),
			CreatedAt: l.now(),
		}
		if err := tx.CreatePayout(ctx, &p); err != nil {
			return err
		}
		return emit(ctx, tx, domain.NewEvent(domain.EventPayoutCreated, order.ID, map[string]any{
			"payout_id": p.ID,
			"code":      p.Code,
			"vendor_id": p.VendorID,
			"item_id":   p.ItemID,
			"amount":    p.Amount.StringFixed(2),
		}))
	})
	if err != nil {
		return domain.Payout{}, err
	}
	l.opts.Metrics.PayoutCreated(p.Amount)
	l.log.InfoContext(ctx, "payout created", "payout_id", p.ID, "order_item_id", itemID, "amount", p.Amount.StringFixed(2))
	return p, nil
}

func (l *Ledger) ListVendorPayouts(ctx context.Context, vendorID string) ([]domain.Payout, error) {
	return l.store.ListVendorPayouts(ctx, vendorID)
}

// VendorEarnings is the sum of all payouts recorded for a vendor.
func (l *Ledger) VendorEarnings(ctx context.Context, vendorID string) (decimal.Decimal, error) {
	payouts, err := l.store.ListVendorPayouts(ctx, vendorID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payouts {
		total = total.Add(p.Amount)
	}
	return domain.RoundMoney(total), nil
}
