package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func fulfill(t *testing.T, m *marketplace, itemID string) {
	t.Helper()
	for _, s := range []domain.OrderStatus{domain.StatusProcessing, domain.StatusShipped, domain.StatusFulfilled} {
		_, err := m.ledger.MarkItemStatus(m.ctx, ItemStatusInput{ItemID: itemID, Status: s})
		require.NoError(t, err)
	}
}

func TestPayoutSharesServiceFee(t *testing.T) {
	rec := &countingRecorder{}
	m := newMarketplace(t, Options{ServiceFeePercent: dec("10"), Metrics: rec})
	m.add(t, "cart-1", m.shirt, 2)
	m.add(t, "cart-1", m.lamp, 1)
	o := m.checkout(t, "cart-1", "")
	shirtItem := itemOf(t, o, m.vendorA.ID)
	lampItem := itemOf(t, o, m.vendorB.ID)

	_, err := m.ledger.CreatePayout(m.ctx, shirtItem.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFulfilled)

	fulfill(t, m, shirtItem.ID)
	fulfill(t, m, lampItem.ID)

	p, err := m.ledger.CreatePayout(m.ctx, shirtItem.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", p.Amount.StringFixed(2))
	assert.Equal(t, m.vendorA.ID, p.VendorID)

	_, err = m.ledger.CreatePayout(m.ctx, shirtItem.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyPaidOut)

	p, err = m.ledger.CreatePayout(m.ctx, lampItem.ID)
	require.NoError(t, err)
	assert.Equal(t, "29.50", p.Amount.StringFixed(2))

	earnings, err := m.ledger.VendorEarnings(m.ctx, m.vendorA.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", earnings.StringFixed(2))
	require.Len(t, rec.payouts, 2)
}

func TestPayoutItemTotalPolicy(t *testing.T) {
	m := newMarketplace(t, Options{ServiceFeePercent: dec("10"), Payout: domain.ItemTotalPayout})
	m.add(t, "cart-1", m.shirt, 2)
	o := m.checkout(t, "cart-1", "")
	fulfill(t, m, o.Items[0].ID)

	p, err := m.ledger.CreatePayout(m.ctx, o.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "27.00", p.Amount.StringFixed(2))

	ps, err := m.ledger.ListVendorPayouts(m.ctx, m.vendorA.ID)
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestConcurrentPayoutsPayOnce(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 2)
	o := m.checkout(t, "cart-1", "")
	shirtItem := itemOf(t, o, m.vendorA.ID)
	fulfill(t, m, shirtItem.ID)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.ledger.CreatePayout(m.ctx, shirtItem.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyPaidOut)
	}
	assert.Equal(t, 1, succeeded)

	ps, err := m.ledger.ListVendorPayouts(m.ctx, m.vendorA.ID)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "27.00", ps[0].Amount.StringFixed(2))
}
