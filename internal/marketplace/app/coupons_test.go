package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func TestApplyCouponIsIdempotent(t *testing.T) {
	rec := &countingRecorder{}
	m := newMarketplace(t, Options{Metrics: rec})
	m.add(t, "cart-1", m.shirt, 2)
	m.add(t, "cart-1", m.lamp, 1)
	o := m.checkout(t, "cart-1", "")

	_, err := m.ledger.CreateCoupon(m.ctx, m.vendorA.ID, "save10", 10)
	require.NoError(t, err)

	shirtItem := itemOf(t, o, m.vendorA.ID)
	first, err := m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, "2.00", first.Saved.StringFixed(2))
	assert.Equal(t, "25.00", first.Total.StringFixed(2))
	assert.Equal(t, "27.00", first.InitialTotal.StringFixed(2))
	assert.True(t, first.AppliedCoupon)

	second, err := m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "save10")
	require.NoError(t, err)
	assert.Equal(t, first.Total.StringFixed(2), second.Total.StringFixed(2))
	assert.Equal(t, first.Saved.StringFixed(2), second.Saved.StringFixed(2))

	order, err := m.ledger.GetOrder(m.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "57.00", order.Total.StringFixed(2))
	assert.Equal(t, "2.00", order.Saved.StringFixed(2))
	assert.Equal(t, "59.00", order.InitialTotal.StringFixed(2))
	assert.True(t, order.Balanced())
	assert.Equal(t, 2, rec.coupons)
}

func TestApplyCouponRejections(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	m.add(t, "cart-1", m.lamp, 1)
	o := m.checkout(t, "cart-1", "")
	shirtItem := itemOf(t, o, m.vendorA.ID)

	_, err := m.ledger.CreateCoupon(m.ctx, m.vendorB.ID, "LAMPS", 20)
	require.NoError(t, err)
	_, err = m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "LAMPS")
	assert.ErrorIs(t, err, domain.ErrCouponVendorMismatch)

	_, err = m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "NOPE")
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)

	c, err := m.ledger.CreateCoupon(m.ctx, m.vendorA.ID, "OFF", 10)
	require.NoError(t, err)
	require.NoError(t, m.ledger.SetCouponActive(m.ctx, c.ID, false))
	_, err = m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "OFF")
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)

	_, err = m.ledger.CreateCoupon(m.ctx, m.vendorA.ID, "off", 5)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, m.ledger.SetCouponActive(m.ctx, c.ID, true))
	_, err = m.ledger.MarkPaymentStatus(m.ctx, o.ID, domain.PaymentPaid, "")
	require.NoError(t, err)
	_, err = m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "OFF")
	assert.ErrorIs(t, err, domain.ErrOrderSettled)

	item, err := m.ledger.GetOrderItem(m.ctx, shirtItem.ID)
	require.NoError(t, err)
	assert.False(t, item.AppliedCoupon)
	assert.Equal(t, shirtItem.Total.StringFixed(2), item.Total.StringFixed(2))
}

func TestApplyCouponAfterPayoutIsRejected(t *testing.T) {
	m := newMarketplace(t, Options{Payout: domain.ItemTotalPayout})
	m.add(t, "cart-1", m.shirt, 2)
	o := m.checkout(t, "cart-1", "")
	shirtItem := itemOf(t, o, m.vendorA.ID)

	_, err := m.ledger.CreateCoupon(m.ctx, m.vendorA.ID, "HALF", 50)
	require.NoError(t, err)

	fulfill(t, m, shirtItem.ID)
	p, err := m.ledger.CreatePayout(m.ctx, shirtItem.ID)
	require.NoError(t, err)
	assert.Equal(t, "27.00", p.Amount.StringFixed(2))

	_, err = m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "HALF")
	assert.ErrorIs(t, err, domain.ErrOrderSettled)

	item, err := m.ledger.GetOrderItem(m.ctx, shirtItem.ID)
	require.NoError(t, err)
	assert.False(t, item.AppliedCoupon)
	assert.Equal(t, p.Amount.StringFixed(2), item.Total.StringFixed(2))
}

func TestApplyCouponToFulfilledItemIsRejected(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	o := m.checkout(t, "cart-1", "")
	shirtItem := itemOf(t, o, m.vendorA.ID)

	_, err := m.ledger.CreateCoupon(m.ctx, m.vendorA.ID, "HALF", 50)
	require.NoError(t, err)
	fulfill(t, m, shirtItem.ID)

	_, err = m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "HALF")
	assert.ErrorIs(t, err, domain.ErrOrderSettled)
}

func TestConcurrentCouponApplicationDiscountsOnce(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 2)
	m.add(t, "cart-1", m.lamp, 1)
	o := m.checkout(t, "cart-1", "")
	shirtItem := itemOf(t, o, m.vendorA.ID)

	_, err := m.ledger.CreateCoupon(m.ctx, m.vendorA.ID, "SAVE10", 10)
	require.NoError(t, err)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.ledger.ApplyCoupon(m.ctx, shirtItem.ID, "SAVE10")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
		}
	}

	item, err := m.ledger.GetOrderItem(m.ctx, shirtItem.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.00", item.Saved.StringFixed(2))
	assert.Equal(t, "25.00", item.Total.StringFixed(2))

	order, err := m.ledger.GetOrder(m.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "57.00", order.Total.StringFixed(2))
	assert.True(t, order.Balanced())
}
