package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func TestItemMovesThroughFulfillment(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	o := m.checkout(t, "cart-1", "")
	itemID := o.Items[0].ID

	for _, status := range []domain.OrderStatus{domain.StatusProcessing, domain.StatusShipped, domain.StatusFulfilled} {
		in := ItemStatusInput{ItemID: itemID, Status: status}
		if status == domain.StatusShipped {
			in.ShippingService = domain.ShippingDHL
			in.TrackingID = "JD0001"
		}
		it, err := m.ledger.MarkItemStatus(m.ctx, in)
		require.NoError(t, err, status)
		assert.Equal(t, status, it.OrderStatus)
	}

	it, err := m.ledger.GetOrderItem(m.ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShippingDHL, it.ShippingService)
	assert.Equal(t, "JD0001", it.TrackingID)

	_, err = m.ledger.MarkItemStatus(m.ctx, ItemStatusInput{ItemID: itemID, Status: domain.StatusPending})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// The order keeps its own status.
	order, err := m.ledger.GetOrder(m.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, order.OrderStatus)

	history, err := m.ledger.History(m.ctx, domain.EntityOrderItem, itemID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, string(domain.StatusPending), history[0].From)
	assert.Equal(t, string(domain.StatusFulfilled), history[2].To)

	ns, err := m.ledger.ListNotifications(m.ctx, m.customer.ID, false)
	require.NoError(t, err)
	var kinds []domain.NotificationType
	for _, n := range ns {
		kinds = append(kinds, n.Type)
	}
	assert.ElementsMatch(t, []domain.NotificationType{domain.NotifyItemShipped, domain.NotifyItemDelivered}, kinds)

	require.NoError(t, m.ledger.MarkNotificationSeen(m.ctx, ns[0].ID))
	unseen, err := m.ledger.ListNotifications(m.ctx, m.customer.ID, true)
	require.NoError(t, err)
	assert.Len(t, unseen, 1)
}

func TestItemStatusRejectsUnknownShippingService(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	o := m.checkout(t, "cart-1", "")

	_, err := m.ledger.MarkItemStatus(m.ctx, ItemStatusInput{
		ItemID: o.Items[0].ID, Status: domain.StatusShipped, ShippingService: "Pigeon",
	})
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindValidation, kind)
}

func TestOrderStatusTransitions(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	o := m.checkout(t, "cart-1", "")

	o, err := m.ledger.MarkOrderStatus(m.ctx, o.ID, domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, o.OrderStatus)
	assert.Equal(t, 2, o.Version)

	_, err = m.ledger.MarkOrderStatus(m.ctx, o.ID, domain.StatusProcessing)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Items are not cascaded.
	it, err := m.ledger.GetOrderItem(m.ctx, o.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, it.OrderStatus)
}

func TestPaymentSettlesOnce(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	o := m.checkout(t, "cart-1", "")

	o, err := m.ledger.MarkPaymentStatus(m.ctx, o.ID, domain.PaymentPaid, " pi_123 ")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, "pi_123", o.PaymentID)

	_, err = m.ledger.MarkPaymentStatus(m.ctx, o.ID, domain.PaymentFailed, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	history, err := m.ledger.History(m.ctx, domain.EntityOrder, o.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "payment_status", history[1].Field)
}

func TestHistoryRejectsUnknownEntity(t *testing.T) {
	m := newMarketplace(t, Options{})
	_, err := m.ledger.History(m.ctx, "cart", "x")
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindValidation, kind)
}
