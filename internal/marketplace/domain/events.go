package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types written to the outbox for downstream consumers.
const (
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
	EventPaymentStatusChanged = "order.payment_status_changed"
	EventItemStatusChanged    = "order_item.status_changed"
	EventItemCouponApplied    = "order_item.coupon_applied"
	EventPayoutCreated        = "payout.created"
)

type Event struct {
	EventID   string         `json:"event_id"`
	Type      string         `json:"type"`
	OrderID   string         `json:"order_id"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   map[string]any `json:"payload"`
}

func NewEvent(eventType, orderID string, payload map[string]any) Event {
	return Event{
		EventID:   uuid.NewString(),
		Type:      eventType,
		OrderID:   orderID,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}

// OutboxRecord is an event persisted in the same transaction as the change it
// describes, waiting to be published.
type OutboxRecord struct {
	ID        int64
	EventID   string
	Type      string
	Key       string
	Payload   json.RawMessage
	CreatedAt time.Time
	SentAt    *time.Time
}

// Record serializes e for the outbox, keyed by order so consumers see one
// order's events in order.
func (e Event) Record() (OutboxRecord, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return OutboxRecord{}, err
	}
	return OutboxRecord{
		EventID:   e.EventID,
		Type:      e.Type,
		Key:       e.OrderID,
		Payload:   data,
		CreatedAt: e.CreatedAt,
	}, nil
}
