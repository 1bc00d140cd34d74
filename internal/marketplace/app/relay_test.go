package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	key   string
	value []byte
}

// recordingPublisher accepts messages until failAfter of them went through.
type recordingPublisher struct {
	mu        sync.Mutex
	sent      []message
	failAfter int
}

func (p *recordingPublisher) Publish(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAfter >= 0 && len(p.sent) >= p.failAfter {
		return errBroker
	}
	p.sent = append(p.sent, message{key: key, value: value})
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func TestRelayStopsAtFirstFailure(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	o := m.checkout(t, "cart-1", "")
	_, err := m.ledger.MarkOrderStatus(m.ctx, o.ID, "Processing")
	require.NoError(t, err)
	_, err = m.ledger.MarkPaymentStatus(m.ctx, o.ID, "Paid", "")
	require.NoError(t, err)

	rec := &countingRecorder{}
	pub := &recordingPublisher{failAfter: 1}
	relay := NewRelay(m.store, pub, time.Millisecond, rec, discard())

	sent, err := relay.Flush(m.ctx)
	assert.ErrorIs(t, err, errBroker)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, rec.published)
	assert.Equal(t, 1, rec.failed)

	pending, err := m.store.FetchPendingOutbox(m.ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	pub.failAfter = -1
	sent, err = relay.Flush(m.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	require.Len(t, pub.sent, 3)
	for _, msg := range pub.sent {
		assert.Equal(t, o.ID, msg.key)
	}
	assert.Contains(t, string(pub.sent[0].value), `"type":"order.created"`)
	assert.Contains(t, string(pub.sent[2].value), `"type":"order.payment_status_changed"`)

	sent, err = relay.Flush(m.ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestRelayRunDrainsUntilCancelled(t *testing.T) {
	m := newMarketplace(t, Options{})
	m.add(t, "cart-1", m.shirt, 1)
	m.checkout(t, "cart-1", "")

	pub := &recordingPublisher{failAfter: -1}
	relay := NewRelay(m.store, pub, 5*time.Millisecond, nil, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool { return pub.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
