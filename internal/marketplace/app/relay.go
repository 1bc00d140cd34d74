package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

const (
	defaultRelayInterval = 2 * time.Second
	relayBatch           = 100
)

// Relay publishes committed outbox records to the broker. Delivery is at
// least once: a record is marked sent only after the broker accepted it, so
// a crash in between publishes it again.
type Relay struct {
	outbox   ports.OutboxRepository
	pub      ports.Publisher
	interval time.Duration
	metrics  Recorder
	log      *slog.Logger
}

func NewRelay(outbox ports.OutboxRepository, pub ports.Publisher, interval time.Duration, metrics Recorder, log *slog.Logger) *Relay {
	if interval <= 0 {
		interval = defaultRelayInterval
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Relay{outbox: outbox, pub: pub, interval: interval, metrics: metrics, log: log}
}

// Run flushes on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
			r.log.WarnContext(ctx, "outbox flush failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Flush publishes pending records oldest first and stops at the first
// failure, so events of an order never overtake each other.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	records, err := r.outbox.FetchPendingOutbox(ctx, relayBatch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rec := range records {
		if err := r.pub.Publish(ctx, rec.Key, rec.Payload); err != nil {
			r.metrics.OutboxPublish(false)
			return sent, err
		}
		r.metrics.OutboxPublish(true)
		if err := r.outbox.MarkOutboxSent(ctx, rec.ID, time.Now().UTC()); err != nil {
			return sent, err
		}
		sent++
		r.log.DebugContext(ctx, "outbox record published", "event_id", rec.EventID, "type", rec.Type)
	}
	return sent, nil
}
