// Package app holds the marketplace use cases. Every mutating call runs in
// one store transaction and either commits all of its writes (rows, history,
// notifications, outbox events) or none.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

var tracer = otel.Tracer("marketplace/app")

// Recorder receives business events for metrics.
type Recorder interface {
	OrderCheckedOut(vendors int)
	CouponApplied()
	PayoutCreated(amount decimal.Decimal)
	OutboxPublish(ok bool)
}

type nopRecorder struct{}

func (nopRecorder) OrderCheckedOut(int)           {}
func (nopRecorder) CouponApplied()                {}
func (nopRecorder) PayoutCreated(decimal.Decimal) {}
func (nopRecorder) OutboxPublish(bool)            {}

const defaultIdempotencyTTL = 24 * time.Hour

type Options struct {
	// ServiceFeePercent of the order sub-total is charged at checkout.
	ServiceFeePercent decimal.Decimal
	Tax               domain.TaxPolicy
	Payout            domain.PayoutPolicy

	// Cache short-circuits checkout replays; optional.
	Cache          ports.Cache
	IdempotencyTTL time.Duration

	Metrics Recorder
	Logger  *slog.Logger

	// Now is the clock; tests pin it.
	Now func() time.Time
}

// Ledger implements the marketplace operations on top of a Store.
type Ledger struct {
	store ports.Store
	opts  Options
	log   *slog.Logger
}

func New(store ports.Store, opts Options) *Ledger {
	if opts.Tax == nil {
		opts.Tax = domain.FlatTax(decimal.Zero)
	}
	if opts.Payout == nil {
		opts.Payout = domain.ProRataFeePayout
	}
	if opts.IdempotencyTTL <= 0 {
		opts.IdempotencyTTL = defaultIdempotencyTTL
	}
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Ledger{store: store, opts: opts, log: opts.Logger}
}

func (l *Ledger) now() time.Time {
	return l.opts.Now().UTC()
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on span and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// retryUnique runs fn in a transaction and re-runs the whole transaction
// with the next attempt number when the store reports a conflict on a
// generated unique value. PostgreSQL aborts a transaction after a failed
// statement, so the retry cannot happen inside it.
func (l *Ledger) retryUnique(ctx context.Context, op string, fn func(tx ports.Repository, attempt int) error) error {
	var err error
	for attempt := 0; attempt < domain.MaxUniqueAttempts; attempt++ {
		err = l.store.WithTx(ctx, func(tx ports.Repository) error {
			return fn(tx, attempt)
		})
		if !errors.Is(err, domain.ErrUniqueConflict) {
			return err
		}
		l.log.DebugContext(ctx, "unique value taken, retrying", "op", op, "attempt", attempt, "error", err)
	}
	return err
}

// emit writes ev to the outbox of tx.
func emit(ctx context.Context, tx ports.Repository, ev domain.Event) error {
	rec, err := ev.Record()
	if err != nil {
		return err
	}
	return tx.InsertOutbox(ctx, rec)
}

func (l *Ledger) recordChange(ctx context.Context, tx ports.Repository, entity, id, field, from, to string) error {
	c := domain.NewStatusChange(ctx, entity, id, field, from, to)
	c.CreatedAt = l.now()
	return tx.AppendStatusChange(ctx, c)
}
