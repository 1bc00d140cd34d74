// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "marketplace"

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer, service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// LedgerMetrics counts business events. It satisfies app.Recorder.
type LedgerMetrics struct {
	OrdersCheckedOut prometheus.Counter
	OrderVendors     prometheus.Histogram
	CouponsApplied   prometheus.Counter
	PayoutsCreated   prometheus.Counter
	PayoutAmount     prometheus.Counter
	OutboxPublished  *prometheus.CounterVec
}

func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		OrdersCheckedOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_checked_out_total",
			Help:      "Orders created from carts.",
		}),
		OrderVendors: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_vendors",
			Help:      "Distinct vendors per checked out order.",
			Buckets:   []float64{1, 2, 3, 5, 8},
		}),
		CouponsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coupons_applied_total",
			Help:      "Coupon applications to order items.",
		}),
		PayoutsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payouts_created_total",
			Help:      "Vendor payouts recorded.",
		}),
		PayoutAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_amount_total",
			Help:      "Sum of recorded payout amounts.",
		}),
		OutboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Outbox records handed to the broker, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.OrdersCheckedOut, m.OrderVendors, m.CouponsApplied, m.PayoutsCreated, m.PayoutAmount,
		m.OutboxPublished)
	return m
}

func (m *LedgerMetrics) OrderCheckedOut(vendors int) {
	m.OrdersCheckedOut.Inc()
	m.OrderVendors.Observe(float64(vendors))
}

func (m *LedgerMetrics) CouponApplied() {
	m.CouponsApplied.Inc()
}

func (m *LedgerMetrics) PayoutCreated(amount decimal.Decimal) {
	m.PayoutsCreated.Inc()
	m.PayoutAmount.Add(amount.InexactFloat64())
}

func (m *LedgerMetrics) OutboxPublish(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.OutboxPublished.WithLabelValues(result).Inc()
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
