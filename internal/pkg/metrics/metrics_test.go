package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedgerMetrics(reg)

	m.OrderCheckedOut(2)
	m.CouponApplied()
	m.PayoutCreated(decimal.RequireFromString("25.50"))
	m.PayoutCreated(decimal.RequireFromString("4.50"))
	m.OutboxPublish(true)
	m.OutboxPublish(true)
	m.OutboxPublish(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersCheckedOut))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CouponsApplied))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PayoutsCreated))
	assert.InDelta(t, 30.0, testutil.ToFloat64(m.PayoutAmount), 0.001)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxPublished.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxPublished.WithLabelValues("error")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	sm := NewServerMetrics(reg, "ledger")
	sm.Requests.WithLabelValues("/v1/orders/{id}", "200").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `marketplace_ledger_http_requests_total{handler="/v1/orders/{id}",status="200"} 1`), body)
}
