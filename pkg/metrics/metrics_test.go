package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, h.Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestInitMetrics_Idempotent(t *testing.T) {
	InitMetrics()
	assert.NotPanics(t, InitMetrics, "重复初始化不应重复注册")

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, StockTransactionsTotal)
	assert.NotNil(t, CircuitBreakerState)
	assert.NotNil(t, StockCacheRequests)
}

func TestRecordStockTransaction(t *testing.T) {
	InitMetrics()

	success := StockTransactionsTotal.With(prometheus.Labels{"type": "OUT", "result": "success"})
	insufficient := StockTransactionsTotal.With(prometheus.Labels{"type": "OUT", "result": "insufficient"})
	before := counterValue(t, success)
	observedBefore := histogramCount(t, StockTransactionDuration)

	RecordStockTransaction("OUT", "success", 0.02)
	RecordStockTransaction("OUT", "success", 0.03)
	RecordStockTransaction("OUT", "insufficient", 0.01)

	assert.Equal(t, before+2, counterValue(t, success))
	assert.GreaterOrEqual(t, counterValue(t, insufficient), float64(1))
	assert.Equal(t, observedBefore+3, histogramCount(t, StockTransactionDuration))
}

func TestCircuitBreakerMetrics(t *testing.T) {
	InitMetrics()

	SetCircuitBreakerState("event-publisher", 1)
	assert.Equal(t, float64(1), gaugeValue(t, CircuitBreakerState.With(prometheus.Labels{"name": "event-publisher"})))

	rejected := CircuitBreakerRequests.With(prometheus.Labels{"name": "event-publisher", "result": "rejected"})
	before := counterValue(t, rejected)
	RecordCircuitBreaker("event-publisher", "rejected")
	assert.Equal(t, before+1, counterValue(t, rejected))
}

func TestPublishAndCacheMetrics(t *testing.T) {
	InitMetrics()

	dropped := MessagesPublishedTotal.With(prometheus.Labels{"routing_key": "stock.low", "result": "dropped"})
	before := counterValue(t, dropped)
	RecordPublish("stock.low", "dropped")
	assert.Equal(t, before+1, counterValue(t, dropped))

	hit := StockCacheRequests.With(prometheus.Labels{"result": "hit"})
	before = counterValue(t, hit)
	RecordCache("hit")
	RecordCache("hit")
	assert.Equal(t, before+2, counterValue(t, hit))
}

func TestHTTPInProgressGauge(t *testing.T) {
	InitMetrics()

	HTTPRequestsInProgress.Set(0)
	HTTPRequestsInProgress.Inc()
	HTTPRequestsInProgress.Inc()
	HTTPRequestsInProgress.Dec()
	assert.Equal(t, float64(1), gaugeValue(t, HTTPRequestsInProgress))
}
