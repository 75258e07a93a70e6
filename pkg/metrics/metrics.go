// Package metrics 基于Prometheus的指标收集
//
// 指标分三类：
//   - HTTP/gRPC请求指标（中间件和拦截器记录）
//   - 库存业务指标（出入库登记、并发冲突重试、低库存事件）
//   - 基础设施指标（熔断器、消息队列、库存缓存）
//
// 所有指标注册到Prometheus默认Registry，由 /metrics 端点暴露。
// main中调用 InitMetrics() 完成注册；下面的记录函数也会按需初始化，
// 所以单元测试里不需要额外准备。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如 /api/v1/items/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// GRPCRequestsTotal gRPC请求总数
	// 标签：method（完整方法名）、code（gRPC状态码）
	GRPCRequestsTotal *prometheus.CounterVec

	// 库存业务指标

	// StockTransactionsTotal 出入库登记总数
	// 标签：type（IN/OUT/ADJUST）、result（success/insufficient/rejected/conflict/error）
	StockTransactionsTotal *prometheus.CounterVec

	// StockTransactionDuration 出入库登记耗时（含事务和重试）
	StockTransactionDuration prometheus.Histogram

	// StockConflictRetriesTotal 并发冲突导致的重试次数
	StockConflictRetriesTotal prometheus.Counter

	// LowStockEventsTotal 低库存事件数
	LowStockEventsTotal prometheus.Counter

	// ItemsCreatedTotal 新建物料数
	ItemsCreatedTotal prometheus.Counter

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：routing_key、result（success/failure/dropped）
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签：queue、result（success/failure）
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram

	// 缓存指标

	// StockCacheRequests 库存缓存访问次数
	// 标签：result（hit/miss/error）
	StockCacheRequests *prometheus.CounterVec
)

// InitMetrics 初始化所有指标
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	GRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grpc_requests_total",
			Help: "gRPC请求总数",
		},
		[]string{"method", "code"},
	)

	StockTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_transactions_total",
			Help: "出入库登记总数",
		},
		[]string{"type", "result"},
	)

	StockTransactionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "stock_transaction_duration_seconds",
			Help: "出入库登记耗时（秒）",
			// 一次登记是一个带行锁的短事务
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	StockConflictRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_conflict_retries_total",
			Help: "库存并发冲突重试次数",
		},
	)

	LowStockEventsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "low_stock_events_total",
			Help: "低库存事件数",
		},
	)

	ItemsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "items_created_total",
			Help: "新建物料数",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)

	StockCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_cache_requests_total",
			Help: "库存缓存访问次数",
		},
		[]string{"result"},
	)
}

// RecordStockTransaction 记录一次出入库登记结果和耗时
func RecordStockTransaction(txnType, result string, seconds float64) {
	InitMetrics()
	StockTransactionsTotal.With(prometheus.Labels{"type": txnType, "result": result}).Inc()
	StockTransactionDuration.Observe(seconds)
}

// RecordCircuitBreaker 记录熔断器请求结果
func RecordCircuitBreaker(name, result string) {
	InitMetrics()
	CircuitBreakerRequests.With(prometheus.Labels{"name": name, "result": result}).Inc()
}

// SetCircuitBreakerState 更新熔断器状态
func SetCircuitBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.With(prometheus.Labels{"name": name}).Set(float64(state))
}

// RecordPublish 记录消息发布结果
func RecordPublish(routingKey, result string) {
	InitMetrics()
	MessagesPublishedTotal.With(prometheus.Labels{"routing_key": routingKey, "result": result}).Inc()
}

// RecordConsume 记录消息消费结果和处理耗时
func RecordConsume(queue, result string, seconds float64) {
	InitMetrics()
	MessagesConsumedTotal.With(prometheus.Labels{"queue": queue, "result": result}).Inc()
	MessageProcessingDuration.Observe(seconds)
}

// RecordCache 记录库存缓存访问结果
func RecordCache(result string) {
	InitMetrics()
	StockCacheRequests.With(prometheus.Labels{"result": result}).Inc()
}

// IncConflictRetry 记录一次库存冲突重试
func IncConflictRetry() {
	InitMetrics()
	StockConflictRetriesTotal.Inc()
}

// IncLowStockEvent 记录一次低库存事件
func IncLowStockEvent() {
	InitMetrics()
	LowStockEventsTotal.Inc()
}

// IncItemsCreated 记录一次新建物料
func IncItemsCreated() {
	InitMetrics()
	ItemsCreatedTotal.Inc()
}

// RecordGRPC 记录gRPC请求
func RecordGRPC(method, code string) {
	InitMetrics()
	GRPCRequestsTotal.With(prometheus.Labels{"method": method, "code": code}).Inc()
}
