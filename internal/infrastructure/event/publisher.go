// Package event 领域事件发布
//
// 登记流水提交后发布事件到RabbitMQ。发布经过熔断器保护：
// 消息队列不可用时快速失败，只记录日志和指标，不影响已提交的业务。
package event

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/pkg/circuitbreaker"
	"github.com/xiebiao/warehouse/pkg/metrics"
)

// MessagePublisher 底层消息发布接口（pkg/mq.Publisher实现）
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey, messageID string, message interface{}) error
}

// Publisher 带熔断和超时的事件发布者
type Publisher struct {
	mq      MessagePublisher
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	logger  *zap.Logger
}

// NewPublisher 创建事件发布者
// breakerTimeout是熔断打开后的冷却时间，publishTimeout是单次发布的超时时间
func NewPublisher(mq MessagePublisher, publishTimeout, breakerTimeout time.Duration, logger *zap.Logger) *Publisher {
	cfg := circuitbreaker.DefaultConfig()
	if breakerTimeout > 0 {
		cfg.Timeout = breakerTimeout
	}
	if publishTimeout <= 0 {
		publishTimeout = 2 * time.Second
	}

	breaker := circuitbreaker.NewCircuitBreaker("event-publisher", cfg)
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetCircuitBreakerState(name, int(to))
		logger.Warn("circuit breaker state changed",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})
	metrics.SetCircuitBreakerState(breaker.Name(), int(breaker.State()))

	return &Publisher{
		mq:      mq,
		breaker: breaker,
		timeout: publishTimeout,
		logger:  logger,
	}
}

// Publish 发布事件
// event.EventID作为消息ID，供消费方去重
func (p *Publisher) Publish(ctx context.Context, routingKey string, event port.StockEvent) error {
	err := p.breaker.ExecuteContext(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.mq.Publish(ctx, routingKey, event.EventID, event)
	})

	switch {
	case err == nil:
		metrics.RecordCircuitBreaker(p.breaker.Name(), "success")
		metrics.RecordPublish(routingKey, "success")
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.RecordCircuitBreaker(p.breaker.Name(), "rejected")
		metrics.RecordPublish(routingKey, "rejected")
	default:
		metrics.RecordCircuitBreaker(p.breaker.Name(), "failure")
		metrics.RecordPublish(routingKey, "failure")
	}
	return err
}

// State 熔断器当前状态
func (p *Publisher) State() circuitbreaker.State {
	return p.breaker.State()
}

// NoopPublisher 未启用RabbitMQ时使用，只记录调试日志
type NoopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher 创建空发布者
func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

// Publish 丢弃事件
func (p *NoopPublisher) Publish(_ context.Context, routingKey string, event port.StockEvent) error {
	p.logger.Debug("event dropped (rabbitmq disabled)",
		zap.String("routing_key", routingKey),
		zap.String("event_id", event.EventID),
		zap.Uint("item_id", event.ItemID),
	)
	metrics.RecordPublish(routingKey, "dropped")
	return nil
}
