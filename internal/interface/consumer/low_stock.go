// Package consumer 库存事件消费者
package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/pkg/metrics"
	"github.com/xiebiao/warehouse/pkg/mq"
)

// StockChecker 查询物料当前库存（rpc.StockClient实现）
type StockChecker interface {
	CurrentStock(ctx context.Context, ssid string) (stock, reorderLevel int, err error)
}

// Deduper 事件去重（redis.EventDeduper实现）
type Deduper interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// Alert 低库存提醒
type Alert struct {
	EventID      string
	ItemID       uint
	SSID         string
	ItemName     string
	WarehouseID  uint
	CurrentStock int
	ReorderLevel int
	Shortage     int
	OccurredAt   time.Time
}

// Notifier 提醒发送方式
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// LogNotifier 把提醒写到日志
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify 输出Warn日志
func (n LogNotifier) Notify(_ context.Context, a Alert) error {
	n.Logger.Warn("low stock alert",
		zap.String("ssid", a.SSID),
		zap.String("item", a.ItemName),
		zap.Uint("warehouse_id", a.WarehouseID),
		zap.Int("current_stock", a.CurrentStock),
		zap.Int("reorder_level", a.ReorderLevel),
		zap.Int("shortage", a.Shortage),
	)
	return nil
}

// LowStockHandler 处理stock.low事件
// 1. 解析事件，格式错误的消息直接确认丢弃（重投也无法处理）
// 2. 按EventID去重
// 3. 通过gRPC确认最新库存：已补货或物料已删除则不再提醒
// 4. 发送提醒，失败时返回错误让消息重新入队
type LowStockHandler struct {
	queue    string
	checker  StockChecker // 可为nil，此时使用事件中的库存
	deduper  Deduper      // 可为nil
	notifier Notifier
	logger   *zap.Logger
}

// NewLowStockHandler 创建处理器
func NewLowStockHandler(queue string, checker StockChecker, deduper Deduper, notifier Notifier, logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		queue:    queue,
		checker:  checker,
		deduper:  deduper,
		notifier: notifier,
		logger:   logger,
	}
}

// Handle 处理一条消息（mq.Consumer回调）
func (h *LowStockHandler) Handle(ctx context.Context, d mq.Delivery) (err error) {
	start := time.Now()
	result := "ok"
	defer func() {
		if err != nil {
			result = "error"
		}
		metrics.RecordConsume(h.queue, result, time.Since(start).Seconds())
	}()

	var evt port.StockEvent
	if jsonErr := json.Unmarshal(d.Body, &evt); jsonErr != nil || evt.EventID == "" || evt.SSID == "" {
		h.logger.Warn("drop malformed event", zap.String("message_id", d.MessageID), zap.Error(jsonErr))
		result = "malformed"
		return nil
	}
	log := h.logger.With(zap.String("event_id", evt.EventID), zap.String("ssid", evt.SSID))

	if h.deduper != nil {
		first, dedupErr := h.deduper.FirstSeen(ctx, evt.EventID)
		if dedupErr != nil {
			log.Warn("event dedup unavailable", zap.Error(dedupErr))
		} else if !first {
			result = "duplicate"
			return nil
		}
	}

	stock, reorder := evt.StockAfter, evt.ReorderLevel
	if h.checker != nil {
		current, level, checkErr := h.checker.CurrentStock(ctx, evt.SSID)
		switch {
		case checkErr == nil:
			stock, reorder = current, level
		case status.Code(checkErr) == codes.NotFound:
			log.Info("item no longer exists, skip alert")
			result = "stale"
			return nil
		default:
			log.Warn("check current stock failed, use event snapshot", zap.Error(checkErr))
		}
	}

	if stock > reorder {
		log.Info("stock recovered, skip alert", zap.Int("current_stock", stock), zap.Int("reorder_level", reorder))
		result = "recovered"
		return nil
	}

	alert := Alert{
		EventID:      evt.EventID,
		ItemID:       evt.ItemID,
		SSID:         evt.SSID,
		ItemName:     evt.ItemName,
		WarehouseID:  evt.WarehouseID,
		CurrentStock: stock,
		ReorderLevel: reorder,
		Shortage:     reorder - stock,
		OccurredAt:   evt.OccurredAt,
	}
	if err := h.notifier.Notify(ctx, alert); err != nil {
		if h.deduper != nil {
			_ = h.deduper.Forget(ctx, evt.EventID)
		}
		return err
	}
	return nil
}
