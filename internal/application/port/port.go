// Package port 应用层依赖的基础设施接口
//
// 用例只依赖这里的接口，由infrastructure层实现：
//   - Transactor: mysql.TxManager
//   - EventPublisher: event.Publisher（RabbitMQ + 熔断器）或 event.NoopPublisher
//   - StockCache: redis.StockCache
package port

import (
	"context"
	"time"
)

// Transactor 事务管理
// fn中使用txCtx调用Repository，fn返回错误时回滚
// 嵌套调用时内层使用SAVEPOINT
type Transactor interface {
	Transaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

// 事件路由键
const (
	RoutingStockRecorded = "stock.transaction.recorded"
	RoutingStockLow      = "stock.low"
	RoutingItemDeleted   = "item.deleted"
)

// StockEvent 库存事件
type StockEvent struct {
	EventID       string    `json:"event_id"`
	TransactionID uint      `json:"transaction_id,omitempty"`
	ItemID        uint      `json:"item_id"`
	SSID          string    `json:"ssid"`
	ItemName      string    `json:"item_name"`
	WarehouseID   uint      `json:"warehouse_id"`
	Type          string    `json:"type,omitempty"`
	Quantity      int       `json:"quantity,omitempty"`
	StockBefore   int       `json:"stock_before"`
	StockAfter    int       `json:"stock_after"`
	ReorderLevel  int       `json:"reorder_level"`
	UserID        uint      `json:"user_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher 领域事件发布
// 发布失败只记录日志，不影响已提交的业务操作
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event StockEvent) error
}

// StockSnapshot 缓存的库存快照
type StockSnapshot struct {
	ItemID       uint   `json:"item_id"`
	SSID         string `json:"ssid"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
	IsLowStock   bool   `json:"is_low_stock"`
	Warehouse    string `json:"warehouse"`
	Category     string `json:"category"`
}

// StockCache 按SSID缓存库存快照
// Get未命中返回(nil, nil)
type StockCache interface {
	Get(ctx context.Context, ssid string) (*StockSnapshot, error)
	Set(ctx context.Context, snapshot *StockSnapshot) error
	Invalidate(ctx context.Context, ssid string) error
}
