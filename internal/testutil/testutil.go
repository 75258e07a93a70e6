// Package testutil 应用层和接口层测试共用的夹具
//
// 使用sqlite内存库运行真实的Repository实现，事件和缓存使用内存替身。
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/category"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
	"github.com/xiebiao/warehouse/internal/domain/payment"
	"github.com/xiebiao/warehouse/internal/domain/seller"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/domain/warehouse"
	"github.com/xiebiao/warehouse/internal/infrastructure/config"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/mysql"
)

// Env 测试环境
type Env struct {
	DB         *gorm.DB
	Tx         *mysql.TxManager
	Users      user.Repository
	Warehouses warehouse.Repository
	Categories category.Repository
	Items      item.Repository
	Txns       ledger.Repository
	Sellers    seller.Repository
	Payments   payment.Repository
	Cache      *MemoryCache
	Events     *RecordingPublisher
}

// NewEnv 创建独立的sqlite内存库和全部Repository
func NewEnv(t *testing.T) *Env {
	t.Helper()
	db, err := mysql.NewDB(config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &Env{
		DB:         db,
		Tx:         mysql.NewTxManager(db),
		Users:      mysql.NewUserRepository(db),
		Warehouses: mysql.NewWarehouseRepository(db),
		Categories: mysql.NewCategoryRepository(db),
		Items:      mysql.NewItemRepository(db),
		Txns:       mysql.NewTransactionRepository(db),
		Sellers:    mysql.NewSellerRepository(db),
		Payments:   mysql.NewPaymentRepository(db),
		Cache:      NewMemoryCache(),
		Events:     &RecordingPublisher{},
	}
}

// SeedUser 直接写入一个用户（密码哈希为占位值），返回对应的操作人
func (e *Env) SeedUser(t *testing.T, username string, role user.Role) user.Actor {
	t.Helper()
	u := user.NewUser(username, username+"@example.com", "not-a-real-hash", role)
	require.NoError(t, e.Users.Create(context.Background(), u))
	return u.Actor()
}

// SeedWarehouse 写入一个仓库
func (e *Env) SeedWarehouse(t *testing.T, name string) *warehouse.Warehouse {
	t.Helper()
	w, err := warehouse.NewWarehouse(name, "", "")
	require.NoError(t, err)
	require.NoError(t, e.Warehouses.Create(context.Background(), w))
	return w
}

// MemoryCache 内存版库存缓存
type MemoryCache struct {
	mu          sync.Mutex
	data        map[string]port.StockSnapshot
	Invalidated []string
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]port.StockSnapshot)}
}

// Get 查询快照
func (c *MemoryCache) Get(_ context.Context, ssid string) (*port.StockSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[ssid]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Set 写入快照
func (c *MemoryCache) Set(_ context.Context, s *port.StockSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[s.SSID] = *s
	return nil
}

// Invalidate 删除快照
func (c *MemoryCache) Invalidate(_ context.Context, ssid string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, ssid)
	c.Invalidated = append(c.Invalidated, ssid)
	return nil
}

// PublishedEvent 记录的事件
type PublishedEvent struct {
	RoutingKey string
	Event      port.StockEvent
}

// RecordingPublisher 记录发布的事件，Err不为空时发布失败
type RecordingPublisher struct {
	mu     sync.Mutex
	Err    error
	events []PublishedEvent
}

// Publish 记录事件
func (p *RecordingPublisher) Publish(_ context.Context, routingKey string, event port.StockEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{RoutingKey: routingKey, Event: event})
	return p.Err
}

// Events 已发布的事件副本
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedEvent(nil), p.events...)
}

// Keys 已发布事件的路由键
func (p *RecordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.events))
	for _, e := range p.events {
		keys = append(keys, e.RoutingKey)
	}
	return keys
}
