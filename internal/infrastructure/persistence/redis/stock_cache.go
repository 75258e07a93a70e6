package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/pkg/metrics"
)

const stockKeyPrefix = "stock:"

// StockCache 库存快照缓存（Cache-Aside）
// 1. 读：先查缓存，未命中由调用方查库后Set
// 2. 写：登记流水、编辑或删除物料提交后Invalidate
// 缓存只服务按SSID查询库存的读接口，登记流水始终以数据库行锁为准
type StockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStockCache 创建库存缓存
func NewStockCache(client *redis.Client, ttl time.Duration) port.StockCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StockCache{client: client, ttl: ttl}
}

// Get 查询快照，未命中返回(nil, nil)
func (c *StockCache) Get(ctx context.Context, ssid string) (*port.StockSnapshot, error) {
	data, err := c.client.Get(ctx, stockKeyPrefix+ssid).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCache("miss")
		return nil, nil
	}
	if err != nil {
		metrics.RecordCache("error")
		return nil, err
	}

	var snapshot port.StockSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		// 格式损坏的缓存按未命中处理
		metrics.RecordCache("miss")
		_ = c.client.Del(ctx, stockKeyPrefix+ssid).Err()
		return nil, nil
	}

	metrics.RecordCache("hit")
	return &snapshot, nil
}

// Set 写入快照
func (c *StockCache) Set(ctx context.Context, snapshot *port.StockSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, stockKeyPrefix+snapshot.SSID, data, c.ttl).Err()
}

// Invalidate 删除快照
func (c *StockCache) Invalidate(ctx context.Context, ssid string) error {
	return c.client.Del(ctx, stockKeyPrefix+ssid).Err()
}
