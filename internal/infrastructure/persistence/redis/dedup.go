package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "event:seen:"

// EventDeduper 事件去重（消息重投时不重复处理）
type EventDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventDeduper 创建去重器，ttl是事件ID的保留时间
func NewEventDeduper(client *redis.Client, ttl time.Duration) *EventDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EventDeduper{client: client, ttl: ttl}
}

// FirstSeen 第一次看到该事件时返回true（SETNX）
func (d *EventDeduper) FirstSeen(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, eventKeyPrefix+eventID, 1, d.ttl).Result()
}

// Forget 处理失败时删除标记，允许重投的消息再次处理
func (d *EventDeduper) Forget(ctx context.Context, eventID string) error {
	return d.client.Del(ctx, eventKeyPrefix+eventID).Err()
}
