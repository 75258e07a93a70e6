package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/warehouse/pkg/mq"
)

type fakeChecker struct {
	stock, reorder int
	err            error
}

func (f fakeChecker) CurrentStock(context.Context, string) (int, int, error) {
	return f.stock, f.reorder, f.err
}

type recordingNotifier struct {
	alerts []Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, a Alert) error {
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, a)
	return nil
}

func newDeduper(t *testing.T) *redis.EventDeduper {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewEventDeduper(client, time.Hour)
}

func delivery(t *testing.T, evt port.StockEvent) mq.Delivery {
	t.Helper()
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	return mq.Delivery{RoutingKey: port.RoutingStockLow, MessageID: evt.EventID, Body: body}
}

func lowEvent(id string) port.StockEvent {
	return port.StockEvent{
		EventID: id, ItemID: 7, SSID: "SS-7", ItemName: "Widget", WarehouseID: 1,
		StockBefore: 12, StockAfter: 4, ReorderLevel: 10, OccurredAt: time.Now(),
	}
}

func TestLowStockHandler_NotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewLowStockHandler("alerts", fakeChecker{stock: 3, reorder: 10}, newDeduper(t), notifier, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, delivery(t, lowEvent("evt-1"))))
	// 重投的同一事件不重复提醒
	require.NoError(t, h.Handle(ctx, delivery(t, lowEvent("evt-1"))))

	require.Len(t, notifier.alerts, 1)
	a := notifier.alerts[0]
	assert.Equal(t, "SS-7", a.SSID)
	assert.Equal(t, 3, a.CurrentStock) // 以查询到的最新库存为准
	assert.Equal(t, 7, a.Shortage)
}

func TestLowStockHandler_Skips(t *testing.T) {
	tests := []struct {
		name    string
		checker StockChecker
	}{
		{"recovered", fakeChecker{stock: 50, reorder: 10}},
		{"deleted", fakeChecker{err: status.Error(codes.NotFound, "物料不存在")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{}
			h := NewLowStockHandler("alerts", tt.checker, nil, notifier, zap.NewNop())
			require.NoError(t, h.Handle(context.Background(), delivery(t, lowEvent("evt-skip"))))
			assert.Empty(t, notifier.alerts)
		})
	}
}

func TestLowStockHandler_FallsBackToEventSnapshot(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewLowStockHandler("alerts", fakeChecker{err: status.Error(codes.Unavailable, "down")}, nil, notifier, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), delivery(t, lowEvent("evt-2"))))
	require.Len(t, notifier.alerts, 1)
	assert.Equal(t, 4, notifier.alerts[0].CurrentStock)
	assert.Equal(t, 6, notifier.alerts[0].Shortage)
}

func TestLowStockHandler_MalformedIsDropped(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewLowStockHandler("alerts", nil, nil, notifier, zap.NewNop())

	err := h.Handle(context.Background(), mq.Delivery{Body: []byte("{not json")})
	require.NoError(t, err)
	assert.Empty(t, notifier.alerts)
}

func TestLowStockHandler_NotifyFailureRequeues(t *testing.T) {
	deduper := newDeduper(t)
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	h := NewLowStockHandler("alerts", nil, deduper, notifier, zap.NewNop())
	ctx := context.Background()

	require.Error(t, h.Handle(ctx, delivery(t, lowEvent("evt-3"))))

	// 去重标记已删除，恢复后重投的消息可以再次处理
	notifier.err = nil
	require.NoError(t, h.Handle(ctx, delivery(t, lowEvent("evt-3"))))
	assert.Len(t, notifier.alerts, 1)
}
