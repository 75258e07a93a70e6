// alerts 低库存提醒消费者
// 订阅stock.low事件，通过gRPC确认最新库存后输出提醒
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/infrastructure/config"
	"github.com/xiebiao/warehouse/internal/infrastructure/logger"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/warehouse/internal/interface/consumer"
	"github.com/xiebiao/warehouse/internal/interface/rpc"
	"github.com/xiebiao/warehouse/pkg/metrics"
	"github.com/xiebiao/warehouse/pkg/mq"
)

// eventRetention 事件ID去重保留时间
const eventRetention = 24 * time.Hour

func main() {
	// 1. 配置和日志
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logg.Sync() }()
	logg = logg.With(zap.String("component", "alerts"))

	if !cfg.RabbitMQ.Enabled {
		logg.Fatal("rabbitmq is disabled, nothing to consume")
	}
	metrics.InitMetrics()

	// 2. Redis去重（不可用时退化为不去重）
	var deduper consumer.Deduper
	if client, err := redis.NewClient(cfg.Redis, logg); err != nil {
		logg.Warn("redis unavailable, alerts are not deduplicated", zap.Error(err))
	} else {
		defer client.Close()
		deduper = redis.NewEventDeduper(client, eventRetention)
	}

	// 3. gRPC库存查询
	var checker consumer.StockChecker
	if cfg.GRPC.Enabled {
		conn, err := grpc.Dial(fmt.Sprintf("localhost:%d", cfg.GRPC.Port),
			grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logg.Fatal("dial stock service failed", zap.Error(err))
		}
		defer conn.Close()
		checker = rpc.NewStockClient(conn)
	}

	// 4. 订阅stock.low
	c, err := mq.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic",
		cfg.RabbitMQ.AlertQueue, []string{port.RoutingStockLow}, logg)
	if err != nil {
		logg.Fatal("create consumer failed", zap.Error(err))
	}
	defer c.Close()

	handler := consumer.NewLowStockHandler(cfg.RabbitMQ.AlertQueue, checker, deduper, consumer.LogNotifier{Logger: logg}, logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg.Info("alerts consumer started", zap.String("queue", cfg.RabbitMQ.AlertQueue))
	if err := c.Consume(ctx, handler.Handle); err != nil {
		logg.Error("consume stopped", zap.Error(err))
	}
}
