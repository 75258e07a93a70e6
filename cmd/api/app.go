package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	appledger "github.com/xiebiao/warehouse/internal/application/ledger"
	"github.com/xiebiao/warehouse/internal/application/port"
	appuser "github.com/xiebiao/warehouse/internal/application/user"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
	"github.com/xiebiao/warehouse/internal/infrastructure/config"
	"github.com/xiebiao/warehouse/internal/infrastructure/event"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/internal/interface/http/router"
	"github.com/xiebiao/warehouse/internal/interface/rpc"
	"github.com/xiebiao/warehouse/pkg/jwt"
	"github.com/xiebiao/warehouse/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Engine      *gin.Engine
	GRPCServer  *grpc.Server
	ManageUsers *appuser.ManageUsersUseCase
}

// ========================================
// 自定义Provider
// ========================================
// 构造函数参数需要从Config中提取、或者需要返回cleanup的依赖

// provideDB 数据库连接（cleanup时关闭连接池）
func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis Redis连接
func provideRedis(cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg.Redis, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideStockCache 库存快照缓存
func provideStockCache(client *goredis.Client, cfg *config.Config) port.StockCache {
	return redis.NewStockCache(client, cfg.Redis.StockTTL)
}

// provideEventPublisher 事件发布者
// 未启用RabbitMQ时只记录日志；启用但连接失败时直接返回错误，避免静默丢事件
func provideEventPublisher(cfg *config.Config, logger *zap.Logger) (port.EventPublisher, func(), error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq disabled, events are logged only")
		return event.NewNoopPublisher(logger), func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic", logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = publisher.Close() }
	return event.NewPublisher(publisher, cfg.RabbitMQ.PublishTimeout, cfg.RabbitMQ.BreakerTimeout, logger), cleanup, nil
}

// provideRecordTransactionUseCase 登记流水用例（冲突重试次数来自配置）
func provideRecordTransactionUseCase(
	cfg *config.Config,
	itemRepo item.Repository,
	txnRepo ledger.Repository,
	txManager port.Transactor,
	publisher port.EventPublisher,
	cache port.StockCache,
	logger *zap.Logger,
) *appledger.RecordTransactionUseCase {
	return appledger.NewRecordTransactionUseCase(itemRepo, txnRepo, txManager, publisher, cache, logger, cfg.Ledger.ConflictRetries)
}

// provideGinEngine 创建Gin引擎并注册路由（release模式不暴露Swagger）
func provideGinEngine(
	cfg *config.Config,
	logger *zap.Logger,
	handlers router.Handlers,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	return router.New(router.Options{
		Mode:    cfg.Server.Mode,
		Swagger: cfg.Server.Mode != gin.ReleaseMode,
	}, logger, handlers, authMiddleware)
}

// provideGRPCServer 库存查询gRPC服务
func provideGRPCServer(cfg *config.Config, stock *rpc.StockServer, logger *zap.Logger) *grpc.Server {
	return rpc.NewServer(stock, logger, cfg.GRPC.Reflection)
}
