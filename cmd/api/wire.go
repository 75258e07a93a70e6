//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appcategory "github.com/xiebiao/warehouse/internal/application/category"
	appitem "github.com/xiebiao/warehouse/internal/application/item"
	appledger "github.com/xiebiao/warehouse/internal/application/ledger"
	apppayment "github.com/xiebiao/warehouse/internal/application/payment"
	"github.com/xiebiao/warehouse/internal/application/port"
	appreport "github.com/xiebiao/warehouse/internal/application/report"
	appseller "github.com/xiebiao/warehouse/internal/application/seller"
	appuser "github.com/xiebiao/warehouse/internal/application/user"
	appwarehouse "github.com/xiebiao/warehouse/internal/application/warehouse"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/infrastructure/config"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/warehouse/internal/interface/http/handler"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/internal/interface/http/router"
	"github.com/xiebiao/warehouse/internal/interface/rpc"
)

// infrastructureSet 基础设施层：数据库、Redis、缓存、事件发布
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideStockCache,
	provideEventPublisher,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewWarehouseRepository,
	mysql.NewCategoryRepository,
	mysql.NewItemRepository,
	mysql.NewTransactionRepository,
	mysql.NewSellerRepository,
	mysql.NewPaymentRepository,
	mysql.NewTxManager,
	wire.Bind(new(port.Transactor), new(*mysql.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewManageUsersUseCase,
	appitem.NewCreateItemUseCase,
	appitem.NewUpdateItemUseCase,
	appitem.NewDeleteItemUseCase,
	appitem.NewQueryItemUseCase,
	provideRecordTransactionUseCase,
	appledger.NewListTransactionsUseCase,
	appwarehouse.NewUseCase,
	appcategory.NewListCategoriesUseCase,
	appseller.NewUseCase,
	apppayment.NewUseCase,
	appreport.NewUseCase,
)

// middlewareSet JWT和认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	redis.NewSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器和gRPC服务
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewItemHandler,
	handler.NewWarehouseHandler,
	handler.NewTransactionHandler,
	handler.NewSellerHandler,
	handler.NewReportHandler,
	wire.Struct(new(router.Handlers), "*"),
	rpc.NewStockServer,
)

// InitializeApp 初始化整个应用
// cleanup按创建的逆序关闭事件发布者、Redis和数据库连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
		provideGRPCServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
