package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/xiebiao/warehouse/docs"
	"github.com/xiebiao/warehouse/internal/infrastructure/config"
	"github.com/xiebiao/warehouse/internal/infrastructure/logger"
	"github.com/xiebiao/warehouse/pkg/metrics"
	"github.com/xiebiao/warehouse/pkg/tracing"
)

// shutdownTimeout 优雅关闭等待时间
const shutdownTimeout = 10 * time.Second

// @title           Warehouse Stock Ledger API
// @version         1.0
// @description     仓库库存流水服务：物料、仓库、出入库流水、用户和报表
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer {access_token}
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	// 3. 链路追踪（未启用时使用otel默认的空实现）
	shutdownTracer := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		shutdownTracer, err = tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			logg.Fatal("init tracer failed", zap.Error(err))
		}
	}

	// 4. 指标
	metrics.InitMetrics()

	// 5. 依赖注入
	app, cleanup, err := InitializeApp(cfg, logg)
	if err != nil {
		logg.Fatal("initialize app failed", zap.Error(err))
	}
	defer cleanup()

	// 6. 初始化管理员账号（系统中没有用户时）
	if err := app.ManageUsers.BootstrapAdmin(context.Background(),
		cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
		logg.Fatal("bootstrap admin failed", zap.Error(err))
	}

	// 7. 启动HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logg.Info("http server started", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 8. 启动gRPC服务
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
		if err != nil {
			logg.Fatal("grpc listen failed", zap.Int("port", cfg.GRPC.Port), zap.Error(err))
		}
		go func() {
			logg.Info("grpc server started", zap.String("addr", lis.Addr().String()))
			if err := app.GRPCServer.Serve(lis); err != nil {
				logg.Error("grpc server stopped", zap.Error(err))
			}
		}()
	}

	// 9. 等待中断信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("http server shutdown failed", zap.Error(err))
	}
	if cfg.GRPC.Enabled {
		app.GRPCServer.GracefulStop()
	}
	if err := shutdownTracer(ctx); err != nil {
		logg.Error("tracer shutdown failed", zap.Error(err))
	}
	logg.Info("server exited")
}
