// Package router 注册HTTP路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/interface/http/handler"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User        *handler.UserHandler
	Item        *handler.ItemHandler
	Warehouse   *handler.WarehouseHandler
	Transaction *handler.TransactionHandler
	Seller      *handler.SellerHandler
	Report      *handler.ReportHandler
}

// Options 路由选项
type Options struct {
	Mode    string // debug / release / test
	Swagger bool   // 是否暴露Swagger UI
}

// New 创建Gin引擎并注册路由
// 中间件顺序：日志（含请求ID和Span） → 指标 → Recovery
func New(opts Options, logger *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch opts.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(middleware.Logger(logger), middleware.Metrics(), gin.Recovery())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// 公开接口
	v1.POST("/auth/login", h.User.Login)

	// 以下接口都需要登录，具体权限在应用层按角色判断
	authorized := v1.Group("")
	authorized.Use(auth.RequireAuth())
	{
		authorized.POST("/auth/logout", h.User.Logout)
		authorized.GET("/profile", h.User.Profile)

		items := authorized.Group("/items")
		{
			items.GET("", h.Item.ListItems)
			items.POST("", h.Item.CreateItem)
			items.GET("/search", h.Item.SearchBySSID)
			items.GET("/ssid/:ssid/stock", h.Item.GetStockBySSID)
			items.GET("/:id", h.Item.GetItem)
			items.PUT("/:id", h.Item.UpdateItem)
			items.DELETE("/:id", h.Item.DeleteItem)
		}

		warehouses := authorized.Group("/warehouses")
		{
			warehouses.GET("", h.Warehouse.ListWarehouses)
			warehouses.POST("", h.Warehouse.CreateWarehouse)
			warehouses.GET("/:id", h.Warehouse.GetWarehouse)
			warehouses.PUT("/:id", h.Warehouse.UpdateWarehouse)
			warehouses.DELETE("/:id", h.Warehouse.DeleteWarehouse)
		}
		authorized.GET("/categories", h.Warehouse.ListCategories)

		txns := authorized.Group("/transactions")
		{
			txns.POST("", h.Transaction.RecordTransaction)
			txns.GET("", h.Transaction.ListTransactions)
		}

		users := authorized.Group("/users")
		{
			users.GET("", h.User.ListUsers)
			users.POST("", h.User.CreateUser)
			users.PATCH("/:id/active", h.User.SetActive)
		}

		sellers := authorized.Group("/sellers")
		{
			sellers.GET("", h.Seller.ListSellers)
			sellers.POST("", h.Seller.CreateSeller)
			sellers.PUT("/:id", h.Seller.UpdateSeller)
			sellers.DELETE("/:id", h.Seller.DeleteSeller)
		}

		payments := authorized.Group("/payments")
		{
			payments.GET("", h.Seller.ListPayments)
			payments.POST("", h.Seller.CreatePayment)
			payments.PATCH("/:id/status", h.Seller.UpdatePaymentStatus)
		}

		reports := authorized.Group("/reports")
		{
			reports.GET("/dashboard", h.Report.Dashboard)
			reports.GET("/low-stock", h.Report.LowStock)
		}
	}

	return r
}
