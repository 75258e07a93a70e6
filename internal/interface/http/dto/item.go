package dto

import "github.com/shopspring/decimal"

// CreateItemRequest 创建物料请求
type CreateItemRequest struct {
	SSID         string          `json:"ssid" binding:"omitempty,min=3,max=50"` // 为空时自动生成
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Category     string          `json:"category" binding:"required"`
	Unit         string          `json:"unit"`
	InitialStock int             `json:"initial_stock" binding:"gte=0"`
	ReorderLevel *int            `json:"reorder_level" binding:"omitempty,gte=0"`
	UnitPrice    decimal.Decimal `json:"unit_price" swaggertype:"string" example:"12.50"`
	WarehouseID  uint            `json:"warehouse_id" binding:"required"`
}

// UpdateItemRequest 编辑物料请求（SSID和库存不可修改）
type UpdateItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Category     string          `json:"category" binding:"required"`
	Unit         string          `json:"unit"`
	ReorderLevel int             `json:"reorder_level" binding:"gte=0"`
	UnitPrice    decimal.Decimal `json:"unit_price" swaggertype:"string" example:"12.50"`
	WarehouseID  uint            `json:"warehouse_id" binding:"required"`
}

// ListItemsQuery 物料列表查询参数
type ListItemsQuery struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	WarehouseID uint   `form:"warehouse_id"`
	CategoryID  uint   `form:"category_id"`
	Keyword     string `form:"keyword"`
	LowStock    bool   `form:"low_stock"`
}
