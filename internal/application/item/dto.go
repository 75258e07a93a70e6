package item

import (
	"time"

	"github.com/xiebiao/warehouse/internal/domain/item"
)

// ItemDTO 物料响应DTO
type ItemDTO struct {
	ID            uint   `json:"id"`
	SSID          string `json:"ssid"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Unit          string `json:"unit"`
	CurrentStock  int    `json:"current_stock"`
	ReorderLevel  int    `json:"reorder_level"`
	IsLowStock    bool   `json:"is_low_stock"`
	UnitPrice     string `json:"unit_price"`  // 两位小数的字符串，避免浮点误差
	StockValue    string `json:"stock_value"` // 单价 × 当前库存
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name,omitempty"`
	CategoryID    uint   `json:"category_id"`
	CategoryName  string `json:"category_name,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// ToItemDTO 领域实体 → DTO
func ToItemDTO(it *item.Item) *ItemDTO {
	return &ItemDTO{
		ID:            it.ID,
		SSID:          it.SSID,
		Name:          it.Name,
		Description:   it.Description,
		Unit:          it.Unit,
		CurrentStock:  it.CurrentStock,
		ReorderLevel:  it.ReorderLevel,
		IsLowStock:    it.IsLowStock(),
		UnitPrice:     it.UnitPrice.StringFixed(2),
		StockValue:    it.StockValue().StringFixed(2),
		WarehouseID:   it.WarehouseID,
		WarehouseName: it.WarehouseName,
		CategoryID:    it.CategoryID,
		CategoryName:  it.CategoryName,
		CreatedAt:     it.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     it.UpdatedAt.Format(time.RFC3339),
	}
}

// ToItemDTOs 转换物料列表
func ToItemDTOs(items []*item.Item) []*ItemDTO {
	list := make([]*ItemDTO, 0, len(items))
	for _, it := range items {
		list = append(list, ToItemDTO(it))
	}
	return list
}
