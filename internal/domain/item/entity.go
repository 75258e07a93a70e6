package item

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DefaultUnit 默认计量单位
const DefaultUnit = "pcs"

// DefaultReorderLevel 默认补货线
const DefaultReorderLevel = 10

// Item 物料实体（聚合根）
// 设计说明：
// 1. SSID是对外的唯一标识，创建后不可修改
// 2. CurrentStock只能由出入库流水修改（ledger），元数据编辑不会触碰库存
// 3. 单价使用decimal存储，避免浮点误差（数据库列为DECIMAL(10,2)）
type Item struct {
	ID           uint
	SSID         string
	Name         string
	Description  string
	Unit         string
	CurrentStock int
	ReorderLevel int
	UnitPrice    decimal.Decimal
	WarehouseID  uint
	CategoryID   uint
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// 关联信息（查询时填充，不持久化）
	WarehouseName string
	CategoryName  string
}

// Metadata 物料的可编辑信息（不含SSID和库存）
type Metadata struct {
	Name         string
	Description  string
	Unit         string
	ReorderLevel int
	UnitPrice    decimal.Decimal
	WarehouseID  uint
	CategoryID   uint
}

// NewItem 创建物料（库存从0开始，期初库存通过一笔IN流水登记）
func NewItem(ssid string, meta Metadata) (*Item, error) {
	if err := ValidateSSID(ssid); err != nil {
		return nil, err
	}

	it := &Item{SSID: strings.TrimSpace(ssid)}
	if err := it.UpdateMetadata(meta); err != nil {
		return nil, err
	}
	it.CreatedAt = it.UpdatedAt
	return it, nil
}

// UpdateMetadata 更新物料信息
// 业务规则：
// 1. 名称3-200个字符，描述不超过500个字符
// 2. 单位1-20个字符（为空时使用pcs）
// 3. 补货线>=0，单价>=0
// 4. 必须指定仓库和分类
func (it *Item) UpdateMetadata(meta Metadata) error {
	name := strings.TrimSpace(meta.Name)
	if n := utf8.RuneCountInString(name); n < 3 || n > 200 {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(meta.Description) > 500 {
		return ErrInvalidDescription
	}

	unit := strings.TrimSpace(meta.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	if utf8.RuneCountInString(unit) > 20 {
		return ErrInvalidUnit
	}
	if meta.ReorderLevel < 0 {
		return ErrInvalidReorderLevel
	}
	if meta.UnitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}
	if meta.WarehouseID == 0 {
		return ErrWarehouseRequired
	}
	if meta.CategoryID == 0 {
		return ErrCategoryRequired
	}

	it.Name = name
	it.Description = strings.TrimSpace(meta.Description)
	it.Unit = unit
	it.ReorderLevel = meta.ReorderLevel
	it.UnitPrice = meta.UnitPrice.Round(2)
	it.WarehouseID = meta.WarehouseID
	it.CategoryID = meta.CategoryID
	it.UpdatedAt = time.Now()
	return nil
}

// IsLowStock 库存是否低于或等于补货线
func (it *Item) IsLowStock() bool {
	return it.CurrentStock <= it.ReorderLevel
}

// Shortage 距离补货线的缺口（库存充足时为0）
func (it *Item) Shortage() int {
	if !it.IsLowStock() {
		return 0
	}
	return it.ReorderLevel - it.CurrentStock
}

// StockValue 库存金额（单价 × 当前库存）
func (it *Item) StockValue() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.CurrentStock)))
}
