package item

import (
	"context"
)

// Repository 物料仓储接口
type Repository interface {
	// Create 创建物料，SSID冲突返回ErrDuplicateSSID
	Create(ctx context.Context, it *Item) error

	// FindByID 根据ID查找物料（填充仓库和分类名称）
	FindByID(ctx context.Context, id uint) (*Item, error)

	// FindBySSID 根据SSID查找物料
	FindBySSID(ctx context.Context, ssid string) (*Item, error)

	// ExistsBySSID SSID是否已被占用
	ExistsBySSID(ctx context.Context, ssid string) (bool, error)

	// Update 更新物料元数据（不修改current_stock和ssid）
	Update(ctx context.Context, it *Item) error

	// Delete 物理删除物料
	Delete(ctx context.Context, id uint) error

	// List 分页查询物料
	List(ctx context.Context, params ListParams) ([]*Item, int64, error)

	// LockByID 悲观锁查询（SELECT ... FOR UPDATE），只能在事务内使用
	LockByID(ctx context.Context, id uint) (*Item, error)

	// CompareAndSetStock 比较并交换库存
	// 只有当前库存等于expected时才更新为next，否则返回ErrStockConflict
	CompareAndSetStock(ctx context.Context, id uint, expected, next int) error

	// Count 物料总数
	Count(ctx context.Context) (int64, error)

	// ListLowStock 库存低于或等于补货线的物料（按缺口从大到小）
	ListLowStock(ctx context.Context, warehouseID uint) ([]*Item, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page        int    // 页码（从1开始）
	PageSize    int    // 每页数量
	WarehouseID uint   // 按仓库过滤（0表示全部）
	CategoryID  uint   // 按分类过滤（0表示全部）
	Keyword     string // 搜索SSID和名称
	LowStock    bool   // 只看低库存
}
