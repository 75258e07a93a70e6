package warehouse

import "context"

// Repository 仓库仓储接口
type Repository interface {
	// Create 创建仓库
	Create(ctx context.Context, w *Warehouse) error

	// FindByID 根据ID查找仓库，不存在返回ErrWarehouseNotFound
	FindByID(ctx context.Context, id uint) (*Warehouse, error)

	// LockByID 悲观锁查询（SELECT ... FOR UPDATE）
	// 删除仓库时锁住仓库行，防止检查物料数量后又有物料被建到该仓库
	LockByID(ctx context.Context, id uint) (*Warehouse, error)

	// Update 更新仓库信息
	Update(ctx context.Context, w *Warehouse) error

	// Delete 物理删除仓库
	Delete(ctx context.Context, id uint) error

	// List 查询全部仓库（按名称排序）
	List(ctx context.Context) ([]*Warehouse, error)

	// CountItems 统计仓库下的物料数量
	CountItems(ctx context.Context, id uint) (int64, error)

	// ItemSSIDs 仓库下全部物料的SSID
	ItemSSIDs(ctx context.Context, id uint) ([]string, error)

	// Count 仓库总数
	Count(ctx context.Context) (int64, error)
}
