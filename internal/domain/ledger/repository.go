package ledger

import (
	"context"
	"time"
)

// Repository 流水仓储接口
// 流水只能新增和随物料一起删除，没有Update方法
type Repository interface {
	// Create 新增流水
	Create(ctx context.Context, txn *Transaction) error

	// List 按条件分页查询流水
	List(ctx context.Context, filter Filter) ([]*Transaction, int64, error)

	// Recent 最近的limit条流水（按创建时间倒序）
	Recent(ctx context.Context, limit int) ([]*Transaction, error)

	// DeleteByItem 删除物料的全部流水，返回删除条数
	DeleteByItem(ctx context.Context, itemID uint) (int64, error)

	// Count 流水总数
	Count(ctx context.Context) (int64, error)
}

// Filter 流水查询条件（零值字段表示不过滤）
type Filter struct {
	ItemID      uint
	WarehouseID uint
	UserID      uint
	Type        Type
	From        time.Time // 创建时间 >= From
	To          time.Time // 创建时间 < To
	Page        int
	PageSize    int
	OldestFirst bool // 默认最新的在前
}
