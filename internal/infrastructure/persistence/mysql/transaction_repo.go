package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/warehouse/internal/domain/ledger"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// transactionRepository 库存流水仓储实现
// 流水只追加，不提供更新方法
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建流水仓储
func NewTransactionRepository(db *gorm.DB) ledger.Repository {
	return &transactionRepository{db: db}
}

// Create 新增流水（必须与库存更新在同一个事务中）
func (r *transactionRepository) Create(ctx context.Context, txn *ledger.Transaction) error {
	model := &TransactionModel{
		Type:        txn.Type.String(),
		Quantity:    txn.Quantity,
		Notes:       txn.Notes,
		ItemID:      txn.ItemID,
		WarehouseID: txn.WarehouseID,
		UserID:      txn.UserID,
		StockBefore: txn.StockBefore,
		StockAfter:  txn.StockAfter,
		CreatedAt:   txn.CreatedAt,
	}
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Storage(err, "登记库存流水失败")
	}

	txn.ID = model.ID
	txn.CreatedAt = model.CreatedAt
	return nil
}

// List 按条件分页查询流水
func (r *transactionRepository) List(ctx context.Context, filter ledger.Filter) ([]*ledger.Transaction, int64, error) {
	db := dbFrom(ctx, r.db)
	query := db.Model(&TransactionModel{})

	// 1. 过滤条件
	if filter.ItemID > 0 {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.WarehouseID > 0 {
		query = query.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type.String())
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}

	// 2. 统计总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage(err, "统计库存流水失败")
	}

	// 3. 分页查询（同一秒内的流水按ID排序）
	order := "created_at DESC, id DESC"
	if filter.OldestFirst {
		order = "created_at ASC, id ASC"
	}
	if filter.PageSize > 0 {
		query = query.Offset(pageOffset(filter.Page, filter.PageSize)).Limit(filter.PageSize)
	}

	var models []TransactionModel
	if err := query.Preload("Item").Preload("User").Order(order).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Storage(err, "查询库存流水失败")
	}

	txns, err := r.toEntities(db, models)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// Recent 最近的流水
func (r *transactionRepository) Recent(ctx context.Context, limit int) ([]*ledger.Transaction, error) {
	db := dbFrom(ctx, r.db)

	var models []TransactionModel
	err := db.Preload("Item").Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询最近流水失败")
	}
	return r.toEntities(db, models)
}

// DeleteByItem 删除物料的全部流水
func (r *transactionRepository) DeleteByItem(ctx context.Context, itemID uint) (int64, error) {
	result := dbFrom(ctx, r.db).Where("item_id = ?", itemID).Delete(&TransactionModel{})
	if result.Error != nil {
		return 0, apperrors.Storage(result.Error, "删除物料流水失败")
	}
	return result.RowsAffected, nil
}

// Count 流水总数
func (r *transactionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&TransactionModel{}).Count(&count).Error; err != nil {
		return 0, apperrors.Storage(err, "统计库存流水失败")
	}
	return count, nil
}

// toEntities 模型转换，并批量查询仓库名称
// warehouse_id没有外键关联，不能Preload
func (r *transactionRepository) toEntities(db *gorm.DB, models []TransactionModel) ([]*ledger.Transaction, error) {
	warehouseIDs := make([]uint, 0, len(models))
	seen := make(map[uint]bool, len(models))
	for _, m := range models {
		if !seen[m.WarehouseID] {
			seen[m.WarehouseID] = true
			warehouseIDs = append(warehouseIDs, m.WarehouseID)
		}
	}

	names := make(map[uint]string, len(warehouseIDs))
	if len(warehouseIDs) > 0 {
		var warehouses []WarehouseModel
		if err := db.Select("id", "name").Where("id IN ?", warehouseIDs).Find(&warehouses).Error; err != nil {
			return nil, apperrors.Storage(err, "查询仓库名称失败")
		}
		for _, w := range warehouses {
			names[w.ID] = w.Name
		}
	}

	txns := make([]*ledger.Transaction, 0, len(models))
	for i := range models {
		m := &models[i]
		txn := &ledger.Transaction{
			ID:            m.ID,
			Type:          ledger.Type(m.Type),
			Quantity:      m.Quantity,
			Notes:         m.Notes,
			ItemID:        m.ItemID,
			WarehouseID:   m.WarehouseID,
			UserID:        m.UserID,
			StockBefore:   m.StockBefore,
			StockAfter:    m.StockAfter,
			CreatedAt:     m.CreatedAt,
			WarehouseName: names[m.WarehouseID],
		}
		if m.Item != nil {
			txn.ItemSSID = m.Item.SSID
			txn.ItemName = m.Item.Name
		}
		if m.User != nil {
			txn.Username = m.User.Username
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
