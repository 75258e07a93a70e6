package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/warehouse/internal/domain/warehouse"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

type warehouseRepository struct {
	db *gorm.DB
}

// NewWarehouseRepository 创建仓库仓储
func NewWarehouseRepository(db *gorm.DB) warehouse.Repository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) Create(ctx context.Context, w *warehouse.Warehouse) error {
	model := toWarehouseModel(w)
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Storage(err, "创建仓库失败")
	}
	w.ID = model.ID
	w.CreatedAt = model.CreatedAt
	w.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *warehouseRepository) FindByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	return r.find(dbFrom(ctx, r.db), id)
}

// LockByID 悲观锁查询（SELECT ... FOR UPDATE）
// 必须在事务中调用，否则锁立即释放
func (r *warehouseRepository) LockByID(ctx context.Context, id uint) (*warehouse.Warehouse, error) {
	return r.find(dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *warehouseRepository) find(db *gorm.DB, id uint) (*warehouse.Warehouse, error) {
	var model WarehouseModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, warehouse.ErrWarehouseNotFound
		}
		return nil, apperrors.Storage(err, "查询仓库失败")
	}
	return toWarehouseEntity(&model), nil
}

func (r *warehouseRepository) Update(ctx context.Context, w *warehouse.Warehouse) error {
	result := dbFrom(ctx, r.db).Model(&WarehouseModel{}).
		Where("id = ?", w.ID).
		Updates(map[string]interface{}{
			"name":        w.Name,
			"location":    w.Location,
			"description": w.Description,
			"updated_at":  w.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Storage(result.Error, "更新仓库失败")
	}
	if result.RowsAffected == 0 {
		return warehouse.ErrWarehouseNotFound
	}
	return nil
}

// Delete 物理删除仓库
// items.warehouse_id外键为RESTRICT，绕过应用层检查时由数据库拒绝
func (r *warehouseRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&WarehouseModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return warehouse.ErrWarehouseNotEmpty
		}
		return apperrors.Storage(result.Error, "删除仓库失败")
	}
	if result.RowsAffected == 0 {
		return warehouse.ErrWarehouseNotFound
	}
	return nil
}

func (r *warehouseRepository) List(ctx context.Context) ([]*warehouse.Warehouse, error) {
	var models []WarehouseModel
	if err := dbFrom(ctx, r.db).Order("name ASC, id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Storage(err, "查询仓库列表失败")
	}
	list := make([]*warehouse.Warehouse, 0, len(models))
	for i := range models {
		list = append(list, toWarehouseEntity(&models[i]))
	}
	return list, nil
}

func (r *warehouseRepository) CountItems(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&ItemModel{}).Where("warehouse_id = ?", id).Count(&count).Error
	if err != nil {
		return 0, apperrors.Storage(err, "统计仓库物料数量失败")
	}
	return count, nil
}

func (r *warehouseRepository) ItemSSIDs(ctx context.Context, id uint) ([]string, error) {
	var ssids []string
	err := dbFrom(ctx, r.db).Model(&ItemModel{}).Where("warehouse_id = ?", id).Pluck("ssid", &ssids).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询仓库物料SSID失败")
	}
	return ssids, nil
}

func (r *warehouseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&WarehouseModel{}).Count(&count).Error; err != nil {
		return 0, apperrors.Storage(err, "统计仓库数量失败")
	}
	return count, nil
}

func toWarehouseModel(w *warehouse.Warehouse) *WarehouseModel {
	return &WarehouseModel{
		ID:          w.ID,
		Name:        w.Name,
		Location:    w.Location,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func toWarehouseEntity(m *WarehouseModel) *warehouse.Warehouse {
	return &warehouse.Warehouse{
		ID:          m.ID,
		Name:        m.Name,
		Location:    m.Location,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
