package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/warehouse/internal/domain/item"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// itemRepository 物料仓储实现
// 库存并发控制：
// 1. 登记流水时先LockByID（SELECT ... FOR UPDATE）锁住物料行
// 2. 写回库存用CompareAndSetStock（WHERE current_stock = 旧值），
//    锁失效或绕过锁的写入会让影响行数为0，返回ErrStockConflict由上层重试
type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建物料仓储
func NewItemRepository(db *gorm.DB) item.Repository {
	return &itemRepository{db: db}
}

// Create 创建物料
func (r *itemRepository) Create(ctx context.Context, it *item.Item) error {
	model := toItemModel(it)
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return item.ErrDuplicateSSID
		}
		if isForeignKeyError(err) {
			return apperrors.ErrInvalidParams.WithDetails(map[string]interface{}{
				"warehouse_id": it.WarehouseID,
				"category_id":  it.CategoryID,
			})
		}
		return apperrors.Storage(err, "创建物料失败")
	}

	it.ID = model.ID
	it.CreatedAt = model.CreatedAt
	it.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找物料（预加载仓库和分类）
func (r *itemRepository) FindByID(ctx context.Context, id uint) (*item.Item, error) {
	return r.findOne(r.withRelations(dbFrom(ctx, r.db)).Where("items.id = ?", id))
}

// FindBySSID 根据SSID查找物料
func (r *itemRepository) FindBySSID(ctx context.Context, ssid string) (*item.Item, error) {
	return r.findOne(r.withRelations(dbFrom(ctx, r.db)).Where("items.ssid = ?", strings.TrimSpace(ssid)))
}

// LockByID 悲观锁查询（不预加载关联，只锁物料行）
func (r *itemRepository) LockByID(ctx context.Context, id uint) (*item.Item, error) {
	return r.findOne(dbFrom(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *itemRepository) findOne(query *gorm.DB) (*item.Item, error) {
	var model ItemModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, item.ErrItemNotFound
		}
		return nil, apperrors.Storage(err, "查询物料失败")
	}
	return toItemEntity(&model), nil
}

func (r *itemRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Warehouse").Preload("Category")
}

// ExistsBySSID SSID是否已被占用
func (r *itemRepository) ExistsBySSID(ctx context.Context, ssid string) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&ItemModel{}).Where("ssid = ?", ssid).Count(&count).Error
	if err != nil {
		return false, apperrors.Storage(err, "检查SSID失败")
	}
	return count > 0, nil
}

// Update 更新物料元数据
// 1. 只更新元数据列，current_stock只能由CompareAndSetStock修改
// 2. 不检查影响行数：MySQL值未变化时返回0行，调用方已经确认物料存在
func (r *itemRepository) Update(ctx context.Context, it *item.Item) error {
	model := toItemModel(it)
	result := dbFrom(ctx, r.db).Model(&ItemModel{ID: it.ID}).
		Select("name", "description", "unit", "reorder_level", "unit_price", "warehouse_id", "category_id", "updated_at").
		Updates(model)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return apperrors.ErrInvalidParams.WithDetails(map[string]interface{}{
				"warehouse_id": it.WarehouseID,
				"category_id":  it.CategoryID,
			})
		}
		return apperrors.Storage(result.Error, "更新物料失败")
	}
	return nil
}

// Delete 物理删除物料（流水通过外键级联删除）
func (r *itemRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&ItemModel{}, id)
	if result.Error != nil {
		return apperrors.Storage(result.Error, "删除物料失败")
	}
	if result.RowsAffected == 0 {
		return item.ErrItemNotFound
	}
	return nil
}

// List 分页查询物料
func (r *itemRepository) List(ctx context.Context, params item.ListParams) ([]*item.Item, int64, error) {
	query := dbFrom(ctx, r.db).Model(&ItemModel{})

	// 1. 过滤条件
	if params.WarehouseID > 0 {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	if params.CategoryID > 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if kw := strings.TrimSpace(params.Keyword); kw != "" {
		like := "%" + kw + "%"
		query = query.Where("(ssid LIKE ? OR name LIKE ?)", like, like)
	}
	if params.LowStock {
		query = query.Where("current_stock <= reorder_level")
	}

	// 2. 统计总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage(err, "统计物料数量失败")
	}

	// 3. 分页查询
	var models []ItemModel
	err := r.withRelations(query).
		Order("created_at DESC, id DESC").
		Offset(pageOffset(params.Page, params.PageSize)).
		Limit(params.PageSize).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Storage(err, "查询物料列表失败")
	}

	return toItemEntities(models), total, nil
}

// CompareAndSetStock 比较并交换库存
func (r *itemRepository) CompareAndSetStock(ctx context.Context, id uint, expected, next int) error {
	result := dbFrom(ctx, r.db).Model(&ItemModel{}).
		Where("id = ? AND current_stock = ?", id, expected).
		Update("current_stock", next)
	if result.Error != nil {
		return apperrors.Storage(result.Error, "更新库存失败")
	}
	if result.RowsAffected == 0 {
		return item.ErrStockConflict
	}
	return nil
}

// Count 物料总数
func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&ItemModel{}).Count(&count).Error; err != nil {
		return 0, apperrors.Storage(err, "统计物料数量失败")
	}
	return count, nil
}

// ListLowStock 低库存物料（缺口大的在前）
func (r *itemRepository) ListLowStock(ctx context.Context, warehouseID uint) ([]*item.Item, error) {
	query := r.withRelations(dbFrom(ctx, r.db)).Where("current_stock <= reorder_level")
	if warehouseID > 0 {
		query = query.Where("warehouse_id = ?", warehouseID)
	}

	var models []ItemModel
	if err := query.Order("reorder_level - current_stock DESC, id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Storage(err, "查询低库存物料失败")
	}
	return toItemEntities(models), nil
}

func toItemModel(it *item.Item) *ItemModel {
	return &ItemModel{
		ID:           it.ID,
		SSID:         it.SSID,
		Name:         it.Name,
		Description:  it.Description,
		Unit:         it.Unit,
		CurrentStock: it.CurrentStock,
		ReorderLevel: it.ReorderLevel,
		UnitPrice:    it.UnitPrice,
		WarehouseID:  it.WarehouseID,
		CategoryID:   it.CategoryID,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toItemEntity(m *ItemModel) *item.Item {
	it := &item.Item{
		ID:           m.ID,
		SSID:         m.SSID,
		Name:         m.Name,
		Description:  m.Description,
		Unit:         m.Unit,
		CurrentStock: m.CurrentStock,
		ReorderLevel: m.ReorderLevel,
		UnitPrice:    m.UnitPrice,
		WarehouseID:  m.WarehouseID,
		CategoryID:   m.CategoryID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Warehouse != nil {
		it.WarehouseName = m.Warehouse.Name
	}
	if m.Category != nil {
		it.CategoryName = m.Category.Name
	}
	return it
}

func toItemEntities(models []ItemModel) []*item.Item {
	items := make([]*item.Item, 0, len(models))
	for i := range models {
		items = append(items, toItemEntity(&models[i]))
	}
	return items
}
