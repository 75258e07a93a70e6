package item

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/category"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/domain/warehouse"
)

// UpdateItemUseCase 编辑物料元数据
// SSID和库存不可通过编辑修改；换仓库不影响历史流水记录的仓库
type UpdateItemUseCase struct {
	itemRepo      item.Repository
	categoryRepo  category.Repository
	warehouseRepo warehouse.Repository
	txManager     port.Transactor
	cache         port.StockCache
	logger        *zap.Logger
}

// NewUpdateItemUseCase 创建用例
func NewUpdateItemUseCase(
	itemRepo item.Repository,
	categoryRepo category.Repository,
	warehouseRepo warehouse.Repository,
	txManager port.Transactor,
	cache port.StockCache,
	logger *zap.Logger,
) *UpdateItemUseCase {
	return &UpdateItemUseCase{
		itemRepo:      itemRepo,
		categoryRepo:  categoryRepo,
		warehouseRepo: warehouseRepo,
		txManager:     txManager,
		cache:         cache,
		logger:        logger,
	}
}

// UpdateItemRequest 编辑物料请求
type UpdateItemRequest struct {
	ID           uint
	Name         string
	Description  string
	Category     string
	Unit         string
	ReorderLevel int
	UnitPrice    decimal.Decimal
	WarehouseID  uint
	Actor        user.Actor
}

// Execute 执行编辑
func (uc *UpdateItemUseCase) Execute(ctx context.Context, req UpdateItemRequest) (*ItemDTO, error) {
	if err := req.Actor.Require(user.CapCreateItems); err != nil {
		return nil, err
	}

	var updated *item.Item
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定物料行，避免与登记流水交错
		it, err := uc.itemRepo.LockByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		wh, err := uc.warehouseRepo.FindByID(txCtx, req.WarehouseID)
		if err != nil {
			return err
		}
		cat, err := uc.categoryRepo.GetOrCreate(txCtx, req.Category)
		if err != nil {
			return err
		}

		// 2. 领域实体校验并修改
		if err := it.UpdateMetadata(item.Metadata{
			Name:         req.Name,
			Description:  req.Description,
			Unit:         req.Unit,
			ReorderLevel: req.ReorderLevel,
			UnitPrice:    req.UnitPrice,
			WarehouseID:  wh.ID,
			CategoryID:   cat.ID,
		}); err != nil {
			return err
		}
		if err := uc.itemRepo.Update(txCtx, it); err != nil {
			return err
		}

		it.WarehouseName = wh.Name
		it.CategoryName = cat.Name
		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, updated.SSID); err != nil {
		uc.logger.Warn("invalidate stock cache failed", zap.String("ssid", updated.SSID), zap.Error(err))
	}
	return ToItemDTO(updated), nil
}
