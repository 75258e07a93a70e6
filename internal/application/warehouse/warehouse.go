// Package warehouse 仓库管理用例
package warehouse

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/domain/warehouse"
)

// WarehouseDTO 仓库响应DTO
type WarehouseDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	ItemCount   *int64 `json:"item_count,omitempty"` // 仅详情返回
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toWarehouseDTO(w *warehouse.Warehouse) *WarehouseDTO {
	return &WarehouseDTO{
		ID:          w.ID,
		Name:        w.Name,
		Location:    w.Location,
		Description: w.Description,
		CreatedAt:   w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   w.UpdatedAt.Format(time.RFC3339),
	}
}

// WarehouseRequest 创建/编辑仓库请求
type WarehouseRequest struct {
	Name        string
	Location    string
	Description string
	Actor       user.Actor
}

// UseCase 仓库用例集合
type UseCase struct {
	repo      warehouse.Repository
	txManager port.Transactor
	cache     port.StockCache
	logger    *zap.Logger
}

// NewUseCase 创建仓库用例
func NewUseCase(repo warehouse.Repository, txManager port.Transactor, cache port.StockCache, logger *zap.Logger) *UseCase {
	return &UseCase{repo: repo, txManager: txManager, cache: cache, logger: logger}
}

// Create 创建仓库（需要can_create_warehouse权限）
func (uc *UseCase) Create(ctx context.Context, req WarehouseRequest) (*WarehouseDTO, error) {
	if err := req.Actor.Require(user.CapCreateWarehouse); err != nil {
		return nil, err
	}

	w, err := warehouse.NewWarehouse(req.Name, req.Location, req.Description)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, w); err != nil {
		return nil, err
	}

	uc.logger.Info("warehouse created", zap.Uint("warehouse_id", w.ID), zap.String("name", w.Name))
	return toWarehouseDTO(w), nil
}

// Update 编辑仓库
// 库存快照里带仓库名称，改名后清掉该仓库下物料的快照
func (uc *UseCase) Update(ctx context.Context, id uint, req WarehouseRequest) (*WarehouseDTO, error) {
	if err := req.Actor.Require(user.CapCreateWarehouse); err != nil {
		return nil, err
	}

	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName := w.Name
	if err := w.UpdateInfo(req.Name, req.Location, req.Description); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}

	if w.Name != oldName {
		uc.invalidateSnapshots(ctx, w.ID)
	}
	return toWarehouseDTO(w), nil
}

// invalidateSnapshots 缓存失败只记日志，快照最终由TTL过期
func (uc *UseCase) invalidateSnapshots(ctx context.Context, warehouseID uint) {
	ssids, err := uc.repo.ItemSSIDs(ctx, warehouseID)
	if err != nil {
		uc.logger.Warn("list warehouse items failed", zap.Uint("warehouse_id", warehouseID), zap.Error(err))
		return
	}
	for _, ssid := range ssids {
		if err := uc.cache.Invalidate(ctx, ssid); err != nil {
			uc.logger.Warn("invalidate stock snapshot failed", zap.String("ssid", ssid), zap.Error(err))
		}
	}
}

// Delete 删除仓库
// 仓库下还有物料时返回WarehouseNotEmpty（不级联删除）
// 锁住仓库行后再统计，避免统计后又有物料建到该仓库
func (uc *UseCase) Delete(ctx context.Context, id uint, actor user.Actor) error {
	if err := actor.Require(user.CapCreateWarehouse); err != nil {
		return err
	}

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		w, err := uc.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}

		count, err := uc.repo.CountItems(txCtx, w.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return warehouse.NewWarehouseNotEmpty(w.ID, count)
		}
		return uc.repo.Delete(txCtx, w.ID)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("warehouse deleted", zap.Uint("warehouse_id", id), zap.Uint("user_id", actor.UserID))
	return nil
}

// List 全部仓库
func (uc *UseCase) List(ctx context.Context) ([]*WarehouseDTO, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*WarehouseDTO, 0, len(list))
	for _, w := range list {
		dtos = append(dtos, toWarehouseDTO(w))
	}
	return dtos, nil
}

// Get 仓库详情（含物料数量）
func (uc *UseCase) Get(ctx context.Context, id uint) (*WarehouseDTO, error) {
	w, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := uc.repo.CountItems(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toWarehouseDTO(w)
	dto.ItemCount = &count
	return dto, nil
}
