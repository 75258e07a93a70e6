package item

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/category"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/domain/warehouse"
	"github.com/xiebiao/warehouse/pkg/metrics"
)

// CreateItemUseCase 创建物料用例
// 一个事务内完成：生成SSID → 获取或创建分类 → 插入物料 → 期初库存登记为一笔IN流水
type CreateItemUseCase struct {
	itemRepo      item.Repository
	categoryRepo  category.Repository
	warehouseRepo warehouse.Repository
	txnRepo       ledger.Repository
	txManager     port.Transactor
	generator     *item.SSIDGenerator
	logger        *zap.Logger
}

// NewCreateItemUseCase 创建用例
func NewCreateItemUseCase(
	itemRepo item.Repository,
	categoryRepo category.Repository,
	warehouseRepo warehouse.Repository,
	txnRepo ledger.Repository,
	txManager port.Transactor,
	logger *zap.Logger,
) *CreateItemUseCase {
	return &CreateItemUseCase{
		itemRepo:      itemRepo,
		categoryRepo:  categoryRepo,
		warehouseRepo: warehouseRepo,
		txnRepo:       txnRepo,
		txManager:     txManager,
		generator:     item.NewSSIDGenerator(),
		logger:        logger,
	}
}

// CreateItemRequest 创建物料请求
type CreateItemRequest struct {
	SSID         string // 为空时自动生成
	Name         string
	Description  string
	Category     string // 分类名称（不存在时自动创建）
	Unit         string
	InitialStock int
	ReorderLevel *int // 为空时使用默认补货线10
	UnitPrice    decimal.Decimal
	WarehouseID  uint
	Actor        user.Actor
}

// Execute 执行创建
// 业务规则：
// 1. 需要can_create_items权限
// 2. 期初库存>=0，大于0时登记一笔IN流水（库存始终等于流水累加）
// 3. SSID手工指定时重复返回DuplicateSSID，自动生成时最多尝试10次
func (uc *CreateItemUseCase) Execute(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	// 1. 权限和参数校验
	if err := req.Actor.Require(user.CapCreateItems); err != nil {
		return nil, err
	}
	if req.InitialStock < 0 {
		return nil, item.ErrInvalidInitialStock
	}
	reorder := item.DefaultReorderLevel
	if req.ReorderLevel != nil {
		reorder = *req.ReorderLevel
	}

	var created *item.Item
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 2. 仓库必须存在
		wh, err := uc.warehouseRepo.FindByID(txCtx, req.WarehouseID)
		if err != nil {
			return err
		}

		// 3. 分类按名称获取或创建
		cat, err := uc.categoryRepo.GetOrCreate(txCtx, req.Category)
		if err != nil {
			return err
		}

		// 4. SSID
		ssid := strings.TrimSpace(req.SSID)
		if ssid == "" {
			ssid, err = uc.generator.Generate(txCtx, uc.itemRepo.ExistsBySSID)
			if err != nil {
				return err
			}
		}

		// 5. 创建物料（库存从0开始）
		it, err := item.NewItem(ssid, item.Metadata{
			Name:         req.Name,
			Description:  req.Description,
			Unit:         req.Unit,
			ReorderLevel: reorder,
			UnitPrice:    req.UnitPrice,
			WarehouseID:  wh.ID,
			CategoryID:   cat.ID,
		})
		if err != nil {
			return err
		}
		if err := uc.itemRepo.Create(txCtx, it); err != nil {
			return err
		}
		it.WarehouseName = wh.Name
		it.CategoryName = cat.Name

		// 6. 期初库存
		if req.InitialStock > 0 {
			if err := uc.recordOpeningStock(txCtx, it, req.InitialStock, req.Actor.UserID); err != nil {
				return err
			}
		}

		created = it
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncItemsCreated()
	uc.logger.Info("item created",
		zap.Uint("item_id", created.ID),
		zap.String("ssid", created.SSID),
		zap.Int("initial_stock", created.CurrentStock),
		zap.Uint("user_id", req.Actor.UserID),
	)
	return ToItemDTO(created), nil
}

func (uc *CreateItemUseCase) recordOpeningStock(ctx context.Context, it *item.Item, quantity int, userID uint) error {
	next, err := ledger.Apply(it.CurrentStock, ledger.TypeIn, quantity, false)
	if err != nil {
		return err
	}

	txn := &ledger.Transaction{
		Type:        ledger.TypeIn,
		Quantity:    quantity,
		Notes:       "期初库存",
		ItemID:      it.ID,
		WarehouseID: it.WarehouseID,
		UserID:      userID,
		StockBefore: it.CurrentStock,
		StockAfter:  next,
		CreatedAt:   time.Now(),
	}
	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return err
	}
	if err := uc.itemRepo.CompareAndSetStock(ctx, it.ID, it.CurrentStock, next); err != nil {
		return err
	}
	it.CurrentStock = next
	return nil
}
