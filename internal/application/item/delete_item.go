package item

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/pkg/tracing"
)

// DeleteItemUseCase 删除物料（连同全部流水）
type DeleteItemUseCase struct {
	itemRepo  item.Repository
	txnRepo   ledger.Repository
	txManager port.Transactor
	cache     port.StockCache
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewDeleteItemUseCase 创建用例
func NewDeleteItemUseCase(
	itemRepo item.Repository,
	txnRepo ledger.Repository,
	txManager port.Transactor,
	cache port.StockCache,
	publisher port.EventPublisher,
	logger *zap.Logger,
) *DeleteItemUseCase {
	return &DeleteItemUseCase{
		itemRepo:  itemRepo,
		txnRepo:   txnRepo,
		txManager: txManager,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// DeleteItemResponse 删除结果
type DeleteItemResponse struct {
	ID                  uint   `json:"id"`
	SSID                string `json:"ssid"`
	DeletedTransactions int64  `json:"deleted_transactions"`
}

// Execute 执行删除
// 先显式删除流水再删物料，不依赖数据库外键级联（两步在同一个事务里）
func (uc *DeleteItemUseCase) Execute(ctx context.Context, id uint, actor user.Actor) (resp *DeleteItemResponse, err error) {
	if err := actor.Require(user.CapCreateItems); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "item", "DeleteItem")
	span.SetAttributes(attribute.Int64("item.id", int64(id)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var (
		target  *item.Item
		deleted int64
	)
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		it, err := uc.itemRepo.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if deleted, err = uc.txnRepo.DeleteByItem(txCtx, it.ID); err != nil {
			return err
		}
		if err := uc.itemRepo.Delete(txCtx, it.ID); err != nil {
			return err
		}
		target = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("txn.deleted", deleted))

	// 提交后清理缓存、通知下游
	if err := uc.cache.Invalidate(ctx, target.SSID); err != nil {
		uc.logger.Warn("invalidate stock cache failed", zap.String("ssid", target.SSID), zap.Error(err))
	}
	event := port.StockEvent{
		EventID:      uuid.NewString(),
		ItemID:       target.ID,
		SSID:         target.SSID,
		ItemName:     target.Name,
		WarehouseID:  target.WarehouseID,
		StockBefore:  target.CurrentStock,
		ReorderLevel: target.ReorderLevel,
		UserID:       actor.UserID,
		OccurredAt:   time.Now(),
	}
	if err := uc.publisher.Publish(ctx, port.RoutingItemDeleted, event); err != nil {
		uc.logger.Warn("publish item deleted event failed", zap.String("ssid", target.SSID), zap.Error(err))
	}

	uc.logger.Info("item deleted",
		zap.Uint("item_id", target.ID),
		zap.String("ssid", target.SSID),
		zap.Int64("deleted_transactions", deleted),
		zap.Uint("user_id", actor.UserID),
	)
	return &DeleteItemResponse{ID: target.ID, SSID: target.SSID, DeletedTransactions: deleted}, nil
}
