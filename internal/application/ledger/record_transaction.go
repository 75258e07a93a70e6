package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
	"github.com/xiebiao/warehouse/internal/domain/user"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
	"github.com/xiebiao/warehouse/pkg/metrics"
	"github.com/xiebiao/warehouse/pkg/tracing"
)

// DefaultConflictRetries 库存CAS冲突时的默认重试次数
const DefaultConflictRetries = 3

// RecordTransactionUseCase 登记出入库流水
// 流程：锁定物料行 → 计算新库存 → 写流水 → CAS更新库存，全部在一个事务里
type RecordTransactionUseCase struct {
	itemRepo  item.Repository
	txnRepo   ledger.Repository
	txManager port.Transactor
	publisher port.EventPublisher
	cache     port.StockCache
	logger    *zap.Logger
	retries   int
}

// NewRecordTransactionUseCase 创建登记流水用例
// retries<=0时使用DefaultConflictRetries
func NewRecordTransactionUseCase(
	itemRepo item.Repository,
	txnRepo ledger.Repository,
	txManager port.Transactor,
	publisher port.EventPublisher,
	cache port.StockCache,
	logger *zap.Logger,
	retries int,
) *RecordTransactionUseCase {
	if retries <= 0 {
		retries = DefaultConflictRetries
	}
	return &RecordTransactionUseCase{
		itemRepo:  itemRepo,
		txnRepo:   txnRepo,
		txManager: txManager,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
		retries:   retries,
	}
}

// RecordTransactionRequest 登记流水请求
type RecordTransactionRequest struct {
	ItemID   uint
	Type     string
	Quantity int
	Notes    string
	Actor    user.Actor // 操作人（从JWT中提取）
}

// RecordTransactionResponse 登记流水响应
type RecordTransactionResponse struct {
	Transaction *TransactionDTO `json:"transaction"`
	NewStock    int             `json:"new_stock"`
	IsLowStock  bool            `json:"is_low_stock"`
}

// Execute 执行登记
func (uc *RecordTransactionUseCase) Execute(ctx context.Context, req RecordTransactionRequest) (resp *RecordTransactionResponse, err error) {
	start := time.Now()

	// 1. 参数校验
	if err := req.Actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	txnType, err := ledger.ParseType(req.Type)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "ledger", "RecordTransaction")
	span.SetAttributes(
		attribute.Int64("item.id", int64(req.ItemID)),
		attribute.String("txn.type", txnType.String()),
		attribute.Int("txn.quantity", req.Quantity),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		metrics.RecordStockTransaction(txnType.String(), resultLabel(err), time.Since(start).Seconds())
	}()

	// 2. 事务内登记，CAS冲突时整体重试
	canOverride := req.Actor.Can(user.CapOverrideStock)
	var (
		txn    *ledger.Transaction
		target *item.Item
	)
	for attempt := 0; ; attempt++ {
		txn, target, err = uc.recordOnce(ctx, req, txnType, canOverride)
		if !errors.Is(err, item.ErrStockConflict) || attempt >= uc.retries {
			break
		}
		metrics.IncConflictRetry()
		uc.logger.Warn("stock conflict, retrying",
			zap.Uint("item_id", req.ItemID),
			zap.Int("attempt", attempt+1),
		)
	}
	if err != nil {
		return nil, err
	}

	// 3. 事务提交后：清理缓存、发布事件（失败不影响登记结果）
	uc.afterCommit(ctx, txn, target)

	return &RecordTransactionResponse{
		Transaction: toTransactionDTO(txn),
		NewStock:    target.CurrentStock,
		IsLowStock:  target.IsLowStock(),
	}, nil
}

func (uc *RecordTransactionUseCase) recordOnce(ctx context.Context, req RecordTransactionRequest, txnType ledger.Type, canOverride bool) (*ledger.Transaction, *item.Item, error) {
	var (
		txn    *ledger.Transaction
		target *item.Item
	)
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. SELECT ... FOR UPDATE 锁定物料行
		it, err := uc.itemRepo.LockByID(txCtx, req.ItemID)
		if err != nil {
			return err
		}

		// 2. 计算新库存（库存规则在领域层）
		next, err := ledger.Apply(it.CurrentStock, txnType, req.Quantity, canOverride)
		if err != nil {
			return err
		}

		// 3. 写流水（仓库ID取物料当前所在仓库）
		txn = &ledger.Transaction{
			Type:        txnType,
			Quantity:    req.Quantity,
			Notes:       req.Notes,
			ItemID:      it.ID,
			WarehouseID: it.WarehouseID,
			UserID:      req.Actor.UserID,
			StockBefore: it.CurrentStock,
			StockAfter:  next,
			CreatedAt:   time.Now(),
		}
		if err := uc.txnRepo.Create(txCtx, txn); err != nil {
			return err
		}

		// 4. CAS更新库存（数量为0的调整不改变库存）
		if next != it.CurrentStock {
			if err := uc.itemRepo.CompareAndSetStock(txCtx, it.ID, it.CurrentStock, next); err != nil {
				return err
			}
		}

		txn.ItemSSID = it.SSID
		txn.ItemName = it.Name
		it.CurrentStock = next
		target = it
		return nil
	})
	return txn, target, err
}

func (uc *RecordTransactionUseCase) afterCommit(ctx context.Context, txn *ledger.Transaction, it *item.Item) {
	if err := uc.cache.Invalidate(ctx, it.SSID); err != nil {
		uc.logger.Warn("invalidate stock cache failed", zap.String("ssid", it.SSID), zap.Error(err))
	}

	event := port.StockEvent{
		EventID:       uuid.NewString(),
		TransactionID: txn.ID,
		ItemID:        it.ID,
		SSID:          it.SSID,
		ItemName:      it.Name,
		WarehouseID:   txn.WarehouseID,
		Type:          txn.Type.String(),
		Quantity:      txn.Quantity,
		StockBefore:   txn.StockBefore,
		StockAfter:    txn.StockAfter,
		ReorderLevel:  it.ReorderLevel,
		UserID:        txn.UserID,
		OccurredAt:    txn.CreatedAt,
	}
	uc.publish(ctx, port.RoutingStockRecorded, event)

	if it.IsLowStock() {
		metrics.IncLowStockEvent()
		event.EventID = uuid.NewString()
		uc.publish(ctx, port.RoutingStockLow, event)
	}
}

func (uc *RecordTransactionUseCase) publish(ctx context.Context, routingKey string, event port.StockEvent) {
	if err := uc.publisher.Publish(ctx, routingKey, event); err != nil {
		uc.logger.Warn("publish stock event failed",
			zap.String("routing_key", routingKey),
			zap.String("ssid", event.SSID),
			zap.Error(err),
		)
	}
}

// resultLabel 把错误归类为指标标签
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ledger.ErrInsufficientStock):
		return "insufficient"
	case errors.Is(err, ledger.ErrNegativeStockRejected):
		return "rejected"
	case errors.Is(err, ledger.ErrInvalidQuantity), errors.Is(err, ledger.ErrInvalidType):
		return "invalid"
	case errors.Is(err, item.ErrStockConflict):
		return "conflict"
	case errors.Is(err, item.ErrItemNotFound):
		return "not_found"
	case apperrors.IsRetryable(err):
		return "storage"
	default:
		return "error"
	}
}
