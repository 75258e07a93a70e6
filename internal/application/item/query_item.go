package item

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	appledger "github.com/xiebiao/warehouse/internal/application/ledger"
	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
)

// recentTransactionLimit 物料详情中展示的最近流水条数
const recentTransactionLimit = 10

// QueryItemUseCase 物料查询（详情、列表、按SSID查库存、SSID搜索）
type QueryItemUseCase struct {
	itemRepo item.Repository
	txnRepo  ledger.Repository
	cache    port.StockCache
	logger   *zap.Logger
}

// NewQueryItemUseCase 创建查询用例
func NewQueryItemUseCase(itemRepo item.Repository, txnRepo ledger.Repository, cache port.StockCache, logger *zap.Logger) *QueryItemUseCase {
	return &QueryItemUseCase{
		itemRepo: itemRepo,
		txnRepo:  txnRepo,
		cache:    cache,
		logger:   logger,
	}
}

// ItemDetailResponse 物料详情（含最近流水）
type ItemDetailResponse struct {
	*ItemDTO
	RecentTransactions []*appledger.TransactionDTO `json:"recent_transactions"`
}

// Get 物料详情
func (uc *QueryItemUseCase) Get(ctx context.Context, id uint) (*ItemDetailResponse, error) {
	it, err := uc.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txns, _, err := uc.txnRepo.List(ctx, ledger.Filter{ItemID: id, Page: 1, PageSize: recentTransactionLimit})
	if err != nil {
		return nil, err
	}

	return &ItemDetailResponse{
		ItemDTO:            ToItemDTO(it),
		RecentTransactions: appledger.ToTransactionDTOs(txns),
	}, nil
}

// ListItemsRequest 物料列表请求
type ListItemsRequest struct {
	Page        int
	PageSize    int
	WarehouseID uint
	CategoryID  uint
	Keyword     string
	LowStock    bool
}

// ListItemsResponse 物料列表响应
type ListItemsResponse struct {
	List     []*ItemDTO `json:"list"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// List 物料列表（page默认1，pageSize默认20、最大100）
func (uc *QueryItemUseCase) List(ctx context.Context, req ListItemsRequest) (*ListItemsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	items, total, err := uc.itemRepo.List(ctx, item.ListParams{
		Page:        req.Page,
		PageSize:    req.PageSize,
		WarehouseID: req.WarehouseID,
		CategoryID:  req.CategoryID,
		Keyword:     req.Keyword,
		LowStock:    req.LowStock,
	})
	if err != nil {
		return nil, err
	}

	return &ListItemsResponse{
		List:     ToItemDTOs(items),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// GetStockBySSID 按SSID查询库存（Cache-Aside）
// 缓存故障时降级为直接查库
func (uc *QueryItemUseCase) GetStockBySSID(ctx context.Context, ssid string) (*port.StockSnapshot, error) {
	ssid = strings.TrimSpace(ssid)
	if err := item.ValidateSSID(ssid); err != nil {
		return nil, err
	}

	// 1. 查缓存
	cached, err := uc.cache.Get(ctx, ssid)
	if err != nil {
		uc.logger.Warn("read stock cache failed", zap.String("ssid", ssid), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	// 2. 查数据库
	it, err := uc.itemRepo.FindBySSID(ctx, ssid)
	if err != nil {
		return nil, err
	}
	snapshot := &port.StockSnapshot{
		ItemID:       it.ID,
		SSID:         it.SSID,
		Name:         it.Name,
		Unit:         it.Unit,
		CurrentStock: it.CurrentStock,
		ReorderLevel: it.ReorderLevel,
		IsLowStock:   it.IsLowStock(),
		Warehouse:    it.WarehouseName,
		Category:     it.CategoryName,
	}

	// 3. 回填缓存
	if err := uc.cache.Set(ctx, snapshot); err != nil {
		uc.logger.Warn("write stock cache failed", zap.String("ssid", ssid), zap.Error(err))
	}
	return snapshot, nil
}

// SearchBySSID 按SSID精确查找，找不到时按SSID/名称模糊匹配（最多20条）
func (uc *QueryItemUseCase) SearchBySSID(ctx context.Context, ssid string) ([]*ItemDTO, error) {
	ssid = strings.TrimSpace(ssid)
	if ssid == "" {
		return []*ItemDTO{}, nil
	}

	it, err := uc.itemRepo.FindBySSID(ctx, ssid)
	if err == nil {
		return []*ItemDTO{ToItemDTO(it)}, nil
	}
	if !errors.Is(err, item.ErrItemNotFound) {
		return nil, err
	}

	items, _, err := uc.itemRepo.List(ctx, item.ListParams{Page: 1, PageSize: 20, Keyword: ssid})
	if err != nil {
		return nil, err
	}
	return ToItemDTOs(items), nil
}
