// Package report 仪表盘和低库存报表
package report

import (
	"context"

	appitem "github.com/xiebiao/warehouse/internal/application/item"
	appledger "github.com/xiebiao/warehouse/internal/application/ledger"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
	"github.com/xiebiao/warehouse/internal/domain/warehouse"
)

// recentLimit 仪表盘展示的最近流水条数
const recentLimit = 10

// DashboardResponse 仪表盘
type DashboardResponse struct {
	TotalItems         int64                       `json:"total_items"`
	TotalWarehouses    int64                       `json:"total_warehouses"`
	TotalTransactions  int64                       `json:"total_transactions"`
	LowStockCount      int                         `json:"low_stock_count"`
	LowStockItems      []*appitem.ItemDTO          `json:"low_stock_items"`
	RecentTransactions []*appledger.TransactionDTO `json:"recent_transactions"`
}

// LowStockEntry 低库存报表行
type LowStockEntry struct {
	*appitem.ItemDTO
	Shortage int `json:"shortage"` // 补货线 - 当前库存
}

// LowStockResponse 低库存报表
type LowStockResponse struct {
	Items []*LowStockEntry `json:"items"`
	Count int              `json:"count"`
}

// UseCase 报表用例（只读，任何登录用户可访问）
type UseCase struct {
	itemRepo      item.Repository
	warehouseRepo warehouse.Repository
	txnRepo       ledger.Repository
}

// NewUseCase 创建报表用例
func NewUseCase(itemRepo item.Repository, warehouseRepo warehouse.Repository, txnRepo ledger.Repository) *UseCase {
	return &UseCase{itemRepo: itemRepo, warehouseRepo: warehouseRepo, txnRepo: txnRepo}
}

// Dashboard 汇总数据
func (uc *UseCase) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	items, err := uc.itemRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	warehouses, err := uc.warehouseRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := uc.txnRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	low, err := uc.itemRepo.ListLowStock(ctx, 0)
	if err != nil {
		return nil, err
	}
	recent, err := uc.txnRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		TotalItems:         items,
		TotalWarehouses:    warehouses,
		TotalTransactions:  txns,
		LowStockCount:      len(low),
		LowStockItems:      appitem.ToItemDTOs(low),
		RecentTransactions: appledger.ToTransactionDTOs(recent),
	}, nil
}

// LowStock 低库存报表（按缺口从大到小，warehouseID为0表示全部仓库）
func (uc *UseCase) LowStock(ctx context.Context, warehouseID uint) (*LowStockResponse, error) {
	low, err := uc.itemRepo.ListLowStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	entries := make([]*LowStockEntry, 0, len(low))
	for _, it := range low {
		entries = append(entries, &LowStockEntry{
			ItemDTO:  appitem.ToItemDTO(it),
			Shortage: it.Shortage(),
		})
	}
	return &LowStockResponse{Items: entries, Count: len(entries)}, nil
}
