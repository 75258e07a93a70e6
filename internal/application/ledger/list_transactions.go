package ledger

import (
	"context"
	"time"

	"github.com/xiebiao/warehouse/internal/domain/ledger"
)

// TransactionDTO 流水响应DTO
type TransactionDTO struct {
	ID            uint   `json:"id"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	Effect        int    `json:"effect"` // 带符号的库存变化
	Notes         string `json:"notes,omitempty"`
	ItemID        uint   `json:"item_id"`
	ItemSSID      string `json:"item_ssid,omitempty"`
	ItemName      string `json:"item_name,omitempty"`
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name,omitempty"`
	UserID        uint   `json:"user_id"`
	Username      string `json:"username,omitempty"`
	StockBefore   int    `json:"stock_before"`
	StockAfter    int    `json:"stock_after"`
	CreatedAt     string `json:"created_at"`
}

// ToTransactionDTOs 转换流水列表（报表、物料详情也会用到）
func ToTransactionDTOs(txns []*ledger.Transaction) []*TransactionDTO {
	list := make([]*TransactionDTO, 0, len(txns))
	for _, txn := range txns {
		list = append(list, toTransactionDTO(txn))
	}
	return list
}

func toTransactionDTO(txn *ledger.Transaction) *TransactionDTO {
	return &TransactionDTO{
		ID:            txn.ID,
		Type:          txn.Type.String(),
		Quantity:      txn.Quantity,
		Effect:        txn.Effect(),
		Notes:         txn.Notes,
		ItemID:        txn.ItemID,
		ItemSSID:      txn.ItemSSID,
		ItemName:      txn.ItemName,
		WarehouseID:   txn.WarehouseID,
		WarehouseName: txn.WarehouseName,
		UserID:        txn.UserID,
		Username:      txn.Username,
		StockBefore:   txn.StockBefore,
		StockAfter:    txn.StockAfter,
		CreatedAt:     txn.CreatedAt.Format(time.RFC3339),
	}
}

// ListTransactionsUseCase 流水查询用例
type ListTransactionsUseCase struct {
	txnRepo ledger.Repository
}

// NewListTransactionsUseCase 创建流水查询用例
func NewListTransactionsUseCase(txnRepo ledger.Repository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{txnRepo: txnRepo}
}

// ListTransactionsRequest 流水查询请求
type ListTransactionsRequest struct {
	ItemID      uint
	WarehouseID uint
	UserID      uint
	Type        string
	From        time.Time
	To          time.Time
	Page        int
	PageSize    int
}

// ListTransactionsResponse 流水查询响应
type ListTransactionsResponse struct {
	List     []*TransactionDTO `json:"list"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// Execute 执行查询
// 1. page默认1，pageSize默认20、最大100
// 2. 结果按创建时间倒序
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, req ListTransactionsRequest) (*ListTransactionsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	filter := ledger.Filter{
		ItemID:      req.ItemID,
		WarehouseID: req.WarehouseID,
		UserID:      req.UserID,
		From:        req.From,
		To:          req.To,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	if req.Type != "" {
		t, err := ledger.ParseType(req.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = t
	}

	txns, total, err := uc.txnRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListTransactionsResponse{
		List:     ToTransactionDTOs(txns),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
