package ledger

import (
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// 流水领域错误定义
var (
	// ErrInvalidQuantity IN/OUT数量必须为正数
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidQuantity, "入库/出库数量必须大于0")

	// ErrInvalidType 流水类型不合法
	ErrInvalidType = apperrors.New(apperrors.ErrCodeInvalidTransactionType, "流水类型必须是IN、OUT或ADJUSTMENT")

	// ErrInsufficientStock 出库数量大于当前库存
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	// ErrNegativeStockRejected 调整后库存为负
	ErrNegativeStockRejected = apperrors.New(apperrors.ErrCodeNegativeStockRejected, "调整后库存不能为负数")

	// ErrTransactionNotFound 流水不存在
	ErrTransactionNotFound = apperrors.New(apperrors.ErrCodeTransactionNotFound, "库存流水不存在")
)

// NewInvalidQuantity 携带类型和数量的InvalidQuantity错误
func NewInvalidQuantity(t Type, quantity int) error {
	return ErrInvalidQuantity.WithDetails(map[string]interface{}{
		"type":     t.String(),
		"quantity": quantity,
	})
}

// NewInsufficientStock 携带可用库存和请求数量的InsufficientStock错误
func NewInsufficientStock(available, requested int) error {
	return ErrInsufficientStock.WithDetails(map[string]interface{}{
		"available": available,
		"requested": requested,
	})
}

// NewNegativeStockRejected 携带调整后库存值的NegativeStockRejected错误
func NewNegativeStockRejected(wouldBe int) error {
	return ErrNegativeStockRejected.WithDetails(map[string]interface{}{
		"would_be": wouldBe,
	})
}
