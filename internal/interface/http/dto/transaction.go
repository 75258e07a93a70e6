package dto

import "time"

// RecordTransactionRequest 登记出入库流水
// quantity：IN/OUT必须大于0，ADJUSTMENT为带符号的调整量
type RecordTransactionRequest struct {
	ItemID   uint   `json:"item_id" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes" binding:"max=500"`
}

// ListTransactionsQuery 流水查询参数（日期格式 2006-01-02，to为当天结束）
type ListTransactionsQuery struct {
	ItemID      uint      `form:"item_id"`
	WarehouseID uint      `form:"warehouse_id"`
	UserID      uint      `form:"user_id"`
	Type        string    `form:"type"`
	From        time.Time `form:"from" time_format:"2006-01-02"`
	To          time.Time `form:"to" time_format:"2006-01-02"`
	Page        int       `form:"page"`
	PageSize    int       `form:"page_size"`
}
