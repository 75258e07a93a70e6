package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appledger "github.com/xiebiao/warehouse/internal/application/ledger"
	"github.com/xiebiao/warehouse/internal/interface/http/dto"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/pkg/response"
)

// TransactionHandler 出入库流水接口
type TransactionHandler struct {
	recordUseCase *appledger.RecordTransactionUseCase
	listUseCase   *appledger.ListTransactionsUseCase
}

// NewTransactionHandler 创建流水处理器
func NewTransactionHandler(recordUseCase *appledger.RecordTransactionUseCase, listUseCase *appledger.ListTransactionsUseCase) *TransactionHandler {
	return &TransactionHandler{recordUseCase: recordUseCase, listUseCase: listUseCase}
}

// RecordTransaction 登记出入库
// @Summary      登记出入库流水
// @Description  IN/OUT数量必须大于0；ADJUSTMENT为带符号调整量。
// @Description  库存不足或调整为负数时拒绝，拥有can_override_stock权限的用户除外。
// @Tags         流水
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RecordTransactionRequest true "流水信息"
// @Success      200 {object} response.Response{data=appledger.RecordTransactionResponse}
// @Failure      200 {object} response.Response "40001 库存不足 / 40002 调整后库存为负 / 40902 数量不合法 / 40903 类型不合法"
// @Router       /api/v1/transactions [post]
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.recordUseCase.Execute(c.Request.Context(), appledger.RecordTransactionRequest{
		ItemID:   req.ItemID,
		Type:     req.Type,
		Quantity: req.Quantity,
		Notes:    req.Notes,
		Actor:    middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListTransactions 流水查询
// @Summary      流水查询
// @Description  按物料、仓库、操作人、类型、日期过滤，按时间倒序分页
// @Tags         流水
// @Produce      json
// @Security     BearerAuth
// @Param        item_id query int false "物料ID"
// @Param        warehouse_id query int false "仓库ID"
// @Param        user_id query int false "操作人ID"
// @Param        type query string false "IN/OUT/ADJUSTMENT"
// @Param        from query string false "开始日期 2006-01-02"
// @Param        to query string false "结束日期 2006-01-02（含当天）"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appledger.TransactionDTO}}
// @Router       /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var q dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}
	to := q.To
	if !to.IsZero() {
		to = to.Add(24 * time.Hour)
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appledger.ListTransactionsRequest{
		ItemID:      q.ItemID,
		WarehouseID: q.WarehouseID,
		UserID:      q.UserID,
		Type:        q.Type,
		From:        q.From,
		To:          to,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}
