package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/warehouse/internal/application/report"
	"github.com/xiebiao/warehouse/pkg/response"
)

// ReportHandler 报表接口
type ReportHandler struct {
	useCase *appreport.UseCase
}

// NewReportHandler 创建报表处理器
func NewReportHandler(useCase *appreport.UseCase) *ReportHandler {
	return &ReportHandler{useCase: useCase}
}

// Dashboard 仪表盘
// @Summary      仪表盘
// @Description  物料/仓库/流水总数、低库存物料和最近10条流水
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appreport.DashboardResponse}
// @Router       /api/v1/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	result, err := h.useCase.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// LowStock 低库存报表
// @Summary      低库存报表
// @Tags         报表
// @Produce      json
// @Security     BearerAuth
// @Param        warehouse_id query int false "仓库ID"
// @Success      200 {object} response.Response{data=appreport.LowStockResponse}
// @Router       /api/v1/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *gin.Context) {
	warehouseID, _ := strconv.ParseUint(c.Query("warehouse_id"), 10, 64)

	result, err := h.useCase.LowStock(c.Request.Context(), uint(warehouseID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
