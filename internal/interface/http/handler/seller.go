package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apppayment "github.com/xiebiao/warehouse/internal/application/payment"
	appseller "github.com/xiebiao/warehouse/internal/application/seller"
	"github.com/xiebiao/warehouse/internal/interface/http/dto"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/pkg/response"
)

// SellerHandler 供应商和付款接口（需要can_manage_users权限）
type SellerHandler struct {
	sellers  *appseller.UseCase
	payments *apppayment.UseCase
}

// NewSellerHandler 创建供应商处理器
func NewSellerHandler(sellers *appseller.UseCase, payments *apppayment.UseCase) *SellerHandler {
	return &SellerHandler{sellers: sellers, payments: payments}
}

// ListSellers 供应商列表
// @Summary      供应商列表
// @Tags         供应商
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appseller.SellerDTO}
// @Router       /api/v1/sellers [get]
func (h *SellerHandler) ListSellers(c *gin.Context) {
	result, err := h.sellers.List(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateSeller 创建供应商
// @Summary      创建供应商
// @Tags         供应商
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.SellerRequest true "供应商信息"
// @Success      200 {object} response.Response{data=appseller.SellerDTO}
// @Router       /api/v1/sellers [post]
func (h *SellerHandler) CreateSeller(c *gin.Context) {
	var req dto.SellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.sellers.Create(c.Request.Context(), appseller.SellerRequest{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Actor: middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateSeller 编辑供应商
// @Summary      编辑供应商
// @Tags         供应商
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "供应商ID"
// @Param        request body dto.SellerRequest true "供应商信息"
// @Success      200 {object} response.Response{data=appseller.SellerDTO}
// @Router       /api/v1/sellers/{id} [put]
func (h *SellerHandler) UpdateSeller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.sellers.Update(c.Request.Context(), id, appseller.SellerRequest{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Actor: middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteSeller 删除供应商
// @Summary      删除供应商
// @Description  仍有付款记录引用时拒绝删除
// @Tags         供应商
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "供应商ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/sellers/{id} [delete]
func (h *SellerHandler) DeleteSeller(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sellers.Delete(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// ListPayments 最近的付款记录
// @Summary      付款记录
// @Tags         付款
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "条数（最大100）" default(100)
// @Success      200 {object} response.Response{data=[]apppayment.PaymentDTO}
// @Router       /api/v1/payments [get]
func (h *SellerHandler) ListPayments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.payments.List(c.Request.Context(), middleware.GetActor(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreatePayment 登记付款
// @Summary      登记付款
// @Description  金额保留两位小数；币种默认USD；状态默认pending
// @Tags         付款
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePaymentRequest true "付款信息"
// @Success      200 {object} response.Response{data=apppayment.PaymentDTO}
// @Router       /api/v1/payments [post]
func (h *SellerHandler) CreatePayment(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.payments.Create(c.Request.Context(), apppayment.CreatePaymentRequest{
		SellerID: req.SellerID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Method:   req.Method,
		Status:   req.Status,
		Notes:    req.Notes,
		Actor:    middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdatePaymentStatus 变更付款状态
// @Summary      变更付款状态
// @Tags         付款
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "付款ID"
// @Param        request body dto.UpdatePaymentStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apppayment.PaymentDTO}
// @Router       /api/v1/payments/{id}/status [patch]
func (h *SellerHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.payments.UpdateStatus(c.Request.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
