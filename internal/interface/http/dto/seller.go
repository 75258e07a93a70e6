package dto

import "github.com/shopspring/decimal"

// SellerRequest 创建/编辑供应商请求
type SellerRequest struct {
	Name  string `json:"name" binding:"required,max=128"`
	Email string `json:"email"`
	Phone string `json:"phone" binding:"max=30"`
}

// CreatePaymentRequest 登记付款请求
type CreatePaymentRequest struct {
	SellerID *uint           `json:"seller_id"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"string" example:"199.00"`
	Currency string          `json:"currency"`
	Method   string          `json:"method"`
	Status   string          `json:"status"`
	Notes    string          `json:"notes"`
}

// UpdatePaymentStatusRequest 变更付款状态
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed refunded"`
}
