// Package payment 付款记录用例
package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/domain/payment"
	"github.com/xiebiao/warehouse/internal/domain/seller"
	"github.com/xiebiao/warehouse/internal/domain/user"
)

// defaultListLimit 付款列表默认返回条数
const defaultListLimit = 100

// PaymentDTO 付款响应DTO
type PaymentDTO struct {
	ID          uint   `json:"id"`
	SellerID    *uint  `json:"seller_id,omitempty"`
	SellerName  string `json:"seller_name,omitempty"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"method,omitempty"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	ProcessedBy string `json:"processed_by,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toPaymentDTO(p *payment.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:          p.ID,
		SellerID:    p.SellerID,
		SellerName:  p.SellerName,
		Amount:      p.Amount.StringFixed(2),
		Currency:    p.Currency,
		Method:      string(p.Method),
		Status:      string(p.Status),
		Notes:       p.Notes,
		ProcessedBy: p.ProcessedByName,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

// CreatePaymentRequest 登记付款请求
type CreatePaymentRequest struct {
	SellerID *uint
	Amount   decimal.Decimal
	Currency string
	Method   string
	Status   string
	Notes    string
	Actor    user.Actor
}

// UseCase 付款用例（需要can_manage_users权限）
type UseCase struct {
	repo       payment.Repository
	sellerRepo seller.Repository
	logger     *zap.Logger
}

// NewUseCase 创建付款用例
func NewUseCase(repo payment.Repository, sellerRepo seller.Repository, logger *zap.Logger) *UseCase {
	return &UseCase{repo: repo, sellerRepo: sellerRepo, logger: logger}
}

// Create 登记付款
func (uc *UseCase) Create(ctx context.Context, req CreatePaymentRequest) (*PaymentDTO, error) {
	if err := req.Actor.Require(user.CapManageUsers); err != nil {
		return nil, err
	}

	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		return nil, err
	}
	status, err := payment.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	// 关联的供应商必须存在
	var sellerName string
	if req.SellerID != nil {
		s, err := uc.sellerRepo.FindByID(ctx, *req.SellerID)
		if err != nil {
			return nil, err
		}
		sellerName = s.Name
	}

	p, err := payment.NewPayment(req.SellerID, req.Amount, req.Currency, method, status, req.Notes, req.Actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	p.SellerName = sellerName

	uc.logger.Info("payment recorded",
		zap.Uint("payment_id", p.ID),
		zap.String("amount", p.Amount.StringFixed(2)),
		zap.String("currency", p.Currency),
	)
	return toPaymentDTO(p), nil
}

// List 最近的付款记录
func (uc *UseCase) List(ctx context.Context, actor user.Actor, limit int) ([]*PaymentDTO, error) {
	if err := actor.Require(user.CapManageUsers); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	list, err := uc.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]*PaymentDTO, 0, len(list))
	for _, p := range list {
		dtos = append(dtos, toPaymentDTO(p))
	}
	return dtos, nil
}

// UpdateStatus 变更付款状态
func (uc *UseCase) UpdateStatus(ctx context.Context, actor user.Actor, id uint, status string) (*PaymentDTO, error) {
	if err := actor.Require(user.CapManageUsers); err != nil {
		return nil, err
	}

	next, err := payment.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.ChangeStatus(next); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPaymentDTO(p), nil
}
