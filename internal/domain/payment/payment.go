// Package payment 付款记录
//
// 付款可以关联一个供应商（可选），由登记人（ProcessedBy）创建。
// 金额使用decimal，币种只作为标签保存，不做汇率换算。
package payment

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// DefaultCurrency 默认币种
const DefaultCurrency = "USD"

// Method 付款方式
type Method string

const (
	MethodCard Method = "card"
	MethodBank Method = "bank"
	MethodCash Method = "cash"
)

// Status 付款状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
)

// Payment 付款实体
type Payment struct {
	ID            uint
	SellerID      *uint // 可选
	Amount        decimal.Decimal
	Currency      string
	Method        Method
	Status        Status
	Notes         string
	ProcessedByID uint
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// 关联信息（查询时填充）
	SellerName      string
	ProcessedByName string
}

var (
	// ErrPaymentNotFound 付款记录不存在
	ErrPaymentNotFound = apperrors.New(apperrors.ErrCodePaymentNotFound, "付款记录不存在")

	// ErrInvalidAmount 金额不合法
	ErrInvalidAmount = apperrors.New(apperrors.ErrCodeInvalidParams, "金额不能为负数")

	// ErrInvalidCurrency 币种不合法
	ErrInvalidCurrency = apperrors.New(apperrors.ErrCodeInvalidParams, "币种应为3位字母代码")

	// ErrInvalidMethod 付款方式不合法
	ErrInvalidMethod = apperrors.New(apperrors.ErrCodeInvalidParams, "付款方式必须是card、bank或cash")

	// ErrInvalidStatus 付款状态不合法
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "付款状态必须是pending、completed或refunded")

	// ErrInvalidStatusTransition 状态流转不合法
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeBusinessError, "付款状态不允许此变更")
)

// ParseMethod 解析付款方式（空字符串表示未指定）
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "", MethodCard, MethodBank, MethodCash:
		return m, nil
	}
	return "", ErrInvalidMethod
}

// ParseStatus 解析付款状态（空字符串视为pending）
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case "":
		return StatusPending, nil
	case StatusPending, StatusCompleted, StatusRefunded:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// NewPayment 登记付款
func NewPayment(sellerID *uint, amount decimal.Decimal, currency string, method Method, status Status, notes string, processedBy uint) (*Payment, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return nil, ErrInvalidCurrency
	}
	if status == "" {
		status = StatusPending
	}

	now := time.Now()
	return &Payment{
		SellerID:      sellerID,
		Amount:        amount.Round(2),
		Currency:      currency,
		Method:        method,
		Status:        status,
		Notes:         strings.TrimSpace(notes),
		ProcessedByID: processedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ChangeStatus 变更付款状态
// 流转规则：pending → completed/refunded，completed → refunded，refunded为终态
func (p *Payment) ChangeStatus(next Status) error {
	if p.Status == next {
		return nil
	}

	allowed := false
	switch p.Status {
	case StatusPending:
		allowed = next == StatusCompleted || next == StatusRefunded
	case StatusCompleted:
		allowed = next == StatusRefunded
	}
	if !allowed {
		return ErrInvalidStatusTransition.WithDetails(map[string]interface{}{
			"from": string(p.Status),
			"to":   string(next),
		})
	}

	p.Status = next
	p.UpdatedAt = time.Now()
	return nil
}

// Repository 付款仓储接口
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id uint) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
	// List 最近的付款记录（按创建时间倒序，最多limit条）
	List(ctx context.Context, limit int) ([]*Payment, error)
	// CountBySeller 供应商关联的付款数（删除供应商前检查）
	CountBySeller(ctx context.Context, sellerID uint) (int64, error)
}
