package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/warehouse/internal/domain/payment"
	"github.com/xiebiao/warehouse/internal/domain/seller"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建付款仓储
func NewPaymentRepository(db *gorm.DB) payment.Repository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := &PaymentModel{
		SellerID:      p.SellerID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Method:        string(p.Method),
		Status:        string(p.Status),
		Notes:         p.Notes,
		ProcessedByID: p.ProcessedByID,
	}
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isForeignKeyError(err) {
			return seller.ErrSellerNotFound
		}
		return apperrors.Storage(err, "创建付款记录失败")
	}
	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*payment.Payment, error) {
	var model PaymentModel
	err := dbFrom(ctx, r.db).Preload("Seller").Preload("ProcessedBy").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, apperrors.Storage(err, "查询付款记录失败")
	}
	return toPaymentEntity(&model), nil
}

// Update 只允许修改状态和备注
func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	err := dbFrom(ctx, r.db).Model(&PaymentModel{ID: p.ID}).
		Select("status", "notes", "updated_at").
		Updates(&PaymentModel{Status: string(p.Status), Notes: p.Notes, UpdatedAt: p.UpdatedAt}).Error
	if err != nil {
		return apperrors.Storage(err, "更新付款记录失败")
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context, limit int) ([]*payment.Payment, error) {
	var models []PaymentModel
	err := dbFrom(ctx, r.db).Preload("Seller").Preload("ProcessedBy").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询付款记录失败")
	}
	list := make([]*payment.Payment, 0, len(models))
	for i := range models {
		list = append(list, toPaymentEntity(&models[i]))
	}
	return list, nil
}

func (r *paymentRepository) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&PaymentModel{}).Where("seller_id = ?", sellerID).Count(&count).Error
	if err != nil {
		return 0, apperrors.Storage(err, "统计付款记录失败")
	}
	return count, nil
}

func toPaymentEntity(m *PaymentModel) *payment.Payment {
	p := &payment.Payment{
		ID:            m.ID,
		SellerID:      m.SellerID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Method:        payment.Method(m.Method),
		Status:        payment.Status(m.Status),
		Notes:         m.Notes,
		ProcessedByID: m.ProcessedByID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Seller != nil {
		p.SellerName = m.Seller.Name
	}
	if m.ProcessedBy != nil {
		p.ProcessedByName = m.ProcessedBy.Username
	}
	return p
}
