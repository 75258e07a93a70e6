package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/warehouse/internal/domain/seller"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

type sellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository 创建供应商仓储
func NewSellerRepository(db *gorm.DB) seller.Repository {
	return &sellerRepository{db: db}
}

func (r *sellerRepository) Create(ctx context.Context, s *seller.Seller) error {
	model := &SellerModel{Name: s.Name, Email: s.Email, Phone: s.Phone}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Storage(err, "创建供应商失败")
	}
	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *sellerRepository) FindByID(ctx context.Context, id uint) (*seller.Seller, error) {
	var model SellerModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, seller.ErrSellerNotFound
		}
		return nil, apperrors.Storage(err, "查询供应商失败")
	}
	return toSellerEntity(&model), nil
}

func (r *sellerRepository) Update(ctx context.Context, s *seller.Seller) error {
	err := dbFrom(ctx, r.db).Model(&SellerModel{ID: s.ID}).
		Select("name", "email", "phone", "updated_at").
		Updates(&SellerModel{Name: s.Name, Email: s.Email, Phone: s.Phone, UpdatedAt: s.UpdatedAt}).Error
	if err != nil {
		return apperrors.Storage(err, "更新供应商失败")
	}
	return nil
}

// Delete 删除供应商
// payments.seller_id外键为RESTRICT，有付款记录时数据库拒绝删除
func (r *sellerRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&SellerModel{}, id)
	if result.Error != nil {
		if isForeignKeyError(result.Error) {
			return seller.ErrSellerInUse
		}
		return apperrors.Storage(result.Error, "删除供应商失败")
	}
	if result.RowsAffected == 0 {
		return seller.ErrSellerNotFound
	}
	return nil
}

func (r *sellerRepository) List(ctx context.Context) ([]*seller.Seller, error) {
	var models []SellerModel
	if err := dbFrom(ctx, r.db).Order("name ASC, id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Storage(err, "查询供应商列表失败")
	}
	list := make([]*seller.Seller, 0, len(models))
	for i := range models {
		list = append(list, toSellerEntity(&models[i]))
	}
	return list, nil
}

func toSellerEntity(m *SellerModel) *seller.Seller {
	return &seller.Seller{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
