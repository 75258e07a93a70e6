// Package seller 供应商管理用例
package seller

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/domain/payment"
	"github.com/xiebiao/warehouse/internal/domain/seller"
	"github.com/xiebiao/warehouse/internal/domain/user"
)

// SellerDTO 供应商响应DTO
type SellerDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toSellerDTO(s *seller.Seller) *SellerDTO {
	return &SellerDTO{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// SellerRequest 创建/编辑供应商请求
type SellerRequest struct {
	Name  string
	Email string
	Phone string
	Actor user.Actor
}

// UseCase 供应商用例（需要can_manage_users权限）
type UseCase struct {
	repo        seller.Repository
	paymentRepo payment.Repository
	logger      *zap.Logger
}

// NewUseCase 创建供应商用例
func NewUseCase(repo seller.Repository, paymentRepo payment.Repository, logger *zap.Logger) *UseCase {
	return &UseCase{repo: repo, paymentRepo: paymentRepo, logger: logger}
}

// Create 创建供应商
func (uc *UseCase) Create(ctx context.Context, req SellerRequest) (*SellerDTO, error) {
	if err := req.Actor.Require(user.CapManageUsers); err != nil {
		return nil, err
	}
	s, err := seller.NewSeller(req.Name, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSellerDTO(s), nil
}

// Update 编辑供应商
func (uc *UseCase) Update(ctx context.Context, id uint, req SellerRequest) (*SellerDTO, error) {
	if err := req.Actor.Require(user.CapManageUsers); err != nil {
		return nil, err
	}
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Update(req.Name, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSellerDTO(s), nil
}

// Delete 删除供应商，存在付款记录时返回ErrSellerInUse
func (uc *UseCase) Delete(ctx context.Context, id uint, actor user.Actor) error {
	if err := actor.Require(user.CapManageUsers); err != nil {
		return err
	}

	count, err := uc.paymentRepo.CountBySeller(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return seller.ErrSellerInUse.WithDetails(map[string]interface{}{
			"seller_id":     id,
			"payment_count": count,
		})
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("seller deleted", zap.Uint("seller_id", id), zap.Uint("user_id", actor.UserID))
	return nil
}

// List 供应商列表
func (uc *UseCase) List(ctx context.Context, actor user.Actor) ([]*SellerDTO, error) {
	if err := actor.Require(user.CapManageUsers); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*SellerDTO, 0, len(list))
	for _, s := range list {
		dtos = append(dtos, toSellerDTO(s))
	}
	return dtos, nil
}
