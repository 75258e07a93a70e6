// Package seller 供应商
package seller

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Seller 供应商实体
type Seller struct {
	ID        uint
	Name      string // 必填，最长128字符
	Email     string // 可选
	Phone     string // 可选，最长30字符
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	// ErrSellerNotFound 供应商不存在
	ErrSellerNotFound = apperrors.New(apperrors.ErrCodeSellerNotFound, "供应商不存在")

	// ErrInvalidName 名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "供应商名称不能为空且不超过128个字符")

	// ErrInvalidEmail 邮箱格式不正确
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "供应商邮箱格式不正确")

	// ErrInvalidPhone 电话过长
	ErrInvalidPhone = apperrors.New(apperrors.ErrCodeInvalidParams, "电话不超过30个字符")

	// ErrSellerInUse 供应商仍有付款记录
	ErrSellerInUse = apperrors.New(apperrors.ErrCodeBusinessError, "供应商存在付款记录，不能删除")
)

// NewSeller 创建供应商
func NewSeller(name, email, phone string) (*Seller, error) {
	s := &Seller{}
	if err := s.Update(name, email, phone); err != nil {
		return nil, err
	}
	s.CreatedAt = s.UpdatedAt
	return s, nil
}

// Update 更新供应商信息
func (s *Seller) Update(name, email, phone string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	if name == "" || utf8.RuneCountInString(name) > 128 {
		return ErrInvalidName
	}
	if email != "" && (len(email) > 120 || !emailPattern.MatchString(email)) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(phone) > 30 {
		return ErrInvalidPhone
	}

	s.Name = name
	s.Email = email
	s.Phone = phone
	s.UpdatedAt = time.Now()
	return nil
}

// Repository 供应商仓储接口
type Repository interface {
	Create(ctx context.Context, s *Seller) error
	FindByID(ctx context.Context, id uint) (*Seller, error)
	Update(ctx context.Context, s *Seller) error
	Delete(ctx context.Context, id uint) error
	// List 按名称排序
	List(ctx context.Context) ([]*Seller, error)
}
