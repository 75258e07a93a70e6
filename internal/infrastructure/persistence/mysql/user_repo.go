package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/warehouse/internal/domain/user"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// userRepository 用户仓储实现
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 唯一索引冲突（用户名、邮箱）转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 用户名、邮箱唯一性由数据库UNIQUE索引保证
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	// 1. 领域实体 → GORM模型
	model := toUserModel(u)

	// 2. 插入数据库（is_active没有default标签，false也会写入）
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return r.duplicateCause(ctx, u)
		}
		return apperrors.Storage(err, "创建用户失败")
	}

	// 3. 回填自增ID
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// duplicateCause 唯一索引冲突后判断是用户名还是邮箱重复
// TranslateError翻译后的错误不再携带索引名，所以重新查询一次
func (r *userRepository) duplicateCause(ctx context.Context, u *user.User) error {
	var count int64
	err := dbFrom(ctx, r.db).Model(&UserModel{}).Where("username = ?", u.Username).Count(&count).Error
	if err == nil && count > 0 {
		return apperrors.ErrUsernameDuplicate
	}
	return apperrors.ErrEmailDuplicate
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByUsername 根据用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var model UserModel
	err := dbFrom(ctx, r.db).Where("username = ?", username).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Storage(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// Update 更新用户信息
// 使用Save更新所有字段（包括is_active=false）
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := dbFrom(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Storage(err, "更新用户失败")
	}
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// List 查询用户列表
func (r *userRepository) List(ctx context.Context, activeOnly bool) ([]*user.User, error) {
	query := dbFrom(ctx, r.db).Model(&UserModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var models []UserModel
	if err := query.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Storage(err, "查询用户列表失败")
	}

	users := make([]*user.User, 0, len(models))
	for i := range models {
		users = append(users, toUserEntity(&models[i]))
	}
	return users, nil
}

// Count 用户总数
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := dbFrom(ctx, r.db).Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, apperrors.Storage(err, "统计用户数量失败")
	}
	return count, nil
}

func toUserModel(u *user.User) *UserModel {
	return &UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		Role:      u.Role.String(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Username:  model.Username,
		Email:     model.Email,
		Password:  model.Password,
		Role:      user.Role(model.Role),
		IsActive:  model.IsActive,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
