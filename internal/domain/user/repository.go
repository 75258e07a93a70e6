package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 用户名、邮箱唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT）
type Repository interface {
	// Create 创建用户
	// 用户名重复返回ErrUsernameDuplicate，邮箱重复返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户，不存在返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// List 查询用户列表
	List(ctx context.Context, activeOnly bool) ([]*User, error)

	// Count 用户总数（用于初始化默认管理员）
	Count(ctx context.Context) (int64, error)
}
