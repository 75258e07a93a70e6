package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 2. 角色只能由管理员显式修改
// 3. 停用的用户不能登录，但历史流水仍然引用该用户
type User struct {
	ID        uint
	Username  string
	Email     string
	Password  string // bcrypt哈希值
	Role      Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, email, hashedPassword string, role Role) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Actor 以当前用户身份构造操作人
func (u *User) Actor() Actor {
	return NewActor(u.ID, u.Role)
}

// SetActive 启用/停用账号
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.UpdatedAt = time.Now()
}
