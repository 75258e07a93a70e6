package dto

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest 创建用户请求
// 密码强度和邮箱格式由领域服务校验
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager staff"`
}

// SetActiveRequest 启用/停用用户
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ListUsersQuery 用户列表查询参数
type ListUsersQuery struct {
	All bool `form:"all"` // true时包含停用用户（需要can_manage_users）
}
