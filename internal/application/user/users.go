package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/warehouse/pkg/jwt"
)

// UserDTO 用户信息（不含密码）
type UserDTO struct {
	ID           uint     `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	IsActive     bool     `json:"is_active"`
	Capabilities []string `json:"capabilities"`
	CreatedAt    string   `json:"created_at"`
}

// ToUserDTO 领域实体 → DTO
func ToUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role.String(),
		IsActive:     u.IsActive,
		Capabilities: user.Capabilities(u.Role).List(),
		CreatedAt:    u.CreatedAt.Format(time.RFC3339),
	}
}

// ManageUsersUseCase 用户管理（创建、列表、启用/停用、个人信息）
type ManageUsersUseCase struct {
	userService  user.Service
	sessionStore *redis.SessionStore
	jwtManager   *jwt.Manager
	logger       *zap.Logger
}

// NewManageUsersUseCase 创建用户管理用例
func NewManageUsersUseCase(
	userService user.Service,
	sessionStore *redis.SessionStore,
	jwtManager *jwt.Manager,
	logger *zap.Logger,
) *ManageUsersUseCase {
	return &ManageUsersUseCase{
		userService:  userService,
		sessionStore: sessionStore,
		jwtManager:   jwtManager,
		logger:       logger,
	}
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string
	Email    string
	Password string
	Role     string // 为空时为staff
	Actor    user.Actor
}

// Create 创建用户
func (uc *ManageUsersUseCase) Create(ctx context.Context, req CreateUserRequest) (*UserDTO, error) {
	role := user.RoleStaff
	if req.Role != "" {
		r, err := user.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}

	u, err := uc.userService.CreateUser(ctx, req.Actor, req.Username, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user created",
		zap.Uint("user_id", u.ID),
		zap.String("role", u.Role.String()),
		zap.Uint("created_by", req.Actor.UserID),
	)
	return ToUserDTO(u), nil
}

// List 用户列表（activeOnly只返回启用的用户）
// 任何登录用户都可以查看启用用户；查看全部用户需要can_manage_users
func (uc *ManageUsersUseCase) List(ctx context.Context, actor user.Actor, activeOnly bool) ([]*UserDTO, error) {
	if !activeOnly {
		if err := actor.Require(user.CapManageUsers); err != nil {
			return nil, err
		}
	}

	users, err := uc.userService.ListUsers(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	list := make([]*UserDTO, 0, len(users))
	for _, u := range users {
		list = append(list, ToUserDTO(u))
	}
	return list, nil
}

// SetActive 启用/停用用户
// 停用后该用户已签发的Token立即失效
func (uc *ManageUsersUseCase) SetActive(ctx context.Context, actor user.Actor, id uint, active bool) (*UserDTO, error) {
	u, err := uc.userService.SetActive(ctx, actor, id, active)
	if err != nil {
		return nil, err
	}

	if active {
		err = uc.sessionStore.RestoreUser(ctx, id)
	} else {
		err = uc.sessionStore.RevokeUser(ctx, id, uc.jwtManager.AccessTokenExpire())
	}
	if err != nil {
		uc.logger.Warn("update user token state failed", zap.Uint("user_id", id), zap.Bool("active", active), zap.Error(err))
	}

	uc.logger.Info("user active changed", zap.Uint("user_id", id), zap.Bool("active", active), zap.Uint("by", actor.UserID))
	return ToUserDTO(u), nil
}

// Profile 当前用户信息
func (uc *ManageUsersUseCase) Profile(ctx context.Context, actor user.Actor) (*UserDTO, error) {
	if err := actor.RequireAuthenticated(); err != nil {
		return nil, err
	}
	u, err := uc.userService.GetUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return ToUserDTO(u), nil
}

// BootstrapAdmin 系统中没有任何用户时创建默认管理员（启动时调用）
func (uc *ManageUsersUseCase) BootstrapAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		uc.logger.Debug("bootstrap admin skipped: not configured")
		return nil
	}

	created, err := uc.userService.EnsureAdmin(ctx, username, email, password)
	if err != nil {
		return err
	}
	if created {
		uc.logger.Info("bootstrap admin created", zap.String("username", username))
	}
	return nil
}
