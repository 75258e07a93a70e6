package user

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// hashCost bcrypt计算成本（测试中可以调低）
var hashCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. 用户只能由拥有can_manage_users权限的管理员创建，没有公开注册
type Service interface {
	// CreateUser 创建用户（管理员操作）
	CreateUser(ctx context.Context, actor Actor, username, email, password string, role Role) (*User, error)

	// Login 用户名密码登录
	Login(ctx context.Context, username, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error

	// GetUser 查询用户
	GetUser(ctx context.Context, id uint) (*User, error)

	// ListUsers 查询用户列表
	ListUsers(ctx context.Context, activeOnly bool) ([]*User, error)

	// SetActive 启用/停用用户（管理员操作，不能停用自己）
	SetActive(ctx context.Context, actor Actor, id uint, active bool) (*User, error)

	// EnsureAdmin 系统中没有任何用户时创建默认管理员
	// 返回值created表示是否实际创建
	EnsureAdmin(ctx context.Context, username, email, password string) (created bool, err error)
}

type service struct {
	repo Repository
}

// NewService 创建用户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateUser 创建用户
// 业务规则：
// 1. 操作人必须拥有can_manage_users权限
// 2. 用户名3-80个字符，邮箱格式合法
// 3. 密码强度校验（8-20位，包含字母和数字）
// 4. 用户名/邮箱唯一性由数据库UNIQUE索引保证
func (s *service) CreateUser(ctx context.Context, actor Actor, username, email, password string, role Role) (*User, error) {
	// 1. 权限校验
	if err := actor.Require(CapManageUsers); err != nil {
		return nil, err
	}

	return s.create(ctx, username, email, password, role)
}

func (s *service) create(ctx context.Context, username, email, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 2. 参数校验
	if len(username) < 3 || len(username) > 80 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "用户名长度应为3-80个字符")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 3. 密码加密（bcrypt自动加盐）
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 4. 持久化
	u := NewUser(username, email, string(hashedPassword), role)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return u, nil
}

// Login 用户登录
// 业务规则：
// 1. 用户名不存在与密码错误返回同一个错误（防止枚举用户名）
// 2. 停用的账号不能登录
func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}

	if !u.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	return u, nil
}

// ValidatePassword 验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// GetUser 查询用户
func (s *service) GetUser(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers 查询用户列表
func (s *service) ListUsers(ctx context.Context, activeOnly bool) ([]*User, error) {
	return s.repo.List(ctx, activeOnly)
}

// SetActive 启用/停用用户
func (s *service) SetActive(ctx context.Context, actor Actor, id uint, active bool) (*User, error) {
	if err := actor.Require(CapManageUsers); err != nil {
		return nil, err
	}
	if actor.UserID == id && !active {
		return nil, apperrors.New(apperrors.ErrCodeBusinessError, "不能停用当前登录的账号")
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.SetActive(active)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin 初始化默认管理员
func (s *service) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.create(ctx, username, email, password, RoleAdmin); err != nil {
		// 多实例同时启动时，另一个实例可能已经创建了管理员
		if errors.Is(err, apperrors.ErrUsernameDuplicate) || errors.Is(err, apperrors.ErrEmailDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
