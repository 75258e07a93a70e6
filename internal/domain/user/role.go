package user

import (
	"strings"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// ErrInvalidRole 未知角色
var ErrInvalidRole = apperrors.New(apperrors.ErrCodeInvalidParams, "角色必须是admin、manager或staff")

// ParseRole 解析角色字符串（大小写不敏感）
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid 是否为已知角色
func (r Role) Valid() bool {
	_, ok := capabilityTable[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Capability 操作权限
type Capability uint8

const (
	CapCreateItems Capability = 1 << iota
	CapCreateWarehouse
	CapManageUsers
	CapOverrideStock
)

func (c Capability) String() string {
	switch c {
	case CapCreateItems:
		return "can_create_items"
	case CapCreateWarehouse:
		return "can_create_warehouse"
	case CapManageUsers:
		return "can_manage_users"
	case CapOverrideStock:
		return "can_override_stock"
	default:
		return "unknown"
	}
}

// CapabilitySet 权限集合（位图）
type CapabilitySet uint8

// Has 判断集合是否包含指定权限
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// List 按固定顺序列出集合中的权限名称
func (s CapabilitySet) List() []string {
	all := []Capability{CapCreateItems, CapCreateWarehouse, CapManageUsers, CapOverrideStock}
	names := make([]string, 0, len(all))
	for _, c := range all {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

// capabilityTable 角色 → 权限的静态映射
//   - admin: 全部权限
//   - manager: 只能创建物料
//   - staff: 无特殊权限（可以登记出入库）
var capabilityTable = map[Role]CapabilitySet{
	RoleAdmin:   CapabilitySet(CapCreateItems | CapCreateWarehouse | CapManageUsers | CapOverrideStock),
	RoleManager: CapabilitySet(CapCreateItems),
	RoleStaff:   0,
}

// Capabilities 查询角色拥有的权限（纯函数，未知角色返回空集合）
func Capabilities(r Role) CapabilitySet {
	return capabilityTable[r]
}

// Actor 操作人
// 所有核心操作显式接收Actor，而不是从请求上下文中隐式获取当前用户
type Actor struct {
	UserID uint
	Role   Role
}

// NewActor 创建操作人
func NewActor(userID uint, role Role) Actor {
	return Actor{UserID: userID, Role: role}
}

// Can 判断操作人是否拥有权限
func (a Actor) Can(c Capability) bool {
	return Capabilities(a.Role).Has(c)
}

// Require 要求操作人拥有权限
// 未登录返回ErrUnauthorized，权限不足返回ErrForbidden
func (a Actor) Require(c Capability) error {
	if a.UserID == 0 {
		return apperrors.ErrUnauthorized
	}
	if !a.Can(c) {
		return apperrors.ErrForbidden.WithDetails(map[string]interface{}{
			"capability": c.String(),
			"role":       a.Role.String(),
		})
	}
	return nil
}

// RequireAuthenticated 只要求已登录
func (a Actor) RequireAuthenticated() error {
	if a.UserID == 0 {
		return apperrors.ErrUnauthorized
	}
	return nil
}
