// Package category 物料分类
//
// 分类只有名称，按名称精确匹配获取或创建（GetOrCreate），
// 名称上有唯一索引，并发创建同名分类时以先提交的为准。
package category

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// Category 分类实体
type Category struct {
	ID        uint
	Name      string
	CreatedAt time.Time
}

var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrInvalidName 分类名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不能为空且不超过100个字符")
)

// NormalizeName 规范化分类名称（去除首尾空白）并校验长度
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return "", ErrInvalidName
	}
	return name, nil
}

// Repository 分类仓储接口
type Repository interface {
	// GetOrCreate 按名称获取分类，不存在时创建
	// 实现必须在并发下安全：唯一索引冲突时重新读取已存在的记录
	GetOrCreate(ctx context.Context, name string) (*Category, error)

	// FindByID 根据ID查找分类
	FindByID(ctx context.Context, id uint) (*Category, error)

	// List 按名称排序列出全部分类
	List(ctx context.Context) ([]*Category, error)
}
