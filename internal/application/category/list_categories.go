package category

import (
	"context"

	"github.com/xiebiao/warehouse/internal/domain/category"
)

// CategoryDTO 分类响应DTO
type CategoryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ListCategoriesUseCase 分类列表
type ListCategoriesUseCase struct {
	repo category.Repository
}

// NewListCategoriesUseCase 创建用例
func NewListCategoriesUseCase(repo category.Repository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{repo: repo}
}

// Execute 按名称排序返回全部分类
func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]*CategoryDTO, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]*CategoryDTO, 0, len(list))
	for _, c := range list {
		dtos = append(dtos, &CategoryDTO{ID: c.ID, Name: c.Name})
	}
	return dtos, nil
}
