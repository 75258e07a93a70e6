package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/warehouse/internal/domain/category"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// GetOrCreate 按名称获取分类，不存在时创建
// 并发处理：
// 1. 先查询，存在直接返回
// 2. 不存在则在（嵌套）事务中插入，外层有事务时是SAVEPOINT，冲突只回滚插入本身
// 3. 唯一索引冲突说明别的请求先创建了，加共享锁重新读取
//    （MySQL可重复读下普通SELECT读的是快照，看不到对方刚提交的行）
func (r *categoryRepository) GetOrCreate(ctx context.Context, name string) (*category.Category, error) {
	name, err := category.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	db := dbFrom(ctx, r.db)

	// 1. 查询已存在的分类
	var model CategoryModel
	err = db.Where("name = ?", name).First(&model).Error
	if err == nil {
		return toCategoryEntity(&model), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Storage(err, "查询分类失败")
	}

	// 2. 插入新分类
	model = CategoryModel{Name: name}
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
	if err == nil {
		return toCategoryEntity(&model), nil
	}
	if !isDuplicateError(err) {
		return nil, apperrors.Storage(err, "创建分类失败")
	}

	// 3. 冲突后重新读取
	var existing CategoryModel
	err = db.Clauses(clause.Locking{Strength: "SHARE"}).Where("name = ?", name).First(&existing).Error
	if err != nil {
		return nil, apperrors.Storage(err, "查询分类失败")
	}
	return toCategoryEntity(&existing), nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := dbFrom(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Storage(err, "查询分类失败")
	}
	return toCategoryEntity(&model), nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := dbFrom(ctx, r.db).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Storage(err, "查询分类列表失败")
	}
	list := make([]*category.Category, 0, len(models))
	for i := range models {
		list = append(list, toCategoryEntity(&models[i]))
	}
	return list, nil
}

func toCategoryEntity(m *CategoryModel) *category.Category {
	return &category.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}
