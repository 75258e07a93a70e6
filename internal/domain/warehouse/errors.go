package warehouse

import (
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// 仓库领域错误定义
var (
	// ErrWarehouseNotFound 仓库不存在
	ErrWarehouseNotFound = apperrors.New(apperrors.ErrCodeWarehouseNotFound, "仓库不存在")

	// ErrWarehouseNotEmpty 仓库下仍有物料
	ErrWarehouseNotEmpty = apperrors.New(apperrors.ErrCodeWarehouseNotEmpty, "仓库下仍有物料，不能删除")

	// ErrInvalidName 仓库名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "仓库名称不能为空且不超过100个字符")

	// ErrInvalidLocation 地址过长
	ErrInvalidLocation = apperrors.New(apperrors.ErrCodeInvalidParams, "仓库地址不超过200个字符")
)

// NewWarehouseNotEmpty 携带仓库ID和物料数量的WarehouseNotEmpty错误
func NewWarehouseNotEmpty(id uint, itemCount int64) error {
	return ErrWarehouseNotEmpty.WithDetails(map[string]interface{}{
		"warehouse_id": id,
		"item_count":   itemCount,
	})
}
