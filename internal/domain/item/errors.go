package item

import (
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// 物料领域错误定义
var (
	// ErrItemNotFound 物料不存在
	ErrItemNotFound = apperrors.New(apperrors.ErrCodeItemNotFound, "物料不存在")

	// ErrDuplicateSSID SSID已存在
	ErrDuplicateSSID = apperrors.New(apperrors.ErrCodeDuplicateSSID, "SSID已存在")

	// ErrGenerationExhausted 多次生成SSID均冲突
	ErrGenerationExhausted = apperrors.New(apperrors.ErrCodeGenerationExhausted, "无法生成唯一的SSID，请稍后重试")

	// ErrInvalidSSID SSID格式不合法
	ErrInvalidSSID = apperrors.New(apperrors.ErrCodeInvalidSSID, "SSID长度应为3-50个字符")

	// ErrInvalidName 物料名称不合法
	ErrInvalidName = apperrors.New(apperrors.ErrCodeInvalidParams, "物料名称长度应为3-200个字符")

	// ErrInvalidDescription 描述过长
	ErrInvalidDescription = apperrors.New(apperrors.ErrCodeInvalidParams, "描述不超过500个字符")

	// ErrInvalidUnit 计量单位不合法
	ErrInvalidUnit = apperrors.New(apperrors.ErrCodeInvalidParams, "计量单位不超过20个字符")

	// ErrInvalidReorderLevel 补货线不合法
	ErrInvalidReorderLevel = apperrors.New(apperrors.ErrCodeInvalidParams, "补货线不能为负数")

	// ErrInvalidUnitPrice 单价不合法
	ErrInvalidUnitPrice = apperrors.New(apperrors.ErrCodeInvalidParams, "单价不能为负数")

	// ErrInvalidInitialStock 期初库存不合法
	ErrInvalidInitialStock = apperrors.New(apperrors.ErrCodeInvalidParams, "期初库存不能为负数")

	// ErrWarehouseRequired 未指定仓库
	ErrWarehouseRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "必须指定仓库")

	// ErrCategoryRequired 未指定分类
	ErrCategoryRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "必须指定分类")

	// ErrStockConflict 库存被并发修改（比较并交换失败）
	ErrStockConflict = apperrors.New(apperrors.ErrCodeStockConflict, "库存已被并发修改，请重试")
)
