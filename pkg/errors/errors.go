package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Details携带结构化字段（如可用库存、请求数量），便于客户端渲染提示
// 4. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int                    `json:"code"`              // 业务错误码
	Message string                 `json:"message"`           // 用户友好的错误提示
	Details map[string]interface{} `json:"details,omitempty"` // 结构化错误详情
	Err     error                  `json:"-"`                 // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配
// 带Details的错误实例与预定义错误码相同即视为同一类错误：
//
//	errors.Is(NewInsufficientStock(3, 5), ErrInsufficientStock) == true
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails 返回携带结构化详情的副本（不修改预定义错误）
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Err:     e.Err,
	}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如网络错误、编码错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Storage 包装存储层错误（连接断开、约束冲突竞争等）
// 存储错误是唯一允许调用方重试的错误类别
func Storage(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 存储错误（可重试）
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40104 // 无权限
	ErrCodeUserInactive    = 40105 // 账号已停用

	// 资源错误（40400-40499）
	ErrCodeNotFound            = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound        = 40401 // 用户不存在
	ErrCodeItemNotFound        = 40402 // 物料不存在
	ErrCodeWarehouseNotFound   = 40403 // 仓库不存在
	ErrCodeCategoryNotFound    = 40404 // 分类不存在
	ErrCodeTransactionNotFound = 40405 // 库存流水不存在
	ErrCodeSellerNotFound      = 40406 // 供应商不存在
	ErrCodePaymentNotFound     = 40407 // 付款记录不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError         = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock     = 40001 // 库存不足
	ErrCodeNegativeStockRejected = 40002 // 调整后库存为负
	ErrCodeWarehouseNotEmpty     = 40003 // 仓库仍有物料
	ErrCodeDuplicateSSID         = 40004 // SSID已存在
	ErrCodeGenerationExhausted   = 40005 // SSID生成重试耗尽
	ErrCodeWeakPassword          = 40006 // 密码强度不足
	ErrCodeUsernameDuplicate     = 40007 // 用户名已存在
	ErrCodeEmailDuplicate        = 40008 // 邮箱已存在
	ErrCodeDuplicateEntry        = 40009 // 重复记录(通用)
	ErrCodeStockConflict         = 40010 // 并发更新库存冲突

	// 参数错误（40900-40999）
	ErrCodeInvalidParams          = 40900 // 参数错误
	ErrCodeBindError              = 40901 // 参数绑定失败
	ErrCodeInvalidQuantity        = 40902 // 数量不合法
	ErrCodeInvalidTransactionType = 40903 // 流水类型不合法
	ErrCodeInvalidSSID            = 40904 // SSID格式不合法
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "用户名或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限执行此操作")
	ErrUserInactive    = New(ErrCodeUserInactive, "账号已停用")

	// 资源不存在
	ErrNotFound     = New(ErrCodeNotFound, "资源不存在")
	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")

	// 业务规则
	ErrWeakPassword      = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")
	ErrUsernameDuplicate = New(ErrCodeUsernameDuplicate, "用户名已存在")
	ErrEmailDuplicate    = New(ErrCodeEmailDuplicate, "邮箱已被使用")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// IsRetryable 判断错误是否允许调用方重试
// 只有存储层故障可以重试，授权失败和校验失败直接返回
func IsRetryable(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == ErrCodeDatabaseError
}
