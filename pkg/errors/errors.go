package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，前三位即HTTP状态码（如40901 -> 409）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
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

// HTTPStatus 从业务错误码推导HTTP状态码
// 约定：错误码 = HTTP状态码 * 100 + 序号，所以取前三位即可
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if status < 100 || status > 599 {
		return 500
	}
	return status
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
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

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 400xx: 参数错误、状态不允许（时段已关闭等）
// - 401xx: 认证错误
// - 404xx: 资源不存在
// - 409xx: 业务规则冲突（预约规则校验失败）
// - 500xx: 服务端错误
// - 503xx: 资源繁忙（可重试）

const (
	// 参数与状态错误（40000-40099）
	ErrCodeInvalidParams      = 40000 // 参数错误(通用)
	ErrCodeSlotNotOpen        = 40001 // 时段未开放预约
	ErrCodeInvalidRating      = 40002 // 评分超出范围
	ErrCodeWeakPassword       = 40003 // 密码强度不足
	ErrCodeInvalidSlotTime    = 40004 // 时段时间非法
	ErrCodeAttendanceRequired = 40005 // 未出席不能评价
	ErrCodeBindError          = 40006 // 参数绑定失败
	ErrCodeInvalidAttendance  = 40007 // 出席状态非法

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误

	// 权限错误（40300-40399）
	ErrCodeForbidden = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound        = 40400 // 资源不存在(通用)
	ErrCodeStudentNotFound = 40401 // 学生不存在
	ErrCodeTutorNotFound   = 40402 // 导师不存在
	ErrCodeCourseNotFound  = 40403 // 课程不存在
	ErrCodeSlotNotFound    = 40404 // 时段不存在
	ErrCodeBookingNotFound = 40405 // 预约不存在

	// 业务规则冲突（40900-40999）
	ErrCodeConflict          = 40900 // 业务冲突(通用)
	ErrCodeDuplicateBooking  = 40901 // 重复预约同一时段
	ErrCodeSameTutorSameDay  = 40902 // 当天已预约同一导师同一课程
	ErrCodeTimeOverlap       = 40903 // 与已有预约时间重叠
	ErrCodeSameCourseSameDay = 40904 // 当天已预约同一课程
	ErrCodeReviewExists      = 40905 // 已评价过该预约
	ErrCodeEmailDuplicate    = 40906 // 邮箱已存在

	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 资源繁忙（50300-50399）
	ErrCodeServerBusy = 50300 // 锁等待超时，稍后重试
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 参数与状态
	ErrInvalidParams      = New(ErrCodeInvalidParams, "参数错误")
	ErrSlotNotOpen        = New(ErrCodeSlotNotOpen, "该时段未开放预约")
	ErrInvalidRating      = New(ErrCodeInvalidRating, "评分必须在1到5之间")
	ErrWeakPassword       = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")
	ErrInvalidSlotTime    = New(ErrCodeInvalidSlotTime, "开始时间必须早于结束时间")
	ErrAttendanceRequired = New(ErrCodeAttendanceRequired, "出席记录为Yes后才能评价")
	ErrBindError          = New(ErrCodeBindError, "参数格式错误")
	ErrInvalidAttendance  = New(ErrCodeInvalidAttendance, "出席状态只能是Yes或No")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrStudentNotFound = New(ErrCodeStudentNotFound, "学生不存在")
	ErrTutorNotFound   = New(ErrCodeTutorNotFound, "导师不存在")
	ErrCourseNotFound  = New(ErrCodeCourseNotFound, "课程不存在")
	ErrSlotNotFound    = New(ErrCodeSlotNotFound, "该时段不存在")
	ErrBookingNotFound = New(ErrCodeBookingNotFound, "预约不存在或不是Confirmed状态")

	// 业务规则冲突
	ErrDuplicateBooking  = New(ErrCodeDuplicateBooking, "已预约过该时段")
	ErrSameTutorSameDay  = New(ErrCodeSameTutorSameDay, "当天已预约该导师的同一课程")
	ErrTimeOverlap       = New(ErrCodeTimeOverlap, "与已有预约时间重叠")
	ErrSameCourseSameDay = New(ErrCodeSameCourseSameDay, "当天已预约过该课程")
	ErrReviewExists      = New(ErrCodeReviewExists, "已评价过该预约")
	ErrEmailDuplicate    = New(ErrCodeEmailDuplicate, "邮箱已被注册")

	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 资源繁忙
	ErrServerBusy = New(ErrCodeServerBusy, "系统繁忙，请稍后重试")
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
