package booking

import (
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// 预约领域错误定义
var (
	// ErrBookingNotFound 预约不存在或不是Confirmed状态
	// 取消接口用同一个错误掩盖"不存在"和"不属于你":防止预约ID被探测
	ErrBookingNotFound = apperrors.ErrBookingNotFound

	// ErrDuplicateBooking 已有同一时段的Confirmed预约
	ErrDuplicateBooking = apperrors.ErrDuplicateBooking

	// ErrSameTutorSameDay 当天已预约同一导师的同一课程
	ErrSameTutorSameDay = apperrors.ErrSameTutorSameDay

	// ErrTimeOverlap 与当天已有预约时间重叠
	ErrTimeOverlap = apperrors.ErrTimeOverlap

	// ErrSameCourseSameDay 当天已预约同一课程
	ErrSameCourseSameDay = apperrors.ErrSameCourseSameDay

	// ErrInvalidStatusTransition 非法状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeConflict, "预约状态不允许此操作")
)
