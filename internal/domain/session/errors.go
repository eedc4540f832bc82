package session

import (
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// 出席与评价领域错误定义
var (
	// ErrInvalidAttendance 出席状态只能是Yes或No
	ErrInvalidAttendance = apperrors.ErrInvalidAttendance

	// ErrInvalidRating 评分必须在1-5之间
	ErrInvalidRating = apperrors.ErrInvalidRating

	// ErrAttendanceRequired 出席记录为Yes后才能评价
	ErrAttendanceRequired = apperrors.ErrAttendanceRequired

	// ErrReviewExists 已评价过该预约
	ErrReviewExists = apperrors.ErrReviewExists
)
