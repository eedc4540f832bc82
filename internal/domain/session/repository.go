package session

import (
	"context"
)

// Repository 出席与评价仓储接口
type Repository interface {
	// UpsertAttendance 写入出席记录(已存在则覆盖Attended和MarkedAt)
	// ON DUPLICATE KEY UPDATE语义
	UpsertAttendance(ctx context.Context, a *Attendance) error

	// FindAttendance 查询预约的出席记录
	// 不存在时返回(nil, nil):无记录是正常状态,不是错误
	FindAttendance(ctx context.Context, bookingID uint) (*Attendance, error)

	// CreateReview 插入评价
	// 已存在(主键冲突)时返回ErrReviewExists
	CreateReview(ctx context.Context, r *Review) error

	// HasReview 预约是否已有评价
	HasReview(ctx context.Context, bookingID uint) (bool, error)

	// AverageRatingByTutor 计算导师的平均评分
	// reviews join bookings join availability_slots WHERE tutor_id = ?
	// 没有评价时返回(0, nil)
	AverageRatingByTutor(ctx context.Context, tutorID uint) (float64, error)
}
