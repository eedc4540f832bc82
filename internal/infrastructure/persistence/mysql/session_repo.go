package mysql

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/tutorup/internal/domain/session"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// sessionRepository 出席与评价仓储实现(MySQL)
// 设计说明:
// 1. 出席是upsert语义(ON DUPLICATE KEY UPDATE),重复标记覆盖旧值
// 2. 评价是insert-once语义,主键冲突转换为ErrReviewExists
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建出席与评价仓储
func NewSessionRepository(db *gorm.DB) session.Repository {
	return &sessionRepository{db: db}
}

// UpsertAttendance 写入出席记录(已存在则覆盖)
// 教学要点:clause.OnConflict生成INSERT ... ON DUPLICATE KEY UPDATE,
// 一条SQL完成"不存在插入、存在覆盖",天然无竞态
func (r *sessionRepository) UpsertAttendance(ctx context.Context, a *session.Attendance) error {
	model := &AttendanceModel{
		BookingID: a.BookingID,
		Attended:  a.Attended,
		MarkedAt:  a.MarkedAt,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"attended", "marked_at"}),
	}).Create(model).Error

	if err != nil {
		return apperrors.Wrap(err, "写入出席记录失败")
	}

	return nil
}

// FindAttendance 查询预约的出席记录
// 不存在时返回(nil, nil):无记录是正常状态
func (r *sessionRepository) FindAttendance(ctx context.Context, bookingID uint) (*session.Attendance, error) {
	var model AttendanceModel
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询出席记录失败")
	}

	return &session.Attendance{
		BookingID: model.BookingID,
		Attended:  model.Attended,
		MarkedAt:  model.MarkedAt,
	}, nil
}

// CreateReview 插入评价
// 主键(booking_id)冲突时返回ErrReviewExists
func (r *sessionRepository) CreateReview(ctx context.Context, rv *session.Review) error {
	model := &ReviewModel{
		BookingID:  rv.BookingID,
		Rating:     rv.Rating,
		Comment:    rv.Comment,
		ReviewDate: rv.ReviewDate,
	}

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return session.ErrReviewExists
		}
		return apperrors.Wrap(err, "创建评价失败")
	}

	return nil
}

// HasReview 预约是否已有评价
func (r *sessionRepository) HasReview(ctx context.Context, bookingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error

	if err != nil {
		return false, apperrors.Wrap(err, "查询评价失败")
	}

	return count > 0, nil
}

// AverageRatingByTutor 计算导师的平均评分
// reviews → bookings → availability_slots,按tutor_id过滤
// 教学要点:在评价写入的同一事务内调用(getDB),保证均值包含刚插入的评分
func (r *sessionRepository) AverageRatingByTutor(ctx context.Context, tutorID uint) (float64, error) {
	var avg sql.NullFloat64
	db := r.getDB(ctx)
	err := db.Table("reviews").
		Select("AVG(reviews.rating)").
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Joins("JOIN availability_slots ON availability_slots.id = bookings.slot_id").
		Where("availability_slots.tutor_id = ?", tutorID).
		Scan(&avg).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "计算平均评分失败")
	}

	// 没有评价时AVG返回NULL
	if !avg.Valid {
		return 0, nil
	}

	return avg.Float64, nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *sessionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
