package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/tutorup/internal/domain/booking"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// bookingRepository 预约仓储实现(MySQL)
// 设计说明:
// 1. 写方法通过getDB(ctx)参与TxManager事务
// 2. LockConfirmed把"存在性+归属+状态"三个条件合进一条FOR UPDATE查询,
//    对应取消事务的入口锁
// 3. 会话列表查询用排序白名单,拒绝任何未知排序字段
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预约仓储
func NewBookingRepository(db *gorm.DB) booking.Repository {
	return &bookingRepository{db: db}
}

// Create 创建预约
func (r *bookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	model := &BookingModel{
		Status:    string(b.Status),
		SlotID:    b.SlotID,
		StudentID: b.StudentID,
		CreatedAt: b.CreatedAt,
	}

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建预约失败")
	}

	b.ID = model.ID
	return nil
}

// FindByID 根据ID查找预约
func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*booking.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.Wrap(err, "查询预约失败")
	}

	return toBookingEntity(&model), nil
}

// LockConfirmed 锁定某学生的某条Confirmed预约(SELECT ... FOR UPDATE)
// 教学要点:
// 1. WHERE条件同时包含归属(student_id)和状态(Confirmed),
//    不存在、不属于该学生、已取消三种情况统一返回ErrBookingNotFound,
//    调用方无法通过错误差异探测他人的预约
// 2. 必须在TxManager事务内调用
func (r *bookingRepository) LockConfirmed(ctx context.Context, bookingID, studentID uint) (*booking.Booking, error) {
	var model BookingModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND student_id = ? AND status = ?", bookingID, studentID, string(booking.StatusConfirmed)).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.Wrap(err, "锁定预约失败")
	}

	return toBookingEntity(&model), nil
}

// UpdateStatus 更新预约状态
func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uint, status booking.Status) error {
	db := r.getDB(ctx)
	result := db.Model(&BookingModel{}).
		Where("id = ?", bookingID).
		Update("status", string(status))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新预约状态失败")
	}

	if result.RowsAffected == 0 {
		return booking.ErrBookingNotFound
	}

	return nil
}

// HasConfirmed 学生在该时段是否已有Confirmed预约
func (r *bookingRepository) HasConfirmed(ctx context.Context, studentID, slotID uint) (bool, error) {
	var count int64
	db := r.getDB(ctx)
	err := db.Model(&BookingModel{}).
		Where("student_id = ? AND slot_id = ? AND status = ?", studentID, slotID, string(booking.StatusConfirmed)).
		Count(&count).Error

	if err != nil {
		return false, apperrors.Wrap(err, "查询重复预约失败")
	}

	return count > 0, nil
}

// FindByStudentAndSlot 查找学生在该时段的有效预约(Confirmed或Completed)
func (r *bookingRepository) FindByStudentAndSlot(ctx context.Context, studentID, slotID uint) (*booking.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND slot_id = ? AND status IN ?",
			studentID, slotID, []string{string(booking.StatusConfirmed), string(booking.StatusCompleted)}).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, apperrors.Wrap(err, "查询预约失败")
	}

	return toBookingEntity(&model), nil
}

// DeleteCancelled 删除学生在该时段的Cancelled记录
// 重新预约前清理旧记录,一条(student, slot)对最多保留一条有效预约
func (r *bookingRepository) DeleteCancelled(ctx context.Context, studentID, slotID uint) error {
	db := r.getDB(ctx)
	err := db.Where("student_id = ? AND slot_id = ? AND status = ?", studentID, slotID, string(booking.StatusCancelled)).
		Delete(&BookingModel{}).Error

	if err != nil {
		return apperrors.Wrap(err, "清理已取消预约失败")
	}

	return nil
}

// CountConfirmedBySlot 统计时段的Confirmed预约数
// 教学要点:在时段行锁的保护下调用,计数结果直到事务提交都不会变
func (r *bookingRepository) CountConfirmedBySlot(ctx context.Context, slotID uint) (int64, error) {
	var count int64
	db := r.getDB(ctx)
	err := db.Model(&BookingModel{}).
		Where("slot_id = ? AND status = ?", slotID, string(booking.StatusConfirmed)).
		Count(&count).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "统计预约数失败")
	}

	return count, nil
}

// ListSameDayConfirmed 加载学生当天全部Confirmed预约(join时段信息)
// 一次查询取回规则校验需要的全部字段,冲突判断在内存中完成
func (r *bookingRepository) ListSameDayConfirmed(ctx context.Context, studentID uint, date time.Time) ([]booking.DayBooking, error) {
	var rows []booking.DayBooking
	db := r.getDB(ctx)
	err := db.Table("bookings").
		Select("bookings.id AS booking_id, "+
			"bookings.slot_id, "+
			"availability_slots.start_time, "+
			"availability_slots.end_time, "+
			"availability_slots.tutor_id, "+
			"availability_slots.course_id").
		Joins("JOIN availability_slots ON availability_slots.id = bookings.slot_id").
		Where("bookings.student_id = ? AND bookings.status = ?", studentID, string(booking.StatusConfirmed)).
		Where("availability_slots.date = ?", date.Format("2006-01-02")).
		Scan(&rows).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询当天预约失败")
	}

	return rows, nil
}

// sessionRow 会话列表查询的扫描目标
type sessionRow struct {
	BookingID   uint
	Status      string
	Date        time.Time
	StartTime   string
	EndTime     string
	Location    string
	CourseCode  string
	CourseName  string
	TutorName   string
	StudentName string
	Attended    *string
	Rating      *int
}

// ListStudentSessions 学生的课程会话列表
func (r *bookingRepository) ListStudentSessions(ctx context.Context, studentID uint, upcoming bool, sort booking.SessionSort) ([]*booking.SessionView, error) {
	query := r.sessionBaseQuery(ctx).
		Select(sessionSelectColumns + ", tutors.full_name AS tutor_name, '' AS student_name").
		Joins("JOIN tutors ON tutors.id = availability_slots.tutor_id").
		Where("bookings.student_id = ?", studentID)

	query = applySessionFilter(query, upcoming)
	query = applySessionSort(query, sort, "tutors.full_name")

	return r.scanSessions(query)
}

// ListTutorSessions 导师的课程会话列表
func (r *bookingRepository) ListTutorSessions(ctx context.Context, tutorID uint, upcoming bool, sort booking.SessionSort) ([]*booking.SessionView, error) {
	query := r.sessionBaseQuery(ctx).
		Select(sessionSelectColumns + ", '' AS tutor_name, students.full_name AS student_name").
		Joins("JOIN students ON students.id = bookings.student_id").
		Where("availability_slots.tutor_id = ?", tutorID)

	query = applySessionFilter(query, upcoming)
	query = applySessionSort(query, sort, "students.full_name")

	return r.scanSessions(query)
}

// 会话列表的公共列(双方视角共享)
const sessionSelectColumns = "bookings.id AS booking_id, " +
	"bookings.status, " +
	"availability_slots.date, " +
	"availability_slots.start_time, " +
	"availability_slots.end_time, " +
	"availability_slots.location, " +
	"courses.course_code, " +
	"courses.course_name, " +
	"attendances.attended, " +
	"reviews.rating"

// sessionBaseQuery 会话列表的公共join
// 出席与评价用LEFT JOIN:未标记/未评价是正常状态
func (r *bookingRepository) sessionBaseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("bookings").
		Joins("JOIN availability_slots ON availability_slots.id = bookings.slot_id").
		Joins("JOIN courses ON courses.id = availability_slots.course_id").
		Joins("LEFT JOIN attendances ON attendances.booking_id = bookings.id").
		Joins("LEFT JOIN reviews ON reviews.booking_id = bookings.id")
}

// applySessionFilter upcoming/history过滤
// upcoming: 今天及以后的Confirmed预约; history: 今天以前的全部预约
func applySessionFilter(query *gorm.DB, upcoming bool) *gorm.DB {
	today := time.Now().Format("2006-01-02")
	if upcoming {
		return query.
			Where("availability_slots.date >= ?", today).
			Where("bookings.status = ?", string(booking.StatusConfirmed))
	}
	return query.Where("availability_slots.date < ?", today)
}

// applySessionSort 排序白名单
// 教学要点:排序字段来自用户输入,必须白名单映射,绝不能拼接进SQL
func applySessionSort(query *gorm.DB, sort booking.SessionSort, nameColumn string) *gorm.DB {
	switch sort {
	case booking.SortByTutor, booking.SortByStudent:
		return query.Order(nameColumn + " ASC, availability_slots.date ASC")
	case booking.SortByCourse:
		return query.Order("courses.course_name ASC, availability_slots.date ASC")
	default:
		return query.Order("availability_slots.date ASC, availability_slots.start_time ASC")
	}
}

func (r *bookingRepository) scanSessions(query *gorm.DB) ([]*booking.SessionView, error) {
	var rows []sessionRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询课程会话列表失败")
	}

	sessions := make([]*booking.SessionView, len(rows))
	for i, row := range rows {
		view := &booking.SessionView{
			BookingID:   row.BookingID,
			Status:      booking.Status(row.Status),
			Date:        row.Date,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			Location:    row.Location,
			CourseCode:  row.CourseCode,
			CourseName:  row.CourseName,
			TutorName:   row.TutorName,
			StudentName: row.StudentName,
		}
		// LEFT JOIN的空值表示"无记录",不是空字符串/零分
		if row.Attended != nil {
			view.Attended = *row.Attended
		}
		if row.Rating != nil {
			view.Rating = *row.Rating
		}
		sessions[i] = view
	}

	return sessions, nil
}

// toBookingEntity GORM模型 → 领域实体
func toBookingEntity(model *BookingModel) *booking.Booking {
	return &booking.Booking{
		ID:        model.ID,
		Status:    booking.Status(model.Status),
		SlotID:    model.SlotID,
		StudentID: model.StudentID,
		CreatedAt: model.CreatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *bookingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
