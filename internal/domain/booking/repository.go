package booking

import (
	"context"
	"time"
)

// SessionView 课程会话视图(学生/导师"我的课程"列表用)
// 一行 = 一条预约join时段、课程、对方姓名,历史记录再join出席与评价
type SessionView struct {
	BookingID   uint
	Status      Status
	Date        time.Time
	StartTime   string
	EndTime     string
	Location    string
	CourseCode  string
	CourseName  string
	TutorName   string // 学生视角填充
	StudentName string // 导师视角填充
	Attended    string // 历史记录:Yes/No/""(无记录)
	Rating      int    // 历史记录:0表示未评价
}

// SessionSort 会话列表排序选项(白名单,防SQL注入)
type SessionSort string

const (
	SortByDate    SessionSort = "date"    // 按日期时间(默认)
	SortByTutor   SessionSort = "tutor"   // 按导师姓名(学生视角)
	SortByStudent SessionSort = "student" // 按学生姓名(导师视角)
	SortByCourse  SessionSort = "course"  // 按课程名称
)

// Repository 预约仓储接口
// 写方法(Create/LockConfirmed/UpdateStatus/DeleteCancelled)必须在
// TxManager事务内调用;读方法(List*/Count*)是普通的已提交读
type Repository interface {
	// Create 创建预约
	Create(ctx context.Context, b *Booking) error

	// FindByID 根据ID查找预约
	// 如果不存在，返回ErrBookingNotFound
	FindByID(ctx context.Context, id uint) (*Booking, error)

	// LockConfirmed 锁定某学生的某条Confirmed预约(SELECT ... FOR UPDATE)
	// WHERE booking_id = ? AND student_id = ? AND status = 'Confirmed'
	// 找不到(不存在/不属于该学生/已取消)统一返回ErrBookingNotFound
	LockConfirmed(ctx context.Context, bookingID, studentID uint) (*Booking, error)

	// UpdateStatus 更新预约状态
	UpdateStatus(ctx context.Context, bookingID uint, status Status) error

	// HasConfirmed 学生在该时段是否已有Confirmed预约
	HasConfirmed(ctx context.Context, studentID, slotID uint) (bool, error)

	// FindByStudentAndSlot 查找学生在该时段的有效预约(Confirmed或Completed)
	// 导师按(学生,时段)标记出席时用;找不到返回ErrBookingNotFound
	FindByStudentAndSlot(ctx context.Context, studentID, slotID uint) (*Booking, error)

	// DeleteCancelled 删除学生在该时段的Cancelled记录(重新预约前清理)
	DeleteCancelled(ctx context.Context, studentID, slotID uint) error

	// CountConfirmedBySlot 统计时段的Confirmed预约数(名额重算)
	CountConfirmedBySlot(ctx context.Context, slotID uint) (int64, error)

	// ListSameDayConfirmed 加载学生当天全部Confirmed预约(join时段信息)
	// 供CheckDayConflicts在内存中评估规则
	ListSameDayConfirmed(ctx context.Context, studentID uint, date time.Time) ([]DayBooking, error)

	// ListStudentSessions 学生的课程会话列表
	// upcoming=true: 今天及以后的Confirmed预约
	// upcoming=false: 过去的预约(含出席与评价信息)
	ListStudentSessions(ctx context.Context, studentID uint, upcoming bool, sort SessionSort) ([]*SessionView, error)

	// ListTutorSessions 导师的课程会话列表
	ListTutorSessions(ctx context.Context, tutorID uint, upcoming bool, sort SessionSort) ([]*SessionView, error)
}
