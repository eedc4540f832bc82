package booking

import (
	"time"
)

// Status 预约状态
// 教学要点:
// 1. 使用string类型与数据库enum('Confirmed','Completed','Cancelled')对应
// 2. 没有"Pending":预约事务提交即确认,不存在中间态
type Status string

const (
	StatusConfirmed Status = "Confirmed" // 已确认(占用名额)
	StatusCompleted Status = "Completed" // 已完成(历史归档,不再占用名额判断之外的语义)
	StatusCancelled Status = "Cancelled" // 已取消(释放名额)
)

// Booking 预约实体(聚合根)
// 设计说明:
// 1. 只保存SlotID/StudentID,不直接持有Slot/Student对象(避免跨聚合引用)
// 2. 只有Confirmed状态的预约占用时段名额
type Booking struct {
	ID        uint
	Status    Status
	SlotID    uint
	StudentID uint
	CreatedAt time.Time
}

// NewBooking 创建新预约(工厂方法)
// 初始状态固定为Confirmed:预约一旦通过全部规则校验即生效
func NewBooking(slotID, studentID uint) *Booking {
	return &Booking{
		Status:    StatusConfirmed,
		SlotID:    slotID,
		StudentID: studentID,
		CreatedAt: time.Now(),
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
// 教学要点:状态机设计,防止非法状态跳转
// Cancelled和Completed都是终态
func (b *Booking) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusConfirmed: {StatusCompleted, StatusCancelled},
		StatusCompleted: {},
		StatusCancelled: {},
	}

	allowed, exists := transitions[b.Status]
	if !exists {
		return false
	}

	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (b *Booking) TransitionTo(target Status) error {
	if !b.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	b.Status = target
	return nil
}

// Cancel 取消预约(领域行为)
func (b *Booking) Cancel() error {
	return b.TransitionTo(StatusCancelled)
}

// Complete 完成预约(领域行为)
func (b *Booking) Complete() error {
	return b.TransitionTo(StatusCompleted)
}

// IsOwnedBy 检查预约是否属于指定学生
// 教学要点:权限校验,防止学生操作他人的预约
func (b *Booking) IsOwnedBy(studentID uint) bool {
	return b.StudentID == studentID
}
