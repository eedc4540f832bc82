package booking

import (
	"context"
	"time"
)

// BookingCreatedEvent 预约成功事件
// 下游消费者(通知服务)据此发送确认邮件/提醒
type BookingCreatedEvent struct {
	BookingID uint      `json:"booking_id"`
	SlotID    uint      `json:"slot_id"`
	StudentID uint      `json:"student_id"`
	TutorID   uint      `json:"tutor_id"`
	CourseID  uint      `json:"course_id"`
	Date      string    `json:"date"`       // "2006-01-02"
	StartTime string    `json:"start_time"` // "HH:MM:SS"
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingCancelledEvent 预约取消事件
type BookingCancelledEvent struct {
	BookingID   uint      `json:"booking_id"`
	SlotID      uint      `json:"slot_id"`
	StudentID   uint      `json:"student_id"`
	TutorID     uint      `json:"tutor_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// EventPublisher 预约事件发布接口
// 设计说明:
// 1. 接口定义在应用层,实现在infrastructure/mq(依赖倒置)
// 2. 事件发布在事务提交之后,失败只记日志不回滚:
//    预约本身已经生效,通知是尽力而为的增值服务
// 3. MQ关闭时注入Noop实现,用例代码无需感知
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, event *BookingCreatedEvent) error
	PublishBookingCancelled(ctx context.Context, event *BookingCancelledEvent) error
}
