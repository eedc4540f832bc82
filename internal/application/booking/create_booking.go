package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/tutorup/internal/domain/booking"
	"github.com/xiebiao/tutorup/internal/domain/slot"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
	"github.com/xiebiao/tutorup/pkg/metrics"
	"github.com/xiebiao/tutorup/pkg/tracing"
)

// CreateBookingUseCase 创建预约用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、两级并发控制(学生锁+时段行锁)、业务规则校验
type CreateBookingUseCase struct {
	bookingRepo booking.Repository
	slotRepo    slot.Repository
	studentLock *mysql.StudentLock
	txManager   *mysql.TxManager
	publisher   EventPublisher
}

// NewCreateBookingUseCase 创建预约用例
func NewCreateBookingUseCase(
	bookingRepo booking.Repository,
	slotRepo slot.Repository,
	studentLock *mysql.StudentLock,
	txManager *mysql.TxManager,
	publisher EventPublisher,
) *CreateBookingUseCase {
	return &CreateBookingUseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		studentLock: studentLock,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// CreateBookingRequest 预约请求DTO
type CreateBookingRequest struct {
	StudentID uint // 学生ID(从JWT中提取,绝不信任请求体)
	SlotID    uint // 目标时段ID
}

// CreateBookingResponse 预约响应DTO
type CreateBookingResponse struct {
	BookingID  uint   `json:"booking_id"`
	SlotID     uint   `json:"slot_id"`
	Status     string `json:"status"`
	SlotStatus string `json:"slot_status"` // 本次预约后时段的状态
	CreatedAt  string `json:"created_at"`
}

// Execute 执行预约用例
// 教学重点:防止名额超卖 + 防止学生并发绕过冲突规则
//
// 核心问题一:名额超卖
// 场景:时段容量1,两个学生同时预约
// 错误实现:先COUNT再INSERT,两个请求都数到0,各自插入,卖出2个名额
// 正确实现:SELECT FOR UPDATE锁定时段行,计数和插入在锁内完成
//
// 核心问题二:单学生并发绕过规则
// 场景:同一学生并发预约两个时间重叠的不同时段
// 时段行锁防不住:两个请求锁的是不同的行
// 正确实现:以学生为粒度再加一把锁(GET_LOCK命名锁),
// 使同一学生的预约/取消串行执行
//
// 事务内步骤:
// 1. 获取学生锁(超时 → 503)
// 2. 锁定时段行(FOR UPDATE)
// 3. 状态检查:必须Open且未过期
// 4. 重复预约检查(先清理旧的Cancelled记录)
// 5. 当天冲突规则校验(一次查询+内存评估)
// 6. 插入预约,重算名额,同步时段状态
func (uc *CreateBookingUseCase) Execute(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "booking", "CreateBooking")
	defer span.End()
	span.SetAttributes(
		attribute.Int("student_id", int(req.StudentID)),
		attribute.Int("slot_id", int(req.SlotID)),
	)

	metrics.IncGauge(metrics.BookingsInProgress)
	defer metrics.DecGauge(metrics.BookingsInProgress)

	start := time.Now()
	defer func() {
		metrics.ObserveHistogram(metrics.BookingCreationDuration, time.Since(start).Seconds())
	}()

	var newBooking *booking.Booking
	var targetSlot *slot.Slot
	var slotStatus slot.Status

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// ========================================
		// 步骤1:获取学生锁
		// ========================================
		// 教学要点:锁绑定在事务连接上,事务结束前持续有效
		// 等待超时说明该学生有另一个预约/取消在进行,返回503让客户端重试
		if err := uc.studentLock.Acquire(txCtx, req.StudentID); err != nil {
			return err
		}
		defer uc.studentLock.Release(txCtx, req.StudentID)

		// ========================================
		// 步骤2:锁定时段行(悲观锁,防止并发超卖)
		// ========================================
		// LockByID执行:SELECT * FROM availability_slots WHERE id = ? FOR UPDATE
		// 同一时段的并发预约在这里排队
		s, err := uc.slotRepo.LockByID(txCtx, req.SlotID)
		if err != nil {
			return err
		}
		targetSlot = s

		// ========================================
		// 步骤3:状态检查
		// ========================================
		// 教学要点:必须在锁定后检查,锁定前读到的Open可能已经过期
		if !s.IsOpen() {
			return slot.ErrSlotNotOpen
		}

		// 过期时段不可预约(今天之前的日期)
		if beforeToday(s.Date) {
			return slot.ErrSlotNotOpen
		}

		// ========================================
		// 步骤4:重复预约检查
		// ========================================
		// 先清理该(学生,时段)对的旧Cancelled记录:取消后重新预约是合法操作,
		// 清理后一对(学生,时段)最多保留一条记录
		if err := uc.bookingRepo.DeleteCancelled(txCtx, req.StudentID, req.SlotID); err != nil {
			return err
		}

		exists, err := uc.bookingRepo.HasConfirmed(txCtx, req.StudentID, req.SlotID)
		if err != nil {
			return err
		}
		if exists {
			return booking.ErrDuplicateBooking
		}

		// ========================================
		// 步骤5:当天冲突规则校验
		// ========================================
		// 一次查询加载学生当天全部Confirmed预约,规则在内存中按固定顺序评估
		// 学生锁保证校验期间该学生不会有并发写入
		sameDay, err := uc.bookingRepo.ListSameDayConfirmed(txCtx, req.StudentID, s.Date)
		if err != nil {
			return err
		}
		if err := booking.CheckDayConflicts(s, sameDay); err != nil {
			return err
		}

		// ========================================
		// 步骤6:插入预约 + 同步时段状态
		// ========================================
		b := booking.NewBooking(req.SlotID, req.StudentID)
		if err := uc.bookingRepo.Create(txCtx, b); err != nil {
			return err
		}

		// 重算名额:时段行锁还在手里,计数不会被并发修改
		confirmed, err := uc.bookingRepo.CountConfirmedBySlot(txCtx, req.SlotID)
		if err != nil {
			return err
		}

		slotStatus = s.DeriveStatus(int(confirmed))
		if slotStatus != s.Status {
			if err := uc.slotRepo.UpdateStatus(txCtx, req.SlotID, slotStatus); err != nil {
				return err
			}
			metrics.IncCounterVec(metrics.SlotStatusTransitionsTotal, map[string]string{"to": string(slotStatus)})
		}

		newBooking = b
		return nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordRejection(err)
		return nil, err
	}

	metrics.IncCounter(metrics.BookingsCreatedTotal)

	// 事务提交后发布事件(尽力而为,失败只记日志)
	uc.publishCreated(ctx, newBooking, targetSlot)

	return &CreateBookingResponse{
		BookingID:  newBooking.ID,
		SlotID:     newBooking.SlotID,
		Status:     string(newBooking.Status),
		SlotStatus: string(slotStatus),
		CreatedAt:  newBooking.CreatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}

// publishCreated 发布预约成功事件
// 教学要点:必须在事务提交之后发布,否则消费者可能先于提交看到事件
// (读库查不到预约),甚至事务最终回滚,事件变成幽灵消息
func (uc *CreateBookingUseCase) publishCreated(ctx context.Context, b *booking.Booking, s *slot.Slot) {
	event := &BookingCreatedEvent{
		BookingID: b.ID,
		SlotID:    s.ID,
		StudentID: b.StudentID,
		TutorID:   s.TutorID,
		CourseID:  s.CourseID,
		Date:      s.Date.Format("2006-01-02"),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		CreatedAt: b.CreatedAt,
	}

	if err := uc.publisher.PublishBookingCreated(ctx, event); err != nil {
		log.Printf("[WARN] 发布预约事件失败 booking_id=%d: %v", b.ID, err)
	}
}

// recordRejection 按拒绝原因记录指标
func recordRejection(err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return
	}

	var reason string
	switch appErr.Code {
	case apperrors.ErrCodeDuplicateBooking:
		reason = "duplicate"
	case apperrors.ErrCodeSameTutorSameDay:
		reason = "same_tutor"
	case apperrors.ErrCodeTimeOverlap:
		reason = "overlap"
	case apperrors.ErrCodeSameCourseSameDay:
		reason = "same_course"
	case apperrors.ErrCodeSlotNotOpen:
		reason = "slot_closed"
	case apperrors.ErrCodeServerBusy:
		reason = "busy"
	default:
		return
	}

	metrics.IncCounterVec(metrics.BookingsRejectedTotal, map[string]string{"reason": reason})
}

// beforeToday 日期是否早于今天(按日比较,忽略时分秒)
func beforeToday(d time.Time) bool {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, d.Location())
	return d.Before(today)
}
