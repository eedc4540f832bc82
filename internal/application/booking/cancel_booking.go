package booking

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xiebiao/tutorup/internal/domain/booking"
	"github.com/xiebiao/tutorup/internal/domain/slot"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/tutorup/pkg/metrics"
	"github.com/xiebiao/tutorup/pkg/tracing"
)

// CancelBookingUseCase 取消预约用例
// 取消是预约的镜像操作:释放名额后时段可能从Closed回到Open
type CancelBookingUseCase struct {
	bookingRepo booking.Repository
	slotRepo    slot.Repository
	studentLock *mysql.StudentLock
	txManager   *mysql.TxManager
	publisher   EventPublisher
}

// NewCancelBookingUseCase 创建取消预约用例
func NewCancelBookingUseCase(
	bookingRepo booking.Repository,
	slotRepo slot.Repository,
	studentLock *mysql.StudentLock,
	txManager *mysql.TxManager,
	publisher EventPublisher,
) *CancelBookingUseCase {
	return &CancelBookingUseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		studentLock: studentLock,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// CancelBookingRequest 取消预约请求DTO
type CancelBookingRequest struct {
	StudentID uint // 学生ID(从JWT中提取)
	BookingID uint // 要取消的预约ID
}

// CancelBookingResponse 取消预约响应DTO
type CancelBookingResponse struct {
	BookingID  uint   `json:"booking_id"`
	Status     string `json:"status"`
	SlotStatus string `json:"slot_status"` // 取消后时段的状态
}

// Execute 执行取消预约
//
// 事务内步骤:
// 1. 获取学生锁(与预约共用同一把锁,同一学生的预约/取消串行)
// 2. 锁定预约行:WHERE id AND student_id AND status='Confirmed' FOR UPDATE
//    不存在/不属于该学生/已取消统一返回404
// 3. 锁定时段行(FOR UPDATE)
// 4. 状态转换Confirmed → Cancelled
// 5. 重算名额,同步时段状态(满员时段释放一个名额后回到Open)
//
// 锁顺序说明:预约事务只锁时段行,取消事务先锁预约行再锁时段行,
// 两条路径对时段行的加锁顺序一致,不会互相死锁
func (uc *CancelBookingUseCase) Execute(ctx context.Context, req CancelBookingRequest) (*CancelBookingResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "booking", "CancelBooking")
	defer span.End()
	span.SetAttributes(
		attribute.Int("student_id", int(req.StudentID)),
		attribute.Int("booking_id", int(req.BookingID)),
	)

	var cancelled *booking.Booking
	var targetSlot *slot.Slot
	var slotStatus slot.Status

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 学生锁
		if err := uc.studentLock.Acquire(txCtx, req.StudentID); err != nil {
			return err
		}
		defer uc.studentLock.Release(txCtx, req.StudentID)

		// 2. 锁定预约行(带归属与状态条件)
		b, err := uc.bookingRepo.LockConfirmed(txCtx, req.BookingID, req.StudentID)
		if err != nil {
			return err
		}

		// 3. 锁定时段行(名额重算在这把锁的保护下进行)
		s, err := uc.slotRepo.LockByID(txCtx, b.SlotID)
		if err != nil {
			return err
		}
		targetSlot = s

		// 4. 状态机转换
		if err := b.Cancel(); err != nil {
			return err
		}
		if err := uc.bookingRepo.UpdateStatus(txCtx, b.ID, b.Status); err != nil {
			return err
		}

		// 5. 重算名额,同步时段状态
		confirmed, err := uc.bookingRepo.CountConfirmedBySlot(txCtx, b.SlotID)
		if err != nil {
			return err
		}

		slotStatus = s.DeriveStatus(int(confirmed))
		if slotStatus != s.Status {
			if err := uc.slotRepo.UpdateStatus(txCtx, b.SlotID, slotStatus); err != nil {
				return err
			}
			metrics.IncCounterVec(metrics.SlotStatusTransitionsTotal, map[string]string{"to": string(slotStatus)})
		}

		cancelled = b
		return nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.IncCounter(metrics.BookingsCancelledTotal)

	// 事务提交后发布事件
	event := &BookingCancelledEvent{
		BookingID:   cancelled.ID,
		SlotID:      targetSlot.ID,
		StudentID:   cancelled.StudentID,
		TutorID:     targetSlot.TutorID,
		CancelledAt: time.Now(),
	}
	if err := uc.publisher.PublishBookingCancelled(ctx, event); err != nil {
		log.Printf("[WARN] 发布取消事件失败 booking_id=%d: %v", cancelled.ID, err)
	}

	return &CancelBookingResponse{
		BookingID:  cancelled.ID,
		Status:     string(cancelled.Status),
		SlotStatus: string(slotStatus),
	}, nil
}
