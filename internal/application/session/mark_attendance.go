package session

import (
	"context"

	"github.com/xiebiao/tutorup/internal/domain/booking"
	"github.com/xiebiao/tutorup/internal/domain/session"
	"github.com/xiebiao/tutorup/internal/domain/slot"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// MarkAttendanceUseCase 标记出席用例
// 设计说明:
// 1. 学生变体:按bookingID标记自己的预约
// 2. 导师变体:按(studentID, slotID)标记,时段必须属于该导师
// 3. upsert语义:重复标记覆盖旧值,不加行锁(低冲突,最后写入者赢)
type MarkAttendanceUseCase struct {
	sessionRepo session.Repository
	bookingRepo booking.Repository
	slotRepo    slot.Repository
}

// NewMarkAttendanceUseCase 创建标记出席用例
func NewMarkAttendanceUseCase(
	sessionRepo session.Repository,
	bookingRepo booking.Repository,
	slotRepo slot.Repository,
) *MarkAttendanceUseCase {
	return &MarkAttendanceUseCase{
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
	}
}

// MarkByStudentRequest 学生标记出席请求DTO
type MarkByStudentRequest struct {
	StudentID uint   // 学生ID(从JWT中提取)
	BookingID uint   // 预约ID
	Attended  string // Yes / No
}

// MarkByTutorRequest 导师标记出席请求DTO
type MarkByTutorRequest struct {
	TutorID   uint   // 导师ID(从JWT中提取)
	StudentID uint   // 学生ID
	SlotID    uint   // 时段ID
	Attended  string // Yes / No
}

// MarkAttendanceResponse 标记出席响应DTO
type MarkAttendanceResponse struct {
	BookingID uint   `json:"booking_id"`
	Attended  string `json:"attended"`
	MarkedAt  string `json:"marked_at"`
}

// ExecuteByStudent 学生标记自己的出席
func (uc *MarkAttendanceUseCase) ExecuteByStudent(ctx context.Context, req MarkByStudentRequest) (*MarkAttendanceResponse, error) {
	if !session.IsValidAttended(req.Attended) {
		return nil, session.ErrInvalidAttendance
	}

	// 归属校验:只能标记自己的预约
	b, err := uc.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(req.StudentID) {
		// 不暴露他人预约的存在性
		return nil, booking.ErrBookingNotFound
	}

	return uc.upsert(ctx, b.ID, req.Attended)
}

// ExecuteByTutor 导师按(学生,时段)标记出席
func (uc *MarkAttendanceUseCase) ExecuteByTutor(ctx context.Context, req MarkByTutorRequest) (*MarkAttendanceResponse, error) {
	if !session.IsValidAttended(req.Attended) {
		return nil, session.ErrInvalidAttendance
	}

	// 时段归属校验:只能标记自己时段上的出席
	s, err := uc.slotRepo.FindByID(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}
	if s.TutorID != req.TutorID {
		return nil, apperrors.ErrForbidden
	}

	// 定位该学生在该时段的有效预约
	b, err := uc.bookingRepo.FindByStudentAndSlot(ctx, req.StudentID, req.SlotID)
	if err != nil {
		return nil, err
	}

	return uc.upsert(ctx, b.ID, req.Attended)
}

func (uc *MarkAttendanceUseCase) upsert(ctx context.Context, bookingID uint, attended string) (*MarkAttendanceResponse, error) {
	a := session.NewAttendance(bookingID, attended)
	if err := uc.sessionRepo.UpsertAttendance(ctx, a); err != nil {
		return nil, err
	}

	return &MarkAttendanceResponse{
		BookingID: a.BookingID,
		Attended:  a.Attended,
		MarkedAt:  a.MarkedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
