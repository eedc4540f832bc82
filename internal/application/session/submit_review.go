package session

import (
	"context"

	"github.com/xiebiao/tutorup/internal/domain/booking"
	"github.com/xiebiao/tutorup/internal/domain/session"
	"github.com/xiebiao/tutorup/internal/domain/slot"
	"github.com/xiebiao/tutorup/internal/domain/tutor"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/mysql"
)

// SubmitReviewUseCase 提交评价用例
// 业务规则:
// 1. 只能评价自己的预约
// 2. 出席记录必须为Yes(没出席没资格评价)
// 3. 一条预约只能评价一次
// 4. 评价写入后在同一事务内重算导师平均评分
type SubmitReviewUseCase struct {
	sessionRepo session.Repository
	bookingRepo booking.Repository
	slotRepo    slot.Repository
	tutorRepo   tutor.Repository
	txManager   *mysql.TxManager
}

// NewSubmitReviewUseCase 创建提交评价用例
func NewSubmitReviewUseCase(
	sessionRepo session.Repository,
	bookingRepo booking.Repository,
	slotRepo slot.Repository,
	tutorRepo tutor.Repository,
	txManager *mysql.TxManager,
) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		tutorRepo:   tutorRepo,
		txManager:   txManager,
	}
}

// SubmitReviewRequest 提交评价请求DTO
type SubmitReviewRequest struct {
	StudentID uint   // 学生ID(从JWT中提取)
	BookingID uint   // 预约ID
	Rating    int    // 1-5
	Comment   string // 评价内容
}

// SubmitReviewResponse 提交评价响应DTO
type SubmitReviewResponse struct {
	BookingID    uint    `json:"booking_id"`
	Rating       int     `json:"rating"`
	ReviewDate   string  `json:"review_date"`
	TutorAverage float64 `json:"tutor_average"` // 重算后的导师平均评分
}

// Execute 执行提交评价
// 教学要点:
// 1. 出席门槛和重复评价是check-then-act,竞态窗口由reviews表的主键兜底:
//    两个并发请求最多一个INSERT成功,另一个收到主键冲突 → ErrReviewExists
// 2. 平均分重算放在插入评价的同一事务内,保证rating_average与reviews一致
func (uc *SubmitReviewUseCase) Execute(ctx context.Context, req SubmitReviewRequest) (*SubmitReviewResponse, error) {
	// 1. 评分范围校验
	if !session.IsValidRating(req.Rating) {
		return nil, session.ErrInvalidRating
	}

	// 2. 归属校验
	b, err := uc.bookingRepo.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(req.StudentID) {
		return nil, booking.ErrBookingNotFound
	}

	// 3. 出席门槛:Attended必须为Yes
	attendance, err := uc.sessionRepo.FindAttendance(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if attendance == nil || attendance.Attended != session.AttendedYes {
		return nil, session.ErrAttendanceRequired
	}

	// 4. 重复评价预检(友好失败;真正的保证是主键)
	exists, err := uc.sessionRepo.HasReview(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, session.ErrReviewExists
	}

	// 5. 定位导师(评价落在预约 → 时段 → 导师链上)
	s, err := uc.slotRepo.FindByID(ctx, b.SlotID)
	if err != nil {
		return nil, err
	}

	// 6. 事务:插入评价 + 重算导师平均评分
	review := session.NewReview(req.BookingID, req.Rating, req.Comment)
	var average float64
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.sessionRepo.CreateReview(txCtx, review); err != nil {
			return err
		}

		avg, err := uc.sessionRepo.AverageRatingByTutor(txCtx, s.TutorID)
		if err != nil {
			return err
		}
		average = avg

		return uc.tutorRepo.UpdateRatingAverage(txCtx, s.TutorID, avg)
	})
	if err != nil {
		return nil, err
	}

	return &SubmitReviewResponse{
		BookingID:    review.BookingID,
		Rating:       review.Rating,
		ReviewDate:   review.ReviewDate.Format("2006-01-02 15:04:05"),
		TutorAverage: average,
	}, nil
}
