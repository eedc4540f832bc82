package slot

import (
	"context"
	"time"

	"github.com/xiebiao/tutorup/internal/domain/slot"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// ListSlotsUseCase 时段列表用例(学生浏览可预约时段)
type ListSlotsUseCase struct {
	slotRepo slot.Repository
}

// NewListSlotsUseCase 创建时段列表用例
func NewListSlotsUseCase(slotRepo slot.Repository) *ListSlotsUseCase {
	return &ListSlotsUseCase{slotRepo: slotRepo}
}

// ListSlotsRequest 时段列表请求DTO
type ListSlotsRequest struct {
	Date          string // 按日期过滤,空表示不过滤
	OnlyAvailable bool   // 只看可预约的(未来+Open+未满)
}

// SlotItem 时段列表项
type SlotItem struct {
	SlotID      uint   `json:"slot_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Capacity    int    `json:"capacity"`
	BookedCount int    `json:"booked_count"`
	Remaining   int    `json:"remaining"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	TutorID     uint   `json:"tutor_id"`
	TutorName   string `json:"tutor_name"`
	CourseID    uint   `json:"course_id"`
	CourseCode  string `json:"course_code"`
	CourseName  string `json:"course_name"`
}

// ListSlotsResponse 时段列表响应DTO
type ListSlotsResponse struct {
	Slots []SlotItem `json:"slots"`
	Total int        `json:"total"`
}

// Execute 执行时段列表查询
// 注意:列表页的剩余名额仅供展示,真正的名额判定在预约事务的行锁内完成,
// 看到Remaining>0不代表一定能约上
func (uc *ListSlotsUseCase) Execute(ctx context.Context, req ListSlotsRequest) (*ListSlotsResponse, error) {
	filter := slot.ListFilter{OnlyAvailable: req.OnlyAvailable}

	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "日期格式应为YYYY-MM-DD")
		}
		filter.Date = date
	}

	slots, err := uc.slotRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SlotItem, len(slots))
	for i, s := range slots {
		remaining := s.Capacity - s.BookedCount
		if remaining < 0 {
			remaining = 0
		}
		items[i] = SlotItem{
			SlotID:      s.ID,
			Date:        s.Date.Format("2006-01-02"),
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			Capacity:    s.Capacity,
			BookedCount: s.BookedCount,
			Remaining:   remaining,
			Location:    s.Location,
			Status:      string(s.Status),
			TutorID:     s.TutorID,
			TutorName:   s.TutorName,
			CourseID:    s.CourseID,
			CourseCode:  s.CourseCode,
			CourseName:  s.CourseName,
		}
	}

	return &ListSlotsResponse{
		Slots: items,
		Total: len(items),
	}, nil
}
