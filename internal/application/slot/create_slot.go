package slot

import (
	"context"
	"regexp"
	"time"

	"github.com/xiebiao/tutorup/internal/domain/course"
	"github.com/xiebiao/tutorup/internal/domain/slot"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// CreateSlotUseCase 发布可预约时段用例(导师操作)
type CreateSlotUseCase struct {
	slotRepo   slot.Repository
	courseRepo course.Repository
}

// NewCreateSlotUseCase 创建时段发布用例
func NewCreateSlotUseCase(slotRepo slot.Repository, courseRepo course.Repository) *CreateSlotUseCase {
	return &CreateSlotUseCase{
		slotRepo:   slotRepo,
		courseRepo: courseRepo,
	}
}

// CreateSlotRequest 发布时段请求DTO
type CreateSlotRequest struct {
	TutorID   uint   // 导师ID(从JWT中提取)
	CourseID  uint   // 课程ID
	Date      string // "2006-01-02"
	StartTime string // "HH:MM"或"HH:MM:SS"
	EndTime   string
	Capacity  int
	Location  string
}

// CreateSlotResponse 发布时段响应DTO
type CreateSlotResponse struct {
	SlotID    uint   `json:"slot_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Capacity  int    `json:"capacity"`
	Status    string `json:"status"`
}

// timePattern 时间格式:HH:MM或HH:MM:SS
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)

// Execute 执行时段发布
// 业务规则:
// 1. 课程必须存在且由该导师教授
// 2. 开始时间必须早于结束时间
// 3. 日期不能是过去
// 4. 容量至少为1
func (uc *CreateSlotUseCase) Execute(ctx context.Context, req CreateSlotRequest) (*CreateSlotResponse, error) {
	// 1. 时间格式与顺序校验
	startTime, err := normalizeTime(req.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := normalizeTime(req.EndTime)
	if err != nil {
		return nil, err
	}
	if startTime >= endTime {
		return nil, slot.ErrInvalidSlotTime
	}

	// 2. 日期校验
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "日期格式应为YYYY-MM-DD")
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if date.Before(today) {
		return nil, slot.ErrInvalidDate
	}

	// 3. 容量校验
	if req.Capacity < 1 {
		return nil, slot.ErrInvalidCapacity
	}

	// 4. 课程归属校验:导师只能为自己教授的课程开时段
	if _, err := uc.courseRepo.FindByID(ctx, req.CourseID); err != nil {
		return nil, err
	}
	teaches, err := uc.courseRepo.TutorTeaches(ctx, req.TutorID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !teaches {
		return nil, apperrors.New(apperrors.ErrCodeForbidden, "只能为自己教授的课程发布时段")
	}

	// 5. 创建时段
	s := slot.NewSlot(date, startTime, endTime, req.Capacity, req.Location, req.TutorID, req.CourseID)
	if err := uc.slotRepo.Create(ctx, s); err != nil {
		return nil, err
	}

	return &CreateSlotResponse{
		SlotID:    s.ID,
		Date:      s.Date.Format("2006-01-02"),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Capacity:  s.Capacity,
		Status:    string(s.Status),
	}, nil
}

// normalizeTime 校验并统一时间格式为"HH:MM:SS"
// 数据库TIME列和重叠判断都依赖这个格式
func normalizeTime(t string) (string, error) {
	if !timePattern.MatchString(t) {
		return "", apperrors.New(apperrors.ErrCodeInvalidParams, "时间格式应为HH:MM或HH:MM:SS")
	}
	if len(t) == 5 {
		return t + ":00", nil
	}
	return t, nil
}
