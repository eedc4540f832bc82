package booking

import (
	"context"

	"github.com/xiebiao/tutorup/internal/domain/booking"
)

// ListSessionsUseCase "我的课程"列表用例(学生/导师双视角)
// 只读路径:不开事务,不加锁,读已提交数据
type ListSessionsUseCase struct {
	bookingRepo booking.Repository
}

// NewListSessionsUseCase 创建会话列表用例
func NewListSessionsUseCase(bookingRepo booking.Repository) *ListSessionsUseCase {
	return &ListSessionsUseCase{bookingRepo: bookingRepo}
}

// ListSessionsRequest 会话列表请求DTO
type ListSessionsRequest struct {
	UserID   uint   // 学生ID或导师ID(从JWT中提取)
	Role     string // student / tutor
	Upcoming bool   // true=未来的Confirmed预约, false=历史记录
	Sort     string // date / tutor / student / course
}

// SessionItem 会话列表项
type SessionItem struct {
	BookingID   uint   `json:"booking_id"`
	Status      string `json:"status"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
	CourseCode  string `json:"course_code"`
	CourseName  string `json:"course_name"`
	TutorName   string `json:"tutor_name,omitempty"`
	StudentName string `json:"student_name,omitempty"`
	Attended    string `json:"attended,omitempty"` // 历史记录:Yes/No,无记录为空
	Rating      int    `json:"rating,omitempty"`   // 历史记录:0表示未评价
}

// ListSessionsResponse 会话列表响应DTO
type ListSessionsResponse struct {
	Sessions []SessionItem `json:"sessions"`
	Total    int           `json:"total"`
}

// Execute 执行会话列表查询
func (uc *ListSessionsUseCase) Execute(ctx context.Context, req ListSessionsRequest) (*ListSessionsResponse, error) {
	sort := booking.SessionSort(req.Sort)

	var views []*booking.SessionView
	var err error
	if req.Role == "tutor" {
		views, err = uc.bookingRepo.ListTutorSessions(ctx, req.UserID, req.Upcoming, sort)
	} else {
		views, err = uc.bookingRepo.ListStudentSessions(ctx, req.UserID, req.Upcoming, sort)
	}
	if err != nil {
		return nil, err
	}

	items := make([]SessionItem, len(views))
	for i, v := range views {
		items[i] = SessionItem{
			BookingID:   v.BookingID,
			Status:      string(v.Status),
			Date:        v.Date.Format("2006-01-02"),
			StartTime:   v.StartTime,
			EndTime:     v.EndTime,
			Location:    v.Location,
			CourseCode:  v.CourseCode,
			CourseName:  v.CourseName,
			TutorName:   v.TutorName,
			StudentName: v.StudentName,
			Attended:    v.Attended,
			Rating:      v.Rating,
		}
	}

	return &ListSessionsResponse{
		Sessions: items,
		Total:    len(items),
	}, nil
}
