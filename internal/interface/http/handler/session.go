package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appsession "github.com/xiebiao/tutorup/internal/application/session"
	"github.com/xiebiao/tutorup/internal/interface/http/dto"
	"github.com/xiebiao/tutorup/internal/interface/http/middleware"
	"github.com/xiebiao/tutorup/pkg/response"
)

// SessionHandler 出席与评价HTTP处理器
type SessionHandler struct {
	attendanceUseCase *appsession.MarkAttendanceUseCase
	reviewUseCase     *appsession.SubmitReviewUseCase
}

// NewSessionHandler 创建出席与评价处理器
func NewSessionHandler(
	attendanceUseCase *appsession.MarkAttendanceUseCase,
	reviewUseCase *appsession.SubmitReviewUseCase,
) *SessionHandler {
	return &SessionHandler{
		attendanceUseCase: attendanceUseCase,
		reviewUseCase:     reviewUseCase,
	}
}

// MarkAttendance 学生标记出席
// @Summary      标记出席（学生）
// @Description  学生标记自己某条预约的出席状态，重复标记覆盖旧值
// @Tags         出席与评价
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingId path int true "预约ID"
// @Param        request body dto.MarkAttendanceRequest true "出席状态"
// @Success      200 {object} response.Response "标记成功"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/attendance/{bookingId} [post]
func (h *SessionHandler) MarkAttendance(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40000, "预约ID必须是数字")
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.attendanceUseCase.ExecuteByStudent(c.Request.Context(), appsession.MarkByStudentRequest{
		StudentID: middleware.MustGetUserID(c),
		BookingID: uint(bookingID),
		Attended:  req.Attended,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// TutorMarkAttendance 导师标记出席
// @Summary      标记出席（导师）
// @Description  导师按(学生,时段)标记出席，时段必须属于该导师
// @Tags         出席与评价
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.TutorMarkAttendanceRequest true "出席信息"
// @Success      200 {object} response.Response "标记成功"
// @Failure      403 {object} response.Response "非本人时段"
// @Failure      404 {object} response.Response "预约不存在"
// @Router       /api/v1/tutors/attendance [post]
func (h *SessionHandler) TutorMarkAttendance(c *gin.Context) {
	var req dto.TutorMarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.attendanceUseCase.ExecuteByTutor(c.Request.Context(), appsession.MarkByTutorRequest{
		TutorID:   middleware.MustGetUserID(c),
		StudentID: req.StudentID,
		SlotID:    req.SlotID,
		Attended:  req.Attended,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SubmitReview 提交评价
// @Summary      提交评价
// @Description  学生对已出席的课程评分（1-5），每条预约只能评价一次
// @Tags         出席与评价
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookingId path int true "预约ID"
// @Param        request body dto.SubmitReviewRequest true "评价内容"
// @Success      200 {object} response.Response "评价成功"
// @Failure      400 {object} response.Response "未出席或评分超范围"
// @Failure      409 {object} response.Response "已评价过"
// @Router       /api/v1/reviews/{bookingId} [post]
func (h *SessionHandler) SubmitReview(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40000, "预约ID必须是数字")
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.reviewUseCase.Execute(c.Request.Context(), appsession.SubmitReviewRequest{
		StudentID: middleware.MustGetUserID(c),
		BookingID: uint(bookingID),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
