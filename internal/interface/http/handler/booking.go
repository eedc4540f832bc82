package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appbooking "github.com/xiebiao/tutorup/internal/application/booking"
	"github.com/xiebiao/tutorup/internal/interface/http/dto"
	"github.com/xiebiao/tutorup/internal/interface/http/middleware"
	"github.com/xiebiao/tutorup/pkg/response"
)

// BookingHandler 预约HTTP处理器
type BookingHandler struct {
	createUseCase *appbooking.CreateBookingUseCase
	cancelUseCase *appbooking.CancelBookingUseCase
	listUseCase   *appbooking.ListSessionsUseCase
}

// NewBookingHandler 创建预约处理器
func NewBookingHandler(
	createUseCase *appbooking.CreateBookingUseCase,
	cancelUseCase *appbooking.CancelBookingUseCase,
	listUseCase *appbooking.ListSessionsUseCase,
) *BookingHandler {
	return &BookingHandler{
		createUseCase: createUseCase,
		cancelUseCase: cancelUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 创建预约（学生）
// @Summary      预约时段
// @Description  学生预约一个开放时段，通过全部冲突规则校验后生效
// @Tags         预约
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateBookingRequest true "预约信息"
// @Success      201 {object} response.Response "预约成功"
// @Failure      400 {object} response.Response "时段未开放"
// @Failure      404 {object} response.Response "时段不存在"
// @Failure      409 {object} response.Response "违反预约规则"
// @Failure      503 {object} response.Response "系统繁忙，请重试"
// @Router       /api/v1/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appbooking.CreateBookingRequest{
		StudentID: middleware.MustGetUserID(c), // 学生ID来自JWT，绝不信任请求体
		SlotID:    req.SlotID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 201 Created：预约是资源创建
	response.Created(c, result)
}

// Cancel 取消预约（学生）
// @Summary      取消预约
// @Description  取消自己的Confirmed预约，释放名额
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        bookingId path int true "预约ID"
// @Success      200 {object} response.Response "取消成功"
// @Failure      404 {object} response.Response "预约不存在或不是Confirmed状态"
// @Failure      503 {object} response.Response "系统繁忙，请重试"
// @Router       /api/v1/bookings/{bookingId} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
	if err != nil {
		response.ErrorWithCode(c, 40000, "预约ID必须是数字")
		return
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), appbooking.CancelBookingRequest{
		StudentID: middleware.MustGetUserID(c),
		BookingID: uint(bookingID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// StudentUpcoming 学生未来的课程
// @Summary      学生未来的课程
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        sort query string false "排序（date/tutor/course）"
// @Success      200 {object} response.Response "课程列表"
// @Router       /api/v1/students/me/sessions/upcoming [get]
func (h *BookingHandler) StudentUpcoming(c *gin.Context) {
	h.listSessions(c, "student", true)
}

// StudentPast 学生的历史课程（含出席与评价）
// @Summary      学生的历史课程
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "课程列表"
// @Router       /api/v1/students/me/sessions/past [get]
func (h *BookingHandler) StudentPast(c *gin.Context) {
	h.listSessions(c, "student", false)
}

// TutorUpcoming 导师未来的课程
// @Summary      导师未来的课程
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Param        sort query string false "排序（date/student/course）"
// @Success      200 {object} response.Response "课程列表"
// @Router       /api/v1/tutors/me/sessions/upcoming [get]
func (h *BookingHandler) TutorUpcoming(c *gin.Context) {
	h.listSessions(c, "tutor", true)
}

// TutorPast 导师的历史课程
// @Summary      导师的历史课程
// @Tags         预约
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "课程列表"
// @Router       /api/v1/tutors/me/sessions/past [get]
func (h *BookingHandler) TutorPast(c *gin.Context) {
	h.listSessions(c, "tutor", false)
}

func (h *BookingHandler) listSessions(c *gin.Context, role string, upcoming bool) {
	result, err := h.listUseCase.Execute(c.Request.Context(), appbooking.ListSessionsRequest{
		UserID:   middleware.MustGetUserID(c),
		Role:     role,
		Upcoming: upcoming,
		Sort:     c.Query("sort"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
