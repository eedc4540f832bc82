package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appslot "github.com/xiebiao/tutorup/internal/application/slot"
	"github.com/xiebiao/tutorup/internal/interface/http/dto"
	"github.com/xiebiao/tutorup/internal/interface/http/middleware"
	"github.com/xiebiao/tutorup/pkg/response"
)

// SlotHandler 时段HTTP处理器
type SlotHandler struct {
	createUseCase *appslot.CreateSlotUseCase
	listUseCase   *appslot.ListSlotsUseCase
}

// NewSlotHandler 创建时段处理器
func NewSlotHandler(
	createUseCase *appslot.CreateSlotUseCase,
	listUseCase *appslot.ListSlotsUseCase,
) *SlotHandler {
	return &SlotHandler{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
	}
}

// Create 发布时段（导师）
// @Summary      发布可预约时段
// @Description  导师为自己教授的课程发布时段
// @Tags         时段
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateSlotRequest true "时段信息"
// @Success      200 {object} response.Response "发布成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      403 {object} response.Response "非授课课程"
// @Router       /api/v1/slots [post]
func (h *SlotHandler) Create(c *gin.Context) {
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appslot.CreateSlotRequest{
		TutorID:   middleware.MustGetUserID(c), // 导师ID来自JWT
		CourseID:  req.CourseID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		Location:  req.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListToday 今天的可预约时段
// @Summary      今天的可预约时段
// @Tags         时段
// @Produce      json
// @Success      200 {object} response.Response "时段列表"
// @Router       /api/v1/slots/today [get]
func (h *SlotHandler) ListToday(c *gin.Context) {
	h.listByDate(c, time.Now().Format("2006-01-02"))
}

// ListTomorrow 明天的可预约时段
// @Summary      明天的可预约时段
// @Tags         时段
// @Produce      json
// @Success      200 {object} response.Response "时段列表"
// @Router       /api/v1/slots/tomorrow [get]
func (h *SlotHandler) ListTomorrow(c *gin.Context) {
	h.listByDate(c, time.Now().AddDate(0, 0, 1).Format("2006-01-02"))
}

// ListByDate 指定日期的可预约时段
// @Summary      指定日期的可预约时段
// @Description  只返回未来的、开放的、未满员的时段
// @Tags         时段
// @Produce      json
// @Param        date path string true "日期（YYYY-MM-DD）"
// @Success      200 {object} response.Response "时段列表"
// @Failure      400 {object} response.Response "日期格式错误"
// @Router       /api/v1/slots/date/{date} [get]
func (h *SlotHandler) ListByDate(c *gin.Context) {
	h.listByDate(c, c.Param("date"))
}

func (h *SlotHandler) listByDate(c *gin.Context, date string) {
	result, err := h.listUseCase.Execute(c.Request.Context(), appslot.ListSlotsRequest{
		Date:          date,
		OnlyAvailable: true,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
