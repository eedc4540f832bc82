package handler

import (
	"github.com/gin-gonic/gin"

	appstudent "github.com/xiebiao/tutorup/internal/application/student"
	"github.com/xiebiao/tutorup/internal/interface/http/dto"
	"github.com/xiebiao/tutorup/internal/interface/http/middleware"
	"github.com/xiebiao/tutorup/pkg/response"
)

// StudentHandler 学生账号HTTP处理器（资料/密码/注销/登出）
type StudentHandler struct {
	profileUseCase  *appstudent.GetProfileUseCase
	passwordUseCase *appstudent.ChangePasswordUseCase
	deleteUseCase   *appstudent.DeleteAccountUseCase
	logoutUseCase   *appstudent.LogoutUseCase
}

// NewStudentHandler 创建学生账号处理器
func NewStudentHandler(
	profileUseCase *appstudent.GetProfileUseCase,
	passwordUseCase *appstudent.ChangePasswordUseCase,
	deleteUseCase *appstudent.DeleteAccountUseCase,
	logoutUseCase *appstudent.LogoutUseCase,
) *StudentHandler {
	return &StudentHandler{
		profileUseCase:  profileUseCase,
		passwordUseCase: passwordUseCase,
		deleteUseCase:   deleteUseCase,
		logoutUseCase:   logoutUseCase,
	}
}

// GetProfile 查看个人资料
// @Summary      查看学生资料
// @Tags         学生
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "学生资料"
// @Router       /api/v1/students/me [get]
func (h *StudentHandler) GetProfile(c *gin.Context) {
	result, err := h.profileUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ChangePassword 修改密码
// @Summary      修改密码
// @Description  需验证旧密码
// @Tags         学生
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ChangePasswordRequest true "新旧密码"
// @Success      200 {object} response.Response "修改成功"
// @Failure      401 {object} response.Response "旧密码错误"
// @Router       /api/v1/students/me/password [put]
func (h *StudentHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	err := h.passwordUseCase.Execute(c.Request.Context(), appstudent.ChangePasswordRequest{
		StudentID:   middleware.MustGetUserID(c),
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// DeleteAccount 注销账号
// @Summary      注销学生账号
// @Description  同一事务内删除评价、出席、预约、选课和学生本体
// @Tags         学生
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "注销成功"
// @Router       /api/v1/students/me [delete]
func (h *StudentHandler) DeleteAccount(c *gin.Context) {
	studentID := middleware.MustGetUserID(c)

	if err := h.deleteUseCase.Execute(c.Request.Context(), studentID); err != nil {
		response.Error(c, err)
		return
	}

	// 账号已删除，顺手吊销当前Token
	if token := middleware.GetAccessToken(c); token != "" {
		_ = h.logoutUseCase.Execute(c.Request.Context(), studentID, token)
	}

	response.Success(c, nil)
}

// Logout 学生登出
// @Summary      学生登出
// @Description  删除会话并将Token加入黑名单
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /api/v1/auth/students/logout [post]
func (h *StudentHandler) Logout(c *gin.Context) {
	err := h.logoutUseCase.Execute(c.Request.Context(),
		middleware.MustGetUserID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
