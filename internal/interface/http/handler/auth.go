package handler

import (
	"github.com/gin-gonic/gin"

	appstudent "github.com/xiebiao/tutorup/internal/application/student"
	apptutor "github.com/xiebiao/tutorup/internal/application/tutor"
	"github.com/xiebiao/tutorup/internal/interface/http/dto"
	"github.com/xiebiao/tutorup/pkg/response"
)

// AuthHandler 注册/登录HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 学生和导师走同一个Handler的不同方法，路由分开声明
type AuthHandler struct {
	studentRegister *appstudent.RegisterUseCase
	studentLogin    *appstudent.LoginUseCase
	tutorRegister   *apptutor.RegisterUseCase
	tutorLogin      *apptutor.LoginUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	studentRegister *appstudent.RegisterUseCase,
	studentLogin *appstudent.LoginUseCase,
	tutorRegister *apptutor.RegisterUseCase,
	tutorLogin *apptutor.LoginUseCase,
) *AuthHandler {
	return &AuthHandler{
		studentRegister: studentRegister,
		studentLogin:    studentLogin,
		tutorRegister:   tutorRegister,
		tutorLogin:      tutorLogin,
	}
}

// RegisterStudent 学生注册
// @Summary      学生注册
// @Description  创建学生账号
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.StudentRegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.StudentResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/auth/students/register [post]
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	// 1. 绑定并验证参数
	// 学习要点：Gin的ShouldBindJSON会自动校验binding tag
	var req dto.StudentRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	// 2. 调用应用层用例
	result, err := h.studentRegister.Execute(c.Request.Context(), appstudent.RegisterRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	response.Success(c, &dto.StudentResponse{
		ID:       result.ID,
		FullName: result.FullName,
		Email:    result.Email,
	})
}

// LoginStudent 学生登录
// @Summary      学生登录
// @Description  验证邮箱密码，返回带student角色的JWT Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response "登录成功"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/auth/students/login [post]
func (h *AuthHandler) LoginStudent(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.studentLogin.Execute(c.Request.Context(), appstudent.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RegisterTutor 导师注册
// @Summary      导师注册
// @Description  创建导师账号（含简介和辅导年限）
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.TutorRegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=dto.TutorResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/auth/tutors/register [post]
func (h *AuthHandler) RegisterTutor(c *gin.Context) {
	var req dto.TutorRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.tutorRegister.Execute(c.Request.Context(), apptutor.RegisterRequest{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		Bio:             req.Bio,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.TutorResponse{
		ID:              result.ID,
		FullName:        result.FullName,
		Email:           result.Email,
		Bio:             result.Bio,
		ExperienceYears: result.ExperienceYears,
	})
}

// LoginTutor 导师登录
// @Summary      导师登录
// @Description  验证邮箱密码，返回带tutor角色的JWT Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response "登录成功"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/auth/tutors/login [post]
func (h *AuthHandler) LoginTutor(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40006, "参数错误: "+err.Error())
		return
	}

	result, err := h.tutorLogin.Execute(c.Request.Context(), apptutor.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
