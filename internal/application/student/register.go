package student

import (
	"context"

	"github.com/xiebiao/tutorup/internal/domain/student"
)

// RegisterUseCase 学生注册用例
// 设计说明：
// 1. Application层负责用例编排，协调多个领域服务
// 2. 当前注册用例比较简单，只调用一个领域服务
// 3. 未来可能扩展：发送欢迎邮件、记录审计日志等
type RegisterUseCase struct {
	studentService student.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(studentService student.Service) *RegisterUseCase {
	return &RegisterUseCase{
		studentService: studentService,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	// 1. 调用领域服务执行注册
	st, err := uc.studentService.Register(ctx, req.FullName, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 领域实体 → 应用层DTO
	// 好处：领域模型变更不影响API契约
	return &RegisterResponse{
		ID:       st.ID,
		FullName: st.FullName,
		Email:    st.Email,
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName string
	Email    string
	Password string
}

// RegisterResponse 注册响应
// 说明：不返回密码字段
type RegisterResponse struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
