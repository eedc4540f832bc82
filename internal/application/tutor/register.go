package tutor

import (
	"context"

	"github.com/xiebiao/tutorup/internal/domain/tutor"
)

// RegisterUseCase 导师注册用例
type RegisterUseCase struct {
	tutorService tutor.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(tutorService tutor.Service) *RegisterUseCase {
	return &RegisterUseCase{
		tutorService: tutorService,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	t, err := uc.tutorService.Register(ctx, req.FullName, req.Email, req.Password, req.Bio, req.ExperienceYears)
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		ID:              t.ID,
		FullName:        t.FullName,
		Email:           t.Email,
		Bio:             t.Bio,
		ExperienceYears: t.ExperienceYears,
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	FullName        string
	Email           string
	Password        string
	Bio             string
	ExperienceYears int
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	ID              uint   `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Bio             string `json:"bio"`
	ExperienceYears int    `json:"experience_years"`
}
