package tutor

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/tutorup/internal/domain/tutor"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/tutorup/pkg/jwt"
)

// LoginUseCase 导师登录用例
type LoginUseCase struct {
	tutorService tutor.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	tutorService tutor.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		tutorService: tutorService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码
	t, err := uc.tutorService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对（Role=tutor）
	tokenPair, err := uc.jwtManager.GenerateToken(t.ID, t.Email, jwt.RoleTutor, t.FullName)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"user_id":   t.ID,
		"email":     t.Email,
		"full_name": t.FullName,
		"role":      jwt.RoleTutor,
		"login_at":  time.Now().Unix(),
	}

	if err := uc.sessionStore.SaveSession(ctx, jwt.RoleTutor, t.ID, sessionData, 7*24*time.Hour); err != nil {
		log.Printf("[WARN] 保存导师会话失败 tutor_id=%d: %v", t.ID, err)
	}

	// 4. 返回登录响应
	return &LoginResponse{
		Tutor: TutorInfo{
			ID:              t.ID,
			FullName:        t.FullName,
			Email:           t.Email,
			Bio:             t.Bio,
			ExperienceYears: t.ExperienceYears,
			RatingAverage:   t.RatingAverage,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	Tutor        TutorInfo `json:"tutor"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
}

// TutorInfo 导师信息
type TutorInfo struct {
	ID              uint    `json:"id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email"`
	Bio             string  `json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	RatingAverage   float64 `json:"rating_average"`
}
