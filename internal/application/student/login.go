package student

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/tutorup/internal/domain/student"
	"github.com/xiebiao/tutorup/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/tutorup/pkg/jwt"
)

// LoginUseCase 学生登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成带student角色的JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	studentService student.Service
	jwtManager     *jwt.Manager
	sessionStore   *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	studentService student.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		studentService: studentService,
		jwtManager:     jwtManager,
		sessionStore:   sessionStore,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	st, err := uc.studentService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对（Role=student）
	tokenPair, err := uc.jwtManager.GenerateToken(st.ID, st.Email, jwt.RoleStudent, st.FullName)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis
	sessionData := map[string]interface{}{
		"user_id":   st.ID,
		"email":     st.Email,
		"full_name": st.FullName,
		"role":      jwt.RoleStudent,
		"login_at":  time.Now().Unix(),
	}

	// 会话有效期 = Refresh Token有效期
	if err := uc.sessionStore.SaveSession(ctx, jwt.RoleStudent, st.ID, sessionData, 7*24*time.Hour); err != nil {
		// 会话保存失败不影响登录，只记录日志
		log.Printf("[WARN] 保存学生会话失败 student_id=%d: %v", st.ID, err)
	}

	// 4. 返回登录响应
	return &LoginResponse{
		Student: StudentInfo{
			ID:       st.ID,
			FullName: st.FullName,
			Email:    st.Email,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 学生登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, studentID uint, accessToken string) error {
	// 1. 删除会话
	if err := uc.sessionStore.DeleteSession(ctx, jwt.RoleStudent, studentID); err != nil {
		return err
	}

	// 2. 将Access Token加入黑名单（防止Token在过期前继续使用）
	return uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour)
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
	Student      StudentInfo `json:"student"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"` // Access Token过期时间（秒）
}

// StudentInfo 学生信息
type StudentInfo struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}
