package student

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// Service 学生领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. Service不处理HTTP请求，只处理业务逻辑
type Service interface {
	// Register 学生注册
	Register(ctx context.Context, fullName, email, password string) (*Student, error)

	// Login 学生登录
	Login(ctx context.Context, email, password string) (*Student, error)

	// ChangePassword 修改密码(需验证旧密码)
	ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
}

// NewService 创建学生服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 学生注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 密码bcrypt加密（cost=12）
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, fullName, email, password string) (*Student, error) {
	// 1. 邮箱格式校验
	if !isValidEmail(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}

	// 2. 密码强度校验
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 3. 姓名校验
	if len(fullName) < 2 || len(fullName) > 100 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为2-100个字符")
	}

	// 4. 密码加密
	// 学习要点：
	// - bcrypt自动加盐，每次加密结果都不同（即使密码相同）
	// - cost=12是推荐值，平衡安全性与性能（cost每+1，耗时翻倍）
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 5. 创建学生实体
	st := NewStudent(fullName, email, string(hashedPassword))

	// 6. 持久化到数据库
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return st, nil
}

// Login 学生登录
func (s *service) Login(ctx context.Context, email, password string) (*Student, error) {
	// 1. 根据邮箱查找学生
	st, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err // Repository已转换为ErrStudentNotFound
	}

	// 2. 验证密码
	if err := s.ValidatePassword(st.Password, password); err != nil {
		return nil, err // 返回ErrInvalidPassword
	}

	return st, nil
}

// ChangePassword 修改密码
// 业务规则：必须验证旧密码（防止Token被盗后直接改密码锁死账号主人）
func (s *service) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	// 1. 查找学生
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// 2. 验证旧密码
	if err := s.ValidatePassword(st.Password, oldPassword); err != nil {
		return err
	}

	// 3. 新密码强度校验
	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	// 4. 加密并更新
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return apperrors.Wrap(err, "密码加密失败")
	}

	return s.repo.UpdatePassword(ctx, id, string(hashedPassword))
}

// ValidatePassword 验证密码
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// =========================================
// 辅助函数：业务规则校验
// =========================================

// isValidEmail 邮箱格式校验
// 简单的正则校验，生产环境可使用更严格的RFC 5322标准
func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasDigit {
		return apperrors.ErrWeakPassword
	}

	return nil
}
