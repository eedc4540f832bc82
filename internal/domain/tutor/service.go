package tutor

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// Service 导师领域服务
type Service interface {
	// Register 导师注册(比学生多bio和experienceYears)
	Register(ctx context.Context, fullName, email, password, bio string, experienceYears int) (*Tutor, error)

	// Login 导师登录
	Login(ctx context.Context, email, password string) (*Tutor, error)
}

type service struct {
	repo Repository
}

// NewService 创建导师服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 导师注册
// 校验规则与学生注册一致，额外要求experienceYears非负
func (s *service) Register(ctx context.Context, fullName, email, password, bio string, experienceYears int) (*Tutor, error) {
	if !isValidEmail(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if len(fullName) < 2 || len(fullName) > 100 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为2-100个字符")
	}

	if experienceYears < 0 || experienceYears > 60 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "教学年限应为0-60")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	t := NewTutor(fullName, email, string(hashedPassword), bio, experienceYears)

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Login 导师登录
func (s *service) Login(ctx context.Context, email, password string) (*Tutor, error) {
	t, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(t.Password), []byte(password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, apperrors.Wrap(err, "密码验证失败")
	}

	return t, nil
}

func isValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

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
