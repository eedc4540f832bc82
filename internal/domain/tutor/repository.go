package tutor

import (
	"context"
)

// Repository 导师仓储接口
type Repository interface {
	// Create 创建导师
	// 邮箱已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, t *Tutor) error

	// FindByID 根据ID查找导师
	// 不存在时返回errors.ErrTutorNotFound
	FindByID(ctx context.Context, id uint) (*Tutor, error)

	// FindByEmail 根据邮箱查找导师
	FindByEmail(ctx context.Context, email string) (*Tutor, error)

	// UpdateRatingAverage 回写导师平均评分
	// 由评价提交用例在事务内调用，保证与reviews表一致
	UpdateRatingAverage(ctx context.Context, id uint, avg float64) error

	// List 列出所有导师(按平均评分降序)
	List(ctx context.Context) ([]*Tutor, error)
}
