package student

import (
	"context"
)

// Repository 学生仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/mysql层
// 3. 便于单元测试（Mock此接口）
type Repository interface {
	// Create 创建学生
	// 注意：如果邮箱已存在，应返回errors.ErrEmailDuplicate
	Create(ctx context.Context, s *Student) error

	// FindByID 根据ID查找学生
	// 如果不存在，返回errors.ErrStudentNotFound
	FindByID(ctx context.Context, id uint) (*Student, error)

	// FindByEmail 根据邮箱查找学生
	FindByEmail(ctx context.Context, email string) (*Student, error)

	// UpdatePassword 更新密码(bcrypt哈希)
	UpdatePassword(ctx context.Context, id uint, hashedPassword string) error

	// Delete 删除学生本体
	// 注销用例负责在同一事务内先清理评价/出席/预约/选课记录
	Delete(ctx context.Context, id uint) error

	// DeleteRelated 删除学生的关联数据(评价、出席、预约、选课)
	// 必须在TxManager事务内调用,与Delete组成完整的注销
	DeleteRelated(ctx context.Context, id uint) error
}
