package slot

import (
	"context"
	"time"
)

// ListFilter 时段列表过滤条件
type ListFilter struct {
	Date          time.Time // 按日期过滤
	OnlyAvailable bool      // 只看未来的、Open的、未满的时段
}

// SlotWithBooked 带已预约数的时段(列表查询用)
type SlotWithBooked struct {
	Slot
	BookedCount int    // Confirmed预约数
	TutorName   string // 导师姓名(join)
	CourseName  string // 课程名称(join)
	CourseCode  string
}

// Repository 时段仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则），实现在infrastructure/persistence/mysql
// 2. LockByID/UpdateStatus必须在TxManager事务内调用（通过context传递事务DB）
type Repository interface {
	// Create 创建时段
	Create(ctx context.Context, s *Slot) error

	// FindByID 根据ID查找时段
	// 如果不存在，返回ErrSlotNotFound
	FindByID(ctx context.Context, id uint) (*Slot, error)

	// LockByID 悲观锁查询时段(SELECT ... FOR UPDATE)
	// 预约/取消事务的第一步，后续的名额检查都在这把锁的保护下进行
	LockByID(ctx context.Context, id uint) (*Slot, error)

	// UpdateStatus 更新时段状态(在持有行锁的事务内调用)
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// List 按条件查询时段列表(带已预约数,只读不加锁)
	List(ctx context.Context, filter ListFilter) ([]*SlotWithBooked, error)
}
