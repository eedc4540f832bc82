package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/tutorup/internal/domain/slot"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// slotRepository 时段仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/slot/repository.go定义的接口
// 2. LockByID/UpdateStatus通过getDB(ctx)参与TxManager事务
// 3. List是只读查询,不加锁,用子查询统计已预约数
type slotRepository struct {
	db *gorm.DB
}

// NewSlotRepository 创建时段仓储
func NewSlotRepository(db *gorm.DB) slot.Repository {
	return &slotRepository{db: db}
}

// Create 创建时段
func (r *slotRepository) Create(ctx context.Context, s *slot.Slot) error {
	model := &SlotModel{
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Capacity:  s.Capacity,
		Location:  s.Location,
		Status:    string(s.Status),
		TutorID:   s.TutorID,
		CourseID:  s.CourseID,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建时段失败")
	}

	// 回填自增ID
	s.ID = model.ID
	return nil
}

// FindByID 根据ID查找时段
func (r *slotRepository) FindByID(ctx context.Context, id uint) (*slot.Slot, error) {
	var model SlotModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, slot.ErrSlotNotFound
		}
		return nil, apperrors.Wrap(err, "查询时段失败")
	}

	return toSlotEntity(&model), nil
}

// LockByID 悲观锁查询时段(SELECT ... FOR UPDATE)
// 教学要点:
// 1. 必须使用getDB(ctx)从context获取事务DB,否则锁不生效
// 2. 这把行锁是整个预约/取消事务的串行化点:
//    同一时段的并发预约在这里排队,名额检查因此不会出现超卖
func (r *slotRepository) LockByID(ctx context.Context, id uint) (*slot.Slot, error) {
	var model SlotModel
	db := r.getDB(ctx)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, slot.ErrSlotNotFound
		}
		return nil, apperrors.Wrap(err, "锁定时段失败")
	}

	return toSlotEntity(&model), nil
}

// UpdateStatus 更新时段状态(在持有行锁的事务内调用)
func (r *slotRepository) UpdateStatus(ctx context.Context, id uint, status slot.Status) error {
	db := r.getDB(ctx)
	result := db.Model(&SlotModel{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新时段状态失败")
	}

	if result.RowsAffected == 0 {
		return slot.ErrSlotNotFound
	}

	return nil
}

// slotListRow List查询的扫描目标(join + 子查询列)
type slotListRow struct {
	SlotModel
	BookedCount int
	TutorName   string
	CourseName  string
	CourseCode  string
}

// List 按条件查询时段列表(带已预约数)
// SQL要点:
// 1. 子查询统计Confirmed预约数,避免LEFT JOIN后GROUP BY整行
// 2. OnlyAvailable过滤:未来日期 + Open + 未满员
func (r *slotRepository) List(ctx context.Context, filter slot.ListFilter) ([]*slot.SlotWithBooked, error) {
	bookedExpr := "(SELECT COUNT(*) FROM bookings b WHERE b.slot_id = availability_slots.id AND b.status = 'Confirmed')"

	query := r.db.WithContext(ctx).
		Table("availability_slots").
		Select("availability_slots.*, "+
			bookedExpr+" AS booked_count, "+
			"tutors.full_name AS tutor_name, "+
			"courses.course_name AS course_name, "+
			"courses.course_code AS course_code").
		Joins("JOIN tutors ON tutors.id = availability_slots.tutor_id").
		Joins("JOIN courses ON courses.id = availability_slots.course_id")

	if !filter.Date.IsZero() {
		query = query.Where("availability_slots.date = ?", filter.Date.Format("2006-01-02"))
	}

	if filter.OnlyAvailable {
		query = query.
			Where("availability_slots.date >= ?", time.Now().Format("2006-01-02")).
			Where("availability_slots.status = ?", "Open").
			Where(bookedExpr + " < availability_slots.capacity")
	}

	query = query.Order("availability_slots.date ASC, availability_slots.start_time ASC")

	var rows []slotListRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询时段列表失败")
	}

	slots := make([]*slot.SlotWithBooked, len(rows))
	for i, row := range rows {
		slots[i] = &slot.SlotWithBooked{
			Slot:        *toSlotEntity(&row.SlotModel),
			BookedCount: row.BookedCount,
			TutorName:   row.TutorName,
			CourseName:  row.CourseName,
			CourseCode:  row.CourseCode,
		}
	}

	return slots, nil
}

// toSlotEntity GORM模型 → 领域实体
func toSlotEntity(model *SlotModel) *slot.Slot {
	return &slot.Slot{
		ID:        model.ID,
		Date:      model.Date,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		Capacity:  model.Capacity,
		Location:  model.Location,
		Status:    slot.Status(model.Status),
		TutorID:   model.TutorID,
		CourseID:  model.CourseID,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *slotRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
