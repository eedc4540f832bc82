package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/tutorup/internal/domain/student"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// studentRepository 学生仓储实现(MySQL)
type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository 创建学生仓储
func NewStudentRepository(db *gorm.DB) student.Repository {
	return &studentRepository{db: db}
}

// Create 创建学生
func (r *studentRepository) Create(ctx context.Context, s *student.Student) error {
	model := &StudentModel{
		FullName:   s.FullName,
		Email:      s.Email,
		Password:   s.Password,
		DateJoined: s.DateJoined,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 邮箱UNIQUE索引冲突 → 业务错误
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建学生失败")
	}

	s.ID = model.ID
	return nil
}

// FindByID 根据ID查找学生
func (r *studentRepository) FindByID(ctx context.Context, id uint) (*student.Student, error) {
	var model StudentModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, apperrors.Wrap(err, "查询学生失败")
	}

	return toStudentEntity(&model), nil
}

// FindByEmail 根据邮箱查找学生
func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*student.Student, error) {
	var model StudentModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, apperrors.Wrap(err, "查询学生失败")
	}

	return toStudentEntity(&model), nil
}

// UpdatePassword 更新密码
func (r *studentRepository) UpdatePassword(ctx context.Context, id uint, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&StudentModel{}).
		Where("id = ?", id).
		Update("password", hashedPassword)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新密码失败")
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete 删除学生本体
// 必须先调用DeleteRelated清理关联数据(同一事务内)
func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	result := db.Delete(&StudentModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除学生失败")
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// DeleteRelated 删除学生的关联数据
// 删除顺序遵循外键依赖:评价/出席 → 预约 → 选课
// 教学要点:必须在TxManager事务内调用,任何一步失败全部回滚
func (r *studentRepository) DeleteRelated(ctx context.Context, id uint) error {
	db := r.getDB(ctx)

	// 1. 删除评价(通过预约关联)
	err := db.Exec("DELETE reviews FROM reviews "+
		"JOIN bookings ON bookings.id = reviews.booking_id "+
		"WHERE bookings.student_id = ?", id).Error
	if err != nil {
		return apperrors.Wrap(err, "删除评价失败")
	}

	// 2. 删除出席记录(通过预约关联)
	err = db.Exec("DELETE attendances FROM attendances "+
		"JOIN bookings ON bookings.id = attendances.booking_id "+
		"WHERE bookings.student_id = ?", id).Error
	if err != nil {
		return apperrors.Wrap(err, "删除出席记录失败")
	}

	// 3. 删除预约
	// 先记下该学生Confirmed预约占用的时段,删除后这些时段可能需要重开
	var slotIDs []uint
	err = db.Model(&BookingModel{}).
		Where("student_id = ? AND status = ?", id, "Confirmed").
		Distinct("slot_id").
		Pluck("slot_id", &slotIDs).Error
	if err != nil {
		return apperrors.Wrap(err, "查询占用时段失败")
	}

	if err := db.Where("student_id = ?", id).Delete(&BookingModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除预约失败")
	}

	// 名额释放后重开不再满员的时段(与取消预约同一条不变式)
	if len(slotIDs) > 0 {
		err = db.Exec("UPDATE availability_slots s SET s.status = 'Open' "+
			"WHERE s.id IN ? AND s.status = 'Closed' "+
			"AND (SELECT COUNT(*) FROM bookings b "+
			"     WHERE b.slot_id = s.id AND b.status = 'Confirmed') < s.capacity",
			slotIDs).Error
		if err != nil {
			return apperrors.Wrap(err, "重开时段失败")
		}
	}

	// 4. 删除选课关联
	if err := db.Where("student_id = ?", id).Delete(&StudentCourseModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除选课记录失败")
	}

	return nil
}

// toStudentEntity GORM模型 → 领域实体
func toStudentEntity(model *StudentModel) *student.Student {
	return &student.Student{
		ID:         model.ID,
		FullName:   model.FullName,
		Email:      model.Email,
		Password:   model.Password,
		DateJoined: model.DateJoined,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *studentRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
