package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/tutorup/internal/domain/course"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// courseRepository 课程仓储实现(MySQL)
// 课程和专业由管理后台维护,这里只提供读路径
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository 创建课程仓储
func NewCourseRepository(db *gorm.DB) course.Repository {
	return &courseRepository{db: db}
}

// courseRow List查询的扫描目标(join majors)
type courseRow struct {
	CourseModel
	MajorName string
}

// FindByID 根据ID查找课程
func (r *courseRepository) FindByID(ctx context.Context, id uint) (*course.Course, error) {
	var row courseRow
	err := r.db.WithContext(ctx).
		Table("courses").
		Select("courses.*, majors.name AS major_name").
		Joins("JOIN majors ON majors.id = courses.major_id").
		Where("courses.id = ?", id).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, apperrors.Wrap(err, "查询课程失败")
	}

	return toCourseEntity(&row), nil
}

// List 列出所有课程
func (r *courseRepository) List(ctx context.Context) ([]*course.Course, error) {
	var rows []courseRow
	err := r.db.WithContext(ctx).
		Table("courses").
		Select("courses.*, majors.name AS major_name").
		Joins("JOIN majors ON majors.id = courses.major_id").
		Order("courses.course_code ASC").
		Scan(&rows).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询课程列表失败")
	}

	courses := make([]*course.Course, len(rows))
	for i, row := range rows {
		courses[i] = toCourseEntity(&row)
	}

	return courses, nil
}

// TutorTeaches 导师是否教授该课程
func (r *courseRepository) TutorTeaches(ctx context.Context, tutorID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&TutorCourseModel{}).
		Where("tutor_id = ? AND course_id = ?", tutorID, courseID).
		Count(&count).Error

	if err != nil {
		return false, apperrors.Wrap(err, "查询授课关系失败")
	}

	return count > 0, nil
}

// ListByTutor 列出导师教授的课程
func (r *courseRepository) ListByTutor(ctx context.Context, tutorID uint) ([]*course.Course, error) {
	var rows []courseRow
	err := r.db.WithContext(ctx).
		Table("courses").
		Select("courses.*, majors.name AS major_name").
		Joins("JOIN majors ON majors.id = courses.major_id").
		Joins("JOIN tutor_courses ON tutor_courses.course_id = courses.id").
		Where("tutor_courses.tutor_id = ?", tutorID).
		Order("courses.course_code ASC").
		Scan(&rows).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询导师课程失败")
	}

	courses := make([]*course.Course, len(rows))
	for i, row := range rows {
		courses[i] = toCourseEntity(&row)
	}

	return courses, nil
}

// toCourseEntity GORM模型 → 领域实体
func toCourseEntity(row *courseRow) *course.Course {
	return &course.Course{
		ID:          row.ID,
		CourseCode:  row.CourseCode,
		CourseName:  row.CourseName,
		Description: row.Description,
		Level:       row.Level,
		MajorID:     row.MajorID,
		MajorName:   row.MajorName,
	}
}
