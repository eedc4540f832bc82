package course

import (
	"context"
)

// Repository 课程仓储接口
type Repository interface {
	// FindByID 根据ID查找课程
	// 不存在时返回errors.ErrCourseNotFound
	FindByID(ctx context.Context, id uint) (*Course, error)

	// List 列出所有课程(join majors补充专业名)
	List(ctx context.Context) ([]*Course, error)

	// TutorTeaches 导师是否教授该课程
	// 发布时段前校验，防止导师为未授课程开时段
	TutorTeaches(ctx context.Context, tutorID, courseID uint) (bool, error)

	// ListByTutor 列出导师教授的课程
	ListByTutor(ctx context.Context, tutorID uint) ([]*Course, error)
}
