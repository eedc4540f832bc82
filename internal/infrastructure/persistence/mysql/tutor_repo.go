package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/tutorup/internal/domain/tutor"
	apperrors "github.com/xiebiao/tutorup/pkg/errors"
)

// tutorRepository 导师仓储实现(MySQL)
type tutorRepository struct {
	db *gorm.DB
}

// NewTutorRepository 创建导师仓储
func NewTutorRepository(db *gorm.DB) tutor.Repository {
	return &tutorRepository{db: db}
}

// Create 创建导师
func (r *tutorRepository) Create(ctx context.Context, t *tutor.Tutor) error {
	model := &TutorModel{
		FullName:        t.FullName,
		Email:           t.Email,
		Password:        t.Password,
		Bio:             t.Bio,
		ExperienceYears: t.ExperienceYears,
		RatingAverage:   t.RatingAverage,
		DateJoined:      t.DateJoined,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建导师失败")
	}

	t.ID = model.ID
	return nil
}

// FindByID 根据ID查找导师
func (r *tutorRepository) FindByID(ctx context.Context, id uint) (*tutor.Tutor, error) {
	var model TutorModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTutorNotFound
		}
		return nil, apperrors.Wrap(err, "查询导师失败")
	}

	return toTutorEntity(&model), nil
}

// FindByEmail 根据邮箱查找导师
func (r *tutorRepository) FindByEmail(ctx context.Context, email string) (*tutor.Tutor, error) {
	var model TutorModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTutorNotFound
		}
		return nil, apperrors.Wrap(err, "查询导师失败")
	}

	return toTutorEntity(&model), nil
}

// UpdateRatingAverage 回写导师平均评分
// 教学要点:通过getDB(ctx)参与评价提交事务,与reviews表的写入同进退
func (r *tutorRepository) UpdateRatingAverage(ctx context.Context, id uint, avg float64) error {
	db := r.getDB(ctx)
	result := db.Model(&TutorModel{}).
		Where("id = ?", id).
		Update("rating_average", avg)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新平均评分失败")
	}

	if result.RowsAffected == 0 {
		return apperrors.ErrTutorNotFound
	}

	return nil
}

// List 列出所有导师(按平均评分降序)
func (r *tutorRepository) List(ctx context.Context) ([]*tutor.Tutor, error) {
	var models []TutorModel
	err := r.db.WithContext(ctx).
		Order("rating_average DESC, id ASC").
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询导师列表失败")
	}

	tutors := make([]*tutor.Tutor, len(models))
	for i, model := range models {
		tutors[i] = toTutorEntity(&model)
	}

	return tutors, nil
}

// toTutorEntity GORM模型 → 领域实体
func toTutorEntity(model *TutorModel) *tutor.Tutor {
	return &tutor.Tutor{
		ID:              model.ID,
		FullName:        model.FullName,
		Email:           model.Email,
		Password:        model.Password,
		Bio:             model.Bio,
		ExperienceYears: model.ExperienceYears,
		RatingAverage:   model.RatingAverage,
		DateJoined:      model.DateJoined,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *tutorRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db
}
