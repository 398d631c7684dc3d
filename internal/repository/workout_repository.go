package repository

import (
	"context"
	"errors"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/util"

	"gorm.io/gorm"
)

type WorkoutRepository struct {
	DB *gorm.DB
}

func NewWorkoutRepository(db *gorm.DB) *WorkoutRepository {
	return &WorkoutRepository{DB: db}
}

// ListVisible 学院公共训练（personal_id 为空）加上所绑定私教的训练
func (r *WorkoutRepository) ListVisible(ctx context.Context, personalID *string) ([]model.Workout, error) {
	var workouts []model.Workout
	q := r.DB.WithContext(ctx)
	if personalID != nil {
		q = q.Where("personal_id IS NULL OR personal_id = ?", *personalID)
	} else {
		q = q.Where("personal_id IS NULL")
	}
	err := q.Order("created_at DESC").Find(&workouts).Error
	return workouts, err
}

// ListByOwner owner 为 nil 表示学院训练
func (r *WorkoutRepository) ListByOwner(ctx context.Context, owner *string) ([]model.Workout, error) {
	var workouts []model.Workout
	q := r.DB.WithContext(ctx)
	if owner == nil {
		q = q.Where("personal_id IS NULL")
	} else {
		q = q.Where("personal_id = ?", *owner)
	}
	err := q.Order("created_at DESC").Find(&workouts).Error
	return workouts, err
}

func (r *WorkoutRepository) FindByID(ctx context.Context, id string) (*model.Workout, error) {
	var w model.Workout
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkoutRepository) Create(ctx context.Context, w *model.Workout) error {
	return r.DB.WithContext(ctx).Create(w).Error
}

func (r *WorkoutRepository) Update(ctx context.Context, w *model.Workout) error {
	return r.DB.WithContext(ctx).Save(w).Error
}

func (r *WorkoutRepository) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Workout{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrWorkoutNotFound
	}
	return nil
}
