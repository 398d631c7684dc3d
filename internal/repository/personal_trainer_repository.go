package repository

import (
	"context"
	"errors"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/util"

	"gorm.io/gorm"
)

type PersonalTrainerRepository struct {
	DB *gorm.DB
}

func NewPersonalTrainerRepository(db *gorm.DB) *PersonalTrainerRepository {
	return &PersonalTrainerRepository{DB: db}
}

func (r *PersonalTrainerRepository) Create(ctx context.Context, t *model.PersonalTrainer) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *PersonalTrainerRepository) Update(ctx context.Context, t *model.PersonalTrainer) error {
	return r.DB.WithContext(ctx).Save(t).Error
}

func (r *PersonalTrainerRepository) FindByID(ctx context.Context, id string) (*model.PersonalTrainer, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *PersonalTrainerRepository) FindByAccessCode(ctx context.Context, code string) (*model.PersonalTrainer, error) {
	return r.findOne(ctx, "access_code = ?", code)
}

func (r *PersonalTrainerRepository) FindByProfileID(ctx context.Context, profileID string) (*model.PersonalTrainer, error) {
	return r.findOne(ctx, "profile_id = ?", profileID)
}

func (r *PersonalTrainerRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.PersonalTrainer, error) {
	var t model.PersonalTrainer
	err := r.DB.WithContext(ctx).Where(query, arg).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PersonalTrainerRepository) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.PersonalTrainer{}).Where("access_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ListWithStudentCount 管理后台列表，附带绑定学员数
func (r *PersonalTrainerRepository) ListWithStudentCount(ctx context.Context) ([]model.PersonalTrainer, error) {
	var trainers []model.PersonalTrainer
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&trainers).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		PersonalID string
		Total      int64
	}
	var rows []countRow
	err := r.DB.WithContext(ctx).Model(&model.Profile{}).
		Select("personal_id, COUNT(*) AS total").
		Where("personal_id IS NOT NULL").
		Group("personal_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PersonalID] = row.Total
	}
	for i := range trainers {
		trainers[i].StudentsCount = counts[trainers[i].ID]
	}
	return trainers, nil
}
