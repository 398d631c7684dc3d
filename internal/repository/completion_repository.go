package repository

import (
	"context"
	"monsterhouse_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) WithTx(tx *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: tx}
}

// Record 按 session_id 幂等插入；返回 false 表示该会话此前已经计分
func (r *CompletionRepository) Record(ctx context.Context, c *model.WorkoutCompletion) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoNothing: true,
		}).
		Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CompletionRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.WorkoutCompletion, error) {
	var c model.WorkoutCompletion
	err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompletionRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]model.WorkoutCompletion, int64, error) {
	var (
		list  []model.WorkoutCompletion
		total int64
	)
	base := func() *gorm.DB {
		return r.DB.WithContext(ctx).Model(&model.WorkoutCompletion{}).Where("user_id = ?", userID)
	}
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base().Order("completed_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error
	return list, total, err
}
