package repository

import (
	"context"
	"monsterhouse_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserAchievementRepository struct {
	DB *gorm.DB
}

func NewUserAchievementRepository(db *gorm.DB) *UserAchievementRepository {
	return &UserAchievementRepository{DB: db}
}

// UnlockedIDs 返回用户已解锁成就的 ID 集合
func (r *UserAchievementRepository) UnlockedIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *UserAchievementRepository) ListByUser(ctx context.Context, userID string) ([]model.UserAchievement, error) {
	var list []model.UserAchievement
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("earned_at ASC").
		Find(&list).Error
	return list, err
}

// Unlock 幂等插入，(user_id, achievement_id) 冲突时不做任何事。
// created 为 false 表示此前已解锁（包括并发完成训练时被另一请求抢先写入）
func (r *UserAchievementRepository) Unlock(ctx context.Context, userID, achievementID string, earnedAt time.Time) (bool, error) {
	row := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      earnedAt,
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UserAchievementRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserAchievement{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
