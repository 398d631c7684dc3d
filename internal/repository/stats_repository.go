package repository

import (
	"context"
	"monsterhouse_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库
func (r *StatsRepository) WithTx(tx *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: tx}
}

func (r *StatsRepository) FindByUserID(ctx context.Context, userID string) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetOrCreate 首次读取时写入默认行；并发的首次读取依赖 user_id 唯一索引只产生一行
func (r *StatsRepository) GetOrCreate(ctx context.Context, userID string) (*model.UserStats, error) {
	defaults := model.NewUserStats(userID)
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&defaults).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// ApplyCompletion 原子累加：workouts_completed + 1，total_points + points，
// 冲突键显式指定为 user_id，不会插入重复行
func (r *StatsRepository) ApplyCompletion(ctx context.Context, userID string, points, pointsPerLevel int) (*model.UserStats, error) {
	return r.increment(ctx, userID, points, 1, pointsPerLevel)
}

// AddPoints 仅累加积分（成就奖励）
func (r *StatsRepository) AddPoints(ctx context.Context, userID string, points, pointsPerLevel int) (*model.UserStats, error) {
	return r.increment(ctx, userID, points, 0, pointsPerLevel)
}

func (r *StatsRepository) increment(ctx context.Context, userID string, points, workouts, pointsPerLevel int) (*model.UserStats, error) {
	row := model.UserStats{
		UserID:            userID,
		Level:             model.LevelForPoints(points, pointsPerLevel),
		TotalPoints:       points,
		WorkoutsCompleted: workouts,
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_points":       gorm.Expr("user_stats.total_points + ?", points),
				"workouts_completed": gorm.Expr("user_stats.workouts_completed + ?", workouts),
				"updated_at":         time.Now(),
			}),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	stats, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	level := model.LevelForPoints(stats.TotalPoints, pointsPerLevel)
	if stats.Level != level {
		err = r.DB.WithContext(ctx).Model(&model.UserStats{}).
			Where("user_id = ?", userID).
			Update("level", level).Error
		if err != nil {
			return nil, err
		}
		stats.Level = level
	}
	return stats, nil
}

// LeaderboardRow 排行榜查询结果
type LeaderboardRow struct {
	UserID      string
	Name        string
	PhotoURL    *string
	Level       int
	TotalPoints int
}

// TopByPoints 按总积分降序，只统计学员；同分按 user_id 保证顺序稳定
func (r *StatsRepository) TopByPoints(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.WithContext(ctx).
		Table("user_stats").
		Select("user_stats.user_id, profiles.name, profiles.photo_url, user_stats.level, user_stats.total_points").
		Joins("JOIN profiles ON profiles.id = user_stats.user_id").
		Where("profiles.role = ?", model.RoleStudent).
		Order("user_stats.total_points DESC, user_stats.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
