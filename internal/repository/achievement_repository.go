package repository

import (
	"context"
	"encoding/json"
	"errors"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/util"
	"monsterhouse_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const activeAchievementsKey = "achievements:active"

type AchievementRepository struct {
	DB       *gorm.DB
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewAchievementRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *AchievementRepository {
	return &AchievementRepository{DB: db, Redis: rdb, CacheTTL: cacheTTL}
}

// ListActive 按目录顺序（created_at, id）返回启用的成就，优先读缓存
func (r *AchievementRepository) ListActive(ctx context.Context) ([]model.Achievement, error) {
	if r.Redis != nil {
		cached, err := r.Redis.Get(ctx, activeAchievementsKey).Bytes()
		if err == nil {
			var list []model.Achievement
			if json.Unmarshal(cached, &list) == nil {
				return list, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("achievement cache read failed", zap.Error(err))
		}
	}

	var list []model.Achievement
	err := r.DB.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}

	if r.Redis != nil {
		if data, err := json.Marshal(list); err == nil {
			r.Redis.Set(ctx, activeAchievementsKey, data, r.CacheTTL)
		}
	}
	return list, nil
}

func (r *AchievementRepository) ListAll(ctx context.Context) ([]model.Achievement, error) {
	var list []model.Achievement
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *AchievementRepository) FindByID(ctx context.Context, id string) (*model.Achievement, error) {
	var a model.Achievement
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAchievementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AchievementRepository) Create(ctx context.Context, a *model.Achievement) error {
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *AchievementRepository) Update(ctx context.Context, a *model.Achievement) error {
	if err := r.DB.WithContext(ctx).Save(a).Error; err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *AchievementRepository) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	err := r.DB.WithContext(ctx).Model(&model.Achievement{}).Where("id = ?", id).Update("active", active).Error
	if err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *AchievementRepository) invalidate(ctx context.Context) {
	if r.Redis == nil {
		return
	}
	if err := r.Redis.Del(ctx, activeAchievementsKey).Err(); err != nil {
		logger.Log.Warn("achievement cache invalidation failed", zap.Error(err))
	}
}
