package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/repository"
	"monsterhouse_backend/internal/util"
	"monsterhouse_backend/pkg/logger"
	"monsterhouse_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AchievementService struct {
	Achievements     *repository.AchievementRepository
	UserAchievements *repository.UserAchievementRepository
	Stats            *repository.StatsRepository
	Profiles         *repository.ProfileRepository
	Storage          *StorageService
	Rules            *GamificationRules
	now              func() time.Time
}

func NewAchievementService(
	achievements *repository.AchievementRepository,
	userAchievements *repository.UserAchievementRepository,
	stats *repository.StatsRepository,
	profiles *repository.ProfileRepository,
	storage *StorageService,
	rules *GamificationRules,
) *AchievementService {
	return &AchievementService{
		Achievements:     achievements,
		UserAchievements: userAchievements,
		Stats:            stats,
		Profiles:         profiles,
		Storage:          storage,
		Rules:            rules,
		now:              time.Now,
	}
}

// AchievementView 学员视角的成就及进度
type AchievementView struct {
	model.Achievement
	Unlocked        bool       `json:"unlocked"`
	EarnedAt        *time.Time `json:"earned_at,omitempty"`
	CurrentValue    int        `json:"current_value"`
	ProgressPercent int        `json:"progress_percent"`
}

// AchievementRequest 管理员创建/编辑成就
type AchievementRequest struct {
	Title         string             `json:"title" binding:"required"`
	Description   string             `json:"description"`
	Icon          string             `json:"icon"`
	Color         string             `json:"color"`
	Points        int                `json:"points"`
	CriteriaType  model.CriteriaType `json:"criteria_type" binding:"required"`
	CriteriaValue int                `json:"criteria_value"`
	Active        *bool              `json:"active"`
}

func (r *AchievementRequest) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", util.ErrInvalidAchievement)
	}
	if !r.CriteriaType.Valid() {
		return fmt.Errorf("%w: %q", util.ErrInvalidCriteriaType, r.CriteriaType)
	}
	if r.Points < 0 {
		return fmt.Errorf("%w: points must not be negative", util.ErrInvalidAchievement)
	}
	if r.CriteriaType.AutoEvaluated() && r.CriteriaValue <= 0 {
		return fmt.Errorf("%w: criteria_value must be positive", util.ErrInvalidAchievement)
	}
	if r.CriteriaValue < 0 {
		return fmt.Errorf("%w: criteria_value must not be negative", util.ErrInvalidAchievement)
	}
	return nil
}

func (r *AchievementRequest) apply(a *model.Achievement) {
	a.Title = r.Title
	a.Description = r.Description
	a.Icon = r.Icon
	a.Color = r.Color
	a.Points = r.Points
	a.CriteriaType = r.CriteriaType
	a.CriteriaValue = r.CriteriaValue
	if r.Active != nil {
		a.Active = *r.Active
	}
}

// ListForUser 所有启用成就，附带解锁状态和进度。没有统计行的学员按 0 计算
func (s *AchievementService) ListForUser(ctx context.Context, userID string) ([]AchievementView, error) {
	catalog, err := s.Achievements.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := s.UserAchievements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	earnedAt := make(map[string]time.Time, len(earned))
	for _, ua := range earned {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	stats, err := s.Stats.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	views := make([]AchievementView, 0, len(catalog))
	for _, a := range catalog {
		view := AchievementView{Achievement: a}
		view.CurrentValue, _ = ComparisonValue(stats, a.CriteriaType)
		if at, ok := earnedAt[a.ID]; ok {
			at := at
			view.Unlocked = true
			view.EarnedAt = &at
		}
		view.ProgressPercent = AchievementProgress(stats, a, view.Unlocked)
		views = append(views, view)
	}
	return views, nil
}

// UnlockQualifying 评估并写入新满足条件的成就。
// 目录或已解锁列表读取失败时降级为“无新成就”；写入失败返回可重试错误。
// 开启成就积分奖励时，奖励积分后重新评估直到没有新成就
func (s *AchievementService) UnlockQualifying(ctx context.Context, userID string, stats *model.UserStats) ([]model.Achievement, *model.UserStats, error) {
	catalog, err := s.Achievements.ListActive(ctx)
	if err != nil {
		s.degrade(userID, "list achievements", err)
		return []model.Achievement{}, stats, nil
	}
	unlocked, err := s.UserAchievements.UnlockedIDs(ctx, userID)
	if err != nil {
		s.degrade(userID, "list unlocked achievements", err)
		return []model.Achievement{}, stats, nil
	}

	rules := s.Rules.Get()
	newlyUnlocked := []model.Achievement{}
	for {
		qualifying := EvaluateAchievements(stats, catalog, unlocked)
		if len(qualifying) == 0 {
			return newlyUnlocked, stats, nil
		}

		bonus := 0
		for _, a := range qualifying {
			created, err := s.UserAchievements.Unlock(ctx, userID, a.ID, s.now())
			if err != nil {
				return nil, stats, util.Retryable("unlock achievement", err)
			}
			unlocked[a.ID] = struct{}{}
			if !created {
				continue
			}
			newlyUnlocked = append(newlyUnlocked, a)
			bonus += a.Points
			monitoring.AchievementsUnlocked.WithLabelValues(string(a.CriteriaType)).Inc()
			logger.Log.Info("Achievement unlocked",
				logger.UserID(userID),
				logger.AchievementID(a.ID),
				zap.String("criteria", string(a.CriteriaType)))
		}

		if !rules.AwardAchievementPoints || bonus == 0 {
			return newlyUnlocked, stats, nil
		}
		stats, err = s.Stats.AddPoints(ctx, userID, bonus, rules.PointsPerLevel)
		if err != nil {
			return nil, stats, util.Retryable("award achievement points", err)
		}
	}
}

func (s *AchievementService) degrade(userID, step string, err error) {
	monitoring.AchievementCatalogDegraded.Inc()
	logger.Log.Warn("Achievement evaluation skipped",
		logger.UserID(userID),
		zap.String("step", step),
		zap.Error(err))
}

func (s *AchievementService) ListAll(ctx context.Context) ([]model.Achievement, error) {
	return s.Achievements.ListAll(ctx)
}

func (s *AchievementService) Create(ctx context.Context, req AchievementRequest) (*model.Achievement, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	a := &model.Achievement{Active: true}
	req.apply(a)
	if err := s.Achievements.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AchievementService) Update(ctx context.Context, id string, req AchievementRequest) (*model.Achievement, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	a, err := s.Achievements.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(a)
	if err := s.Achievements.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AchievementService) SetActive(ctx context.Context, id string, active bool) error {
	return s.Achievements.SetActive(ctx, id, active)
}

// UploadBadge 上传徽章图片并写回 badge_url
func (s *AchievementService) UploadBadge(ctx context.Context, id string, file io.ReadSeeker, filename string, size int64) (*model.Achievement, error) {
	a, err := s.Achievements.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.Storage.UploadImage(ctx, util.BadgeDirectory, file, filename, size)
	if err != nil {
		return nil, err
	}
	a.BadgeURL = &url
	if err := s.Achievements.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Grant 管理员手动授予成就（custom 类型唯一的解锁方式），重复授予返回 false
func (s *AchievementService) Grant(ctx context.Context, achievementID, userID string) (bool, error) {
	a, err := s.Achievements.FindByID(ctx, achievementID)
	if err != nil {
		return false, err
	}
	if _, err := s.Profiles.FindByID(ctx, userID); err != nil {
		return false, err
	}
	created, err := s.UserAchievements.Unlock(ctx, userID, a.ID, s.now())
	if err != nil {
		return false, err
	}
	if created {
		monitoring.AchievementsUnlocked.WithLabelValues(string(a.CriteriaType)).Inc()
		logger.Log.Info("Achievement granted", logger.UserID(userID), logger.AchievementID(a.ID))
		rules := s.Rules.Get()
		if rules.AwardAchievementPoints && a.Points > 0 {
			if _, err := s.Stats.AddPoints(ctx, userID, a.Points, rules.PointsPerLevel); err != nil {
				return true, err
			}
		}
	}
	return created, nil
}
