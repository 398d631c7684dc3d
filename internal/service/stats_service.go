package service

import (
	"context"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/repository"
)

type StatsService struct {
	Stats            *repository.StatsRepository
	UserAchievements *repository.UserAchievementRepository
	Rules            *GamificationRules
}

func NewStatsService(stats *repository.StatsRepository, userAchievements *repository.UserAchievementRepository, rules *GamificationRules) *StatsService {
	return &StatsService{Stats: stats, UserAchievements: userAchievements, Rules: rules}
}

// StatsDashboard 学员统计面板
type StatsDashboard struct {
	*model.UserStats
	LevelProgress        int   `json:"level_progress"` // 当前等级内已获得的积分
	PointsToNextLevel    int   `json:"points_to_next_level"`
	AchievementsUnlocked int64 `json:"achievements_unlocked"`
}

// Dashboard 首次访问时创建默认统计行
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*StatsDashboard, error) {
	stats, err := s.Stats.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.UserAchievements.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	perLevel := s.Rules.Get().PointsPerLevel
	intoLevel := stats.TotalPoints % perLevel
	if stats.TotalPoints < 0 {
		intoLevel = 0
	}
	return &StatsDashboard{
		UserStats:            stats,
		LevelProgress:        intoLevel,
		PointsToNextLevel:    perLevel - intoLevel,
		AchievementsUnlocked: count,
	}, nil
}

type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Avatar      *string `json:"avatar,omitempty"`
	Level       int     `json:"level"`
	TotalPoints int     `json:"total_points"`
}

// Leaderboard 积分排行，同分时名次顺延
func (s *StatsService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.Stats.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(rows))
	for i, row := range rows {
		leaderboard[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			Name:        row.Name,
			Avatar:      row.PhotoURL,
			Level:       row.Level,
			TotalPoints: row.TotalPoints,
		}
	}
	return leaderboard, nil
}
