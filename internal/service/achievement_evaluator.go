package service

import "monsterhouse_backend/internal/model"

// ComparisonValue 返回成就条件对应的统计值。stats 为 nil（新用户尚未初始化）时视为 0。
// custom 及未知类型返回 ok=false，永远不会自动解锁
func ComparisonValue(stats *model.UserStats, criteria model.CriteriaType) (value int, ok bool) {
	if stats == nil {
		stats = &model.UserStats{}
	}
	switch criteria {
	case model.CriteriaPoints:
		return stats.TotalPoints, true
	case model.CriteriaWorkouts:
		return stats.WorkoutsCompleted, true
	case model.CriteriaStreak:
		return stats.CurrentStreak, true
	case model.CriteriaVideo:
		return stats.VideosCompleted, true
	case model.CriteriaCustom:
		return 0, false
	default:
		return 0, false
	}
}

// Qualifies criteria_value <= 0 的自动成就在评估时即满足
func Qualifies(stats *model.UserStats, a model.Achievement) bool {
	value, ok := ComparisonValue(stats, a.CriteriaType)
	if !ok {
		return false
	}
	return value >= a.CriteriaValue
}

// EvaluateAchievements 返回新满足条件且尚未解锁的成就，保持目录顺序
func EvaluateAchievements(stats *model.UserStats, catalog []model.Achievement, unlocked map[string]struct{}) []model.Achievement {
	var qualifying []model.Achievement
	for _, a := range catalog {
		if !a.Active {
			continue
		}
		if _, done := unlocked[a.ID]; done {
			continue
		}
		if Qualifies(stats, a) {
			qualifying = append(qualifying, a)
		}
	}
	return qualifying
}

// AchievementProgress 进度百分比，范围 [0, 100]；已解锁的成就固定为 100
func AchievementProgress(stats *model.UserStats, a model.Achievement, unlocked bool) int {
	if unlocked {
		return 100
	}
	value, ok := ComparisonValue(stats, a.CriteriaType)
	if !ok {
		return 0
	}
	if a.CriteriaValue <= 0 {
		return 100
	}
	if value <= 0 {
		return 0
	}
	if value >= a.CriteriaValue {
		return 100
	}
	return 100 * value / a.CriteriaValue
}
