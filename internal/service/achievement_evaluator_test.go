package service

import (
	"testing"

	"monsterhouse_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func achievement(id string, criteria model.CriteriaType, value int) model.Achievement {
	return model.Achievement{
		UUIDBase:      model.UUIDBase{ID: id},
		Title:         id,
		CriteriaType:  criteria,
		CriteriaValue: value,
		Active:        true,
	}
}

func ids(list []model.Achievement) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestComparisonValue(t *testing.T) {
	stats := &model.UserStats{TotalPoints: 120, WorkoutsCompleted: 7, CurrentStreak: 3, VideosCompleted: 2}

	cases := []struct {
		criteria model.CriteriaType
		value    int
		ok       bool
	}{
		{model.CriteriaPoints, 120, true},
		{model.CriteriaWorkouts, 7, true},
		{model.CriteriaStreak, 3, true},
		{model.CriteriaVideo, 2, true},
		{model.CriteriaCustom, 0, false},
		{model.CriteriaType("distance"), 0, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.criteria), func(t *testing.T) {
			v, ok := ComparisonValue(stats, tc.criteria)
			assert.Equal(t, tc.value, v)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestComparisonValueNilStatsIsZero(t *testing.T) {
	v, ok := ComparisonValue(nil, model.CriteriaPoints)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestEvaluateAchievements(t *testing.T) {
	catalog := []model.Achievement{
		achievement("first-workout", model.CriteriaWorkouts, 1),
		achievement("hundred-points", model.CriteriaPoints, 100),
		achievement("streak-7", model.CriteriaStreak, 7),
		achievement("ten-workouts", model.CriteriaWorkouts, 10),
	}
	stats := &model.UserStats{TotalPoints: 125, WorkoutsCompleted: 5, CurrentStreak: 2}

	got := EvaluateAchievements(stats, catalog, map[string]struct{}{})
	assert.Equal(t, []string{"first-workout", "hundred-points"}, ids(got))
}

func TestEvaluateAchievementsSkipsUnlocked(t *testing.T) {
	catalog := []model.Achievement{
		achievement("first-workout", model.CriteriaWorkouts, 1),
		achievement("hundred-points", model.CriteriaPoints, 100),
	}
	stats := &model.UserStats{TotalPoints: 500, WorkoutsCompleted: 50}
	unlocked := map[string]struct{}{"first-workout": {}}

	got := EvaluateAchievements(stats, catalog, unlocked)
	assert.Equal(t, []string{"hundred-points"}, ids(got))
}

func TestEvaluateAchievementsSkipsInactive(t *testing.T) {
	inactive := achievement("retired", model.CriteriaPoints, 1)
	inactive.Active = false

	got := EvaluateAchievements(&model.UserStats{TotalPoints: 10}, []model.Achievement{inactive}, nil)
	assert.Empty(t, got)
}

func TestEvaluateAchievementsNeverReturnsCustom(t *testing.T) {
	catalog := []model.Achievement{
		achievement("custom-zero", model.CriteriaCustom, 0),
		achievement("custom-one", model.CriteriaCustom, 1),
	}
	for _, stats := range []*model.UserStats{
		nil,
		{},
		{TotalPoints: 1 << 30, WorkoutsCompleted: 1 << 20, CurrentStreak: 365, VideosCompleted: 999},
	} {
		assert.Empty(t, EvaluateAchievements(stats, catalog, map[string]struct{}{}))
	}
}

func TestEvaluateAchievementsBoundary(t *testing.T) {
	catalog := []model.Achievement{achievement("hundred-points", model.CriteriaPoints, 100)}

	assert.Empty(t, EvaluateAchievements(&model.UserStats{TotalPoints: 99}, catalog, nil))
	assert.Len(t, EvaluateAchievements(&model.UserStats{TotalPoints: 100}, catalog, nil), 1)
}

func TestEvaluateAchievementsNonPositiveThresholdQualifiesImmediately(t *testing.T) {
	catalog := []model.Achievement{achievement("welcome", model.CriteriaWorkouts, 0)}
	assert.Len(t, EvaluateAchievements(nil, catalog, nil), 1)
}

func TestAchievementProgress(t *testing.T) {
	points100 := achievement("p", model.CriteriaPoints, 100)

	assert.Equal(t, 0, AchievementProgress(nil, points100, false))
	assert.Equal(t, 45, AchievementProgress(&model.UserStats{TotalPoints: 45}, points100, false))
	assert.Equal(t, 100, AchievementProgress(&model.UserStats{TotalPoints: 250}, points100, false))
	assert.Equal(t, 100, AchievementProgress(&model.UserStats{}, points100, true))
	assert.Equal(t, 0, AchievementProgress(&model.UserStats{TotalPoints: 500}, achievement("c", model.CriteriaCustom, 1), false))
	assert.Equal(t, 100, AchievementProgress(&model.UserStats{}, achievement("z", model.CriteriaWorkouts, 0), false))
}

func TestCompletionPoints(t *testing.T) {
	rules := NewGamificationRules(configDefaults())
	g := rules.Get()

	assert.Equal(t, 25, CompletionPoints(g, 1))
	assert.Equal(t, 30, CompletionPoints(g, 2))
	assert.Equal(t, 35, CompletionPoints(g, 3))
}
