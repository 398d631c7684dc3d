package service

import (
	"testing"
	"time"

	"monsterhouse_backend/internal/config"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDefaults() config.GamificationConfig {
	return config.DefaultGamification()
}

func threeExerciseWorkout() model.Workout {
	return model.Workout{
		UUIDBase: model.UUIDBase{ID: "w1"},
		Title:    "Full body",
		Exercises: []model.Exercise{
			{Name: "A"}, {Name: "B"}, {Name: "C"},
		},
	}
}

func TestStartWorkoutSession(t *testing.T) {
	now := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	s := StartWorkoutSession("u1", threeExerciseWorkout(), now)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, SessionInProgress, s.State)
	assert.Equal(t, now, s.StartedAt)
	assert.Zero(t, s.CompletedCount())
}

func TestToggleExerciseIsInvolution(t *testing.T) {
	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())

	require.NoError(t, s.ToggleExercise(1))
	assert.True(t, s.IsCompleted(1))
	require.NoError(t, s.ToggleExercise(1))
	assert.False(t, s.IsCompleted(1))
	assert.Zero(t, s.CompletedCount())
}

func TestToggleExerciseKeepsSetSorted(t *testing.T) {
	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())

	require.NoError(t, s.ToggleExercise(2))
	require.NoError(t, s.ToggleExercise(0))
	require.NoError(t, s.ToggleExercise(1))
	assert.Equal(t, []int{0, 1, 2}, s.Completed)
}

func TestToggleExerciseOutOfRange(t *testing.T) {
	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())

	for _, idx := range []int{-1, 3, 100} {
		err := s.ToggleExercise(idx)
		assert.ErrorIs(t, err, util.ErrExerciseIndexOutOfRange)
	}
	assert.Zero(t, s.CompletedCount())
}

func TestCanFinishRequiresAtLeastOneExercise(t *testing.T) {
	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())
	assert.ErrorIs(t, s.CanFinish(), util.ErrNoExercisesCompleted)

	require.NoError(t, s.ToggleExercise(0))
	assert.NoError(t, s.CanFinish())
}

func TestNotStartedSessionRejectsOperations(t *testing.T) {
	var s WorkoutSession
	s.Workout = threeExerciseWorkout()

	assert.ErrorIs(t, s.ToggleExercise(0), util.ErrSessionNotInProgress)
	assert.ErrorIs(t, s.CanFinish(), util.ErrSessionNotInProgress)
}

func TestFinishedSessionIsTerminal(t *testing.T) {
	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())
	require.NoError(t, s.ToggleExercise(0))
	require.NoError(t, s.MarkFinished())

	assert.Equal(t, SessionFinished, s.State)
	assert.ErrorIs(t, s.ToggleExercise(1), util.ErrSessionNotInProgress)
	assert.ErrorIs(t, s.MarkFinished(), util.ErrSessionNotInProgress)
}

// 勾选 A、C 得 30 分；取消 A 后只剩 C 得 25 分
func TestPointsFollowToggledExercises(t *testing.T) {
	g := configDefaults()
	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())

	require.NoError(t, s.ToggleExercise(0))
	require.NoError(t, s.ToggleExercise(2))
	assert.Equal(t, 30, CompletionPoints(g, s.CompletedCount()))

	require.NoError(t, s.ToggleExercise(0))
	assert.Equal(t, 25, CompletionPoints(g, s.CompletedCount()))
}

func TestCloneDoesNotShareCompletedSet(t *testing.T) {
	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())
	require.NoError(t, s.ToggleExercise(0))

	c := s.Clone()
	require.NoError(t, c.ToggleExercise(1))
	assert.Equal(t, []int{0}, s.Completed)
	assert.Equal(t, []int{0, 1}, c.Completed)
}

func TestGamificationRulesSwap(t *testing.T) {
	rules := NewGamificationRules(configDefaults())
	g := configDefaults()
	g.BaseCompletionPoints = 50
	rules.Set(g)

	assert.Equal(t, 55, CompletionPoints(rules.Get(), 1))
}

func TestGamificationRulesNormalizeZeroValues(t *testing.T) {
	rules := NewGamificationRules(config.GamificationConfig{})
	assert.Equal(t, configDefaults(), rules.Get())
}
