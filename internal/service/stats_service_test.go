package service

import (
	"context"
	"testing"

	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCreatesDefaultStats(t *testing.T) {
	h := newHarness(t)

	d, err := h.stats.Dashboard(context.Background(), h.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Level)
	assert.Zero(t, d.TotalPoints)
	assert.Zero(t, d.LevelProgress)
	assert.Equal(t, 100, d.PointsToNextLevel)
	assert.Equal(t, int64(1), testutil.CountRows(t, h.db, &model.UserStats{}, "user_id = ?", h.student.UserID))

	_, err = h.stats.Dashboard(context.Background(), h.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), testutil.CountRows(t, h.db, &model.UserStats{}, "user_id = ?", h.student.UserID))
}

func TestDashboardLevelProgress(t *testing.T) {
	h := newHarness(t)
	testutil.CreateStats(t, h.db, h.student.UserID, 125, 5)

	d, err := h.stats.Dashboard(context.Background(), h.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Level)
	assert.Equal(t, 25, d.LevelProgress)
	assert.Equal(t, 75, d.PointsToNextLevel)
}

func TestLeaderboardRanksStudentsByPoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	testutil.CreateStats(t, h.db, h.student.UserID, 120, 4)
	second := testutil.CreateProfile(t, h.db, model.RoleStudent, model.StatusActive)
	testutil.CreateStats(t, h.db, second.ID, 340, 9)
	admin := testutil.CreateProfile(t, h.db, model.RoleAdmin, model.StatusActive)
	testutil.CreateStats(t, h.db, admin.ID, 999, 30)

	board, err := h.stats.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, second.ID, board[0].UserID)
	assert.Equal(t, 340, board[0].TotalPoints)
	assert.Equal(t, 2, board[1].Rank)
	assert.Equal(t, h.student.UserID, board[1].UserID)
	assert.Equal(t, 2, board[1].Level)

	board, err = h.stats.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, second.ID, board[0].UserID)
}
