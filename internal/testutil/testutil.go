// Package testutil 测试用的内存数据库与数据构造函数
package testutil

import (
	"context"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/pkg/database"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 打开已迁移的内存 SQLite；单连接保证所有查询看到同一个库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateProfile(t testing.TB, db *gorm.DB, role model.UserRole, status model.ProfileStatus) *model.Profile {
	t.Helper()
	p := &model.Profile{
		ID:     model.GenerateUUID(),
		Name:   "Aluno " + string(role),
		Role:   role,
		Status: status,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func CreateStats(t testing.TB, db *gorm.DB, userID string, totalPoints, workouts int) *model.UserStats {
	t.Helper()
	s := &model.UserStats{
		UserID:            userID,
		Level:             model.LevelForPoints(totalPoints, 100),
		TotalPoints:       totalPoints,
		WorkoutsCompleted: workouts,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

// CreateAchievement createdOffset 决定目录顺序
func CreateAchievement(t testing.TB, db *gorm.DB, title string, criteria model.CriteriaType, value int, createdOffset time.Duration) *model.Achievement {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &model.Achievement{
		UUIDBase:      model.UUIDBase{CreatedAt: base.Add(createdOffset)},
		Title:         title,
		Points:        10,
		CriteriaType:  criteria,
		CriteriaValue: value,
		Active:        true,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

func CreateWorkout(t testing.TB, db *gorm.DB, personalID *string, exercises ...string) *model.Workout {
	t.Helper()
	w := &model.Workout{
		Title:      "Treino A",
		Category:   "Força",
		Difficulty: model.DifficultyBeginner,
		PersonalID: personalID,
	}
	for _, name := range exercises {
		w.Exercises = append(w.Exercises, model.Exercise{
			Name:     name,
			VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Sets:     "3",
			Reps:     "8-12",
		})
	}
	require.NoError(t, db.Create(w).Error)
	return w
}

func CountRows(t testing.TB, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.WithContext(context.Background()).Model(m).Where(query, args...).Count(&n).Error)
	return n
}
