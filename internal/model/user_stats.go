package model

import "time"

// UserStats 每个学员一行，user_id 唯一，不做软删除
// swagger:model UserStats
type UserStats struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID            string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Level             int       `gorm:"default:1;not null" json:"level"`
	TotalPoints       int       `gorm:"default:0;not null" json:"total_points"`
	WorkoutsCompleted int       `gorm:"default:0;not null" json:"workouts_completed"`
	VideosCompleted   int       `gorm:"default:0;not null" json:"videos_completed"`
	CurrentStreak     int       `gorm:"default:0;not null" json:"current_streak"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// NewUserStats 首次读取时使用的默认值
func NewUserStats(userID string) UserStats {
	return UserStats{UserID: userID, Level: 1}
}

// LevelForPoints 等级由总积分推导：每 pointsPerLevel 分升一级，从 1 级开始
func LevelForPoints(totalPoints, pointsPerLevel int) int {
	if pointsPerLevel <= 0 || totalPoints <= 0 {
		return 1
	}
	return 1 + totalPoints/pointsPerLevel
}
