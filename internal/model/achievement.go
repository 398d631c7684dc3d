package model

import (
	"time"
)

// CriteriaType 成就解锁条件类型，封闭枚举
type CriteriaType string

const (
	CriteriaPoints   CriteriaType = "points"
	CriteriaWorkouts CriteriaType = "workouts"
	CriteriaStreak   CriteriaType = "streak"
	CriteriaVideo    CriteriaType = "video"
	CriteriaCustom   CriteriaType = "custom"
)

var CriteriaTypes = []CriteriaType{
	CriteriaPoints,
	CriteriaWorkouts,
	CriteriaStreak,
	CriteriaVideo,
	CriteriaCustom,
}

func (c CriteriaType) Valid() bool {
	switch c {
	case CriteriaPoints, CriteriaWorkouts, CriteriaStreak, CriteriaVideo, CriteriaCustom:
		return true
	}
	return false
}

// AutoEvaluated custom 类型只能由管理员手动授予
func (c CriteriaType) AutoEvaluated() bool {
	return c.Valid() && c != CriteriaCustom
}

// swagger:model Achievement
type Achievement struct {
	UUIDBase
	Title         string       `gorm:"size:100;not null" json:"title"`
	Description   string       `gorm:"type:text" json:"description"`
	Icon          string       `gorm:"size:50" json:"icon"`
	Color         string       `gorm:"size:30" json:"color"`
	Points        int          `gorm:"default:0" json:"points"`
	CriteriaType  CriteriaType `gorm:"size:20;not null" json:"criteria_type"`
	CriteriaValue int          `gorm:"not null" json:"criteria_value"`
	Active        bool         `gorm:"not null;index" json:"active"`
	BadgeURL      *string      `gorm:"size:255" json:"badge_url,omitempty"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement (user_id, achievement_id) 唯一，只插入不更新
// swagger:model UserAchievement
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"not null" json:"earned_at"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
