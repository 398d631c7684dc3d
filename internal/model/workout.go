package model

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Iniciante"
	DifficultyIntermediate Difficulty = "Intermediário"
	DifficultyAdvanced     Difficulty = "Avançado"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Exercise sets/reps 为自由文本，允许 "8-12" 这样的区间
type Exercise struct {
	Name     string `json:"name"`
	VideoURL string `json:"video_url"`
	Sets     string `json:"sets"`
	Reps     string `json:"reps"`
}

// swagger:model Workout
type Workout struct {
	UUIDBase
	Title       string     `gorm:"size:150;not null" json:"title"`
	Category    string     `gorm:"size:50" json:"category"`
	Difficulty  Difficulty `gorm:"size:20" json:"difficulty"`
	Description string     `gorm:"type:text" json:"description"`
	Exercises   []Exercise `gorm:"serializer:json;type:text" json:"exercises"`
	PersonalID  *string    `gorm:"type:varchar(36);index" json:"personal_id"`
}

func (Workout) TableName() string {
	return "workouts"
}

// VisibleTo 学员只能看到学院公共训练或所绑定私教的训练
func (w *Workout) VisibleTo(personalID *string) bool {
	if w.PersonalID == nil {
		return true
	}
	return personalID != nil && *w.PersonalID == *personalID
}

// WorkoutCompletion 每次完成训练一行，session_id 唯一以保证同一次训练只计分一次
// swagger:model WorkoutCompletion
type WorkoutCompletion struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID          string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"session_id"`
	UserID             string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	WorkoutID          string    `gorm:"type:varchar(36);index" json:"workout_id"`
	WorkoutTitle       string    `gorm:"size:150" json:"workout_title"`
	ExercisesCompleted int       `gorm:"not null" json:"exercises_completed"`
	PointsEarned       int       `gorm:"not null" json:"points_earned"`
	CompletedAt        time.Time `gorm:"not null;index" json:"completed_at"`
}

func (WorkoutCompletion) TableName() string {
	return "workout_completions"
}
