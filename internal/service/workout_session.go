package service

import (
	"fmt"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/util"
	"sort"
	"time"
)

type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionInProgress SessionState = "in_progress"
	SessionFinished   SessionState = "finished"
)

// WorkoutSession 学员正在进行的训练，仅在完成时落库
type WorkoutSession struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Workout   model.Workout `json:"workout"`
	Completed []int         `json:"completed_exercises"`
	State     SessionState  `json:"state"`
	StartedAt time.Time     `json:"started_at"`
}

// StartWorkoutSession NotStarted -> InProgress，已完成动作集合为空
func StartWorkoutSession(userID string, workout model.Workout, now time.Time) *WorkoutSession {
	return &WorkoutSession{
		ID:        model.GenerateUUID(),
		UserID:    userID,
		Workout:   workout,
		Completed: []int{},
		State:     SessionInProgress,
		StartedAt: now,
	}
}

func (s *WorkoutSession) inProgress() error {
	if s.State != SessionInProgress {
		return fmt.Errorf("%w (state %s)", util.ErrSessionNotInProgress, s.stateName())
	}
	return nil
}

func (s *WorkoutSession) stateName() SessionState {
	if s.State == "" {
		return SessionNotStarted
	}
	return s.State
}

// ToggleExercise 切换第 index 个动作的完成状态，调用两次回到原状态
func (s *WorkoutSession) ToggleExercise(index int) error {
	if err := s.inProgress(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.Workout.Exercises) {
		return fmt.Errorf("%w: %d not in [0, %d)", util.ErrExerciseIndexOutOfRange, index, len(s.Workout.Exercises))
	}

	pos := sort.SearchInts(s.Completed, index)
	if pos < len(s.Completed) && s.Completed[pos] == index {
		s.Completed = append(s.Completed[:pos], s.Completed[pos+1:]...)
		return nil
	}
	s.Completed = append(s.Completed, 0)
	copy(s.Completed[pos+1:], s.Completed[pos:])
	s.Completed[pos] = index
	return nil
}

func (s *WorkoutSession) IsCompleted(index int) bool {
	pos := sort.SearchInts(s.Completed, index)
	return pos < len(s.Completed) && s.Completed[pos] == index
}

func (s *WorkoutSession) CompletedCount() int {
	return len(s.Completed)
}

// CanFinish 只有进行中且至少勾选一个动作时才能完成
func (s *WorkoutSession) CanFinish() error {
	if err := s.inProgress(); err != nil {
		return err
	}
	if len(s.Completed) == 0 {
		return util.ErrNoExercisesCompleted
	}
	return nil
}

// MarkFinished InProgress -> Finished
func (s *WorkoutSession) MarkFinished() error {
	if err := s.CanFinish(); err != nil {
		return err
	}
	s.State = SessionFinished
	return nil
}

// Clone 深拷贝已完成集合，训练模板视为只读
func (s *WorkoutSession) Clone() *WorkoutSession {
	c := *s
	c.Completed = append([]int(nil), s.Completed...)
	return &c
}
