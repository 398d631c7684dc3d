package util

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound     = errors.New("profile not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrAccountInactive  = errors.New("account is not active")
	ErrInvalidProfile   = errors.New("invalid profile")

	// 训练会话
	ErrSessionNotFound         = errors.New("no workout session in progress")
	ErrSessionNotInProgress    = errors.New("workout session is not in progress")
	ErrNoExercisesCompleted    = errors.New("at least one exercise must be completed before finishing")
	ErrExerciseIndexOutOfRange = errors.New("exercise index out of range")
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrWorkoutNotVisible       = errors.New("workout not available for this student")
	ErrInvalidWorkout          = errors.New("invalid workout")

	// 成就
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrInvalidCriteriaType = errors.New("invalid achievement criteria type")
	ErrInvalidAchievement  = errors.New("invalid achievement")

	// 私教
	ErrTrainerNotFound    = errors.New("personal trainer not found")
	ErrInvalidAccessCode  = errors.New("invalid access code")
	ErrAccessCodeTaken    = errors.New("access code already in use")
	ErrTrainerNotLinked   = errors.New("no personal trainer linked")
	ErrNotPersonalTrainer = errors.New("caller is not a personal trainer")
	ErrInvalidTrainer     = errors.New("invalid personal trainer")

	ErrInvalidUpload = errors.New("invalid upload")

	// ErrRetryable 远程写入失败，可重试；会话不会被丢弃
	ErrRetryable = errors.New("temporary storage failure, please retry")
)

// retryableError 保留原始错误，同时可被 errors.Is(err, ErrRetryable) 识别
type retryableError struct {
	op  string
	err error
}

func (e *retryableError) Error() string {
	return e.op + ": " + ErrRetryable.Error() + ": " + e.err.Error()
}

func (e *retryableError) Unwrap() []error {
	return []error{ErrRetryable, e.err}
}

// Retryable 包装远程写入错误
func Retryable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{op: op, err: err}
}

// IsRetryable 包括超时
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable) || errors.Is(err, context.DeadlineExceeded)
}
