package service

import (
	"context"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/repository"
	"monsterhouse_backend/internal/util"
	"monsterhouse_backend/pkg/logger"
	"monsterhouse_backend/pkg/monitoring"
	"monsterhouse_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const finishSpanName = "workout_session.finish"

type WorkoutSessionService struct {
	DB           *gorm.DB
	Workouts     *repository.WorkoutRepository
	Stats        *repository.StatsRepository
	Completions  *repository.CompletionRepository
	Achievements *AchievementService
	Store        SessionStore
	Rules        *GamificationRules
	now          func() time.Time
}

func NewWorkoutSessionService(
	db *gorm.DB,
	workouts *repository.WorkoutRepository,
	stats *repository.StatsRepository,
	completions *repository.CompletionRepository,
	achievements *AchievementService,
	store SessionStore,
	rules *GamificationRules,
) *WorkoutSessionService {
	return &WorkoutSessionService{
		DB:           db,
		Workouts:     workouts,
		Stats:        stats,
		Completions:  completions,
		Achievements: achievements,
		Store:        store,
		Rules:        rules,
		now:          time.Now,
	}
}

// FinishResult 完成训练的结果；AlreadyCredited 表示该会话此前已计分，本次只补做成就评估
type FinishResult struct {
	SessionID          string              `json:"session_id"`
	WorkoutID          string              `json:"workout_id"`
	ExercisesCompleted int                 `json:"exercises_completed"`
	PointsEarned       int                 `json:"points_earned"`
	Stats              *model.UserStats    `json:"stats"`
	NewAchievements    []model.Achievement `json:"new_achievements"`
	AlreadyCredited    bool                `json:"already_credited"`
}

// Start 开始训练，替换该学员此前未完成的会话
func (s *WorkoutSessionService) Start(ctx context.Context, sess model.Session, workoutID string) (*WorkoutSession, error) {
	if !sess.CanTrain() {
		return nil, util.ErrAccountInactive
	}
	workout, err := s.Workouts.FindByID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() && !workout.VisibleTo(sess.PersonalID) {
		return nil, util.ErrWorkoutNotVisible
	}
	if len(workout.Exercises) == 0 {
		return nil, util.ErrInvalidWorkout
	}

	session := StartWorkoutSession(sess.UserID, *workout, s.now())
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	logger.Log.Info("Workout session started",
		logger.UserID(sess.UserID),
		logger.SessionID(session.ID),
		zap.String("workout_id", workout.ID))
	return session, nil
}

func (s *WorkoutSessionService) Current(ctx context.Context, userID string) (*WorkoutSession, error) {
	return s.Store.Get(ctx, userID)
}

// ToggleExercise 保存失败时存储中的会话保持切换前的状态
func (s *WorkoutSessionService) ToggleExercise(ctx context.Context, userID string, index int) (*WorkoutSession, error) {
	session, err := s.Store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.ToggleExercise(index); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Close 放弃当前训练，不计分
func (s *WorkoutSessionService) Close(ctx context.Context, userID string) error {
	if _, err := s.Store.Get(ctx, userID); err != nil {
		return err
	}
	return s.Store.Delete(ctx, userID, "")
}

// Finish 计分、更新统计并评估成就。
// 统计写入与完成记录在同一事务内；任一远程写入失败都返回可重试错误且保留会话
func (s *WorkoutSessionService) Finish(ctx context.Context, userID string) (*FinishResult, error) {
	session, err := s.Store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := session.CanFinish(); err != nil {
		return nil, err
	}

	rules := s.Rules.Get()
	ctx, cancel := context.WithTimeout(ctx, rules.WriteTimeout)
	defer cancel()

	ctx, span := tracing.Tracer.Start(ctx, finishSpanName)
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.Int("session.exercises_completed", session.CompletedCount()),
	)

	result := &FinishResult{
		SessionID:          session.ID,
		WorkoutID:          session.Workout.ID,
		ExercisesCompleted: session.CompletedCount(),
		PointsEarned:       CompletionPoints(rules, session.CompletedCount()),
	}

	statsCtx, statsSpan := tracing.StartStep(ctx, finishSpanName, "stats")
	err = s.DB.WithContext(statsCtx).Transaction(func(tx *gorm.DB) error {
		completions := s.Completions.WithTx(tx)
		stats := s.Stats.WithTx(tx)

		created, err := completions.Record(statsCtx, &model.WorkoutCompletion{
			SessionID:          session.ID,
			UserID:             userID,
			WorkoutID:          session.Workout.ID,
			WorkoutTitle:       session.Workout.Title,
			ExercisesCompleted: session.CompletedCount(),
			PointsEarned:       result.PointsEarned,
			CompletedAt:        s.now(),
		})
		if err != nil {
			return err
		}
		if !created {
			existing, err := completions.FindBySessionID(statsCtx, session.ID)
			if err != nil {
				return err
			}
			result.AlreadyCredited = true
			result.PointsEarned = existing.PointsEarned
			result.ExercisesCompleted = existing.ExercisesCompleted
			result.Stats, err = stats.GetOrCreate(statsCtx, userID)
			return err
		}
		result.Stats, err = stats.ApplyCompletion(statsCtx, userID, result.PointsEarned, rules.PointsPerLevel)
		return err
	})
	if err != nil {
		err = s.finishFailed(statsSpan, userID, session.ID, "stats", err)
		statsSpan.End()
		return nil, err
	}
	statsSpan.End()

	achCtx, achSpan := tracing.StartStep(ctx, finishSpanName, "achievements")
	unlocked, stats, err := s.Achievements.UnlockQualifying(achCtx, userID, result.Stats)
	if err != nil {
		err = s.finishFailed(achSpan, userID, session.ID, "achievements", err)
		achSpan.End()
		return nil, err
	}
	achSpan.SetAttributes(attribute.Int("achievements.unlocked", len(unlocked)))
	achSpan.End()
	result.Stats = stats
	result.NewAchievements = unlocked

	if err := session.MarkFinished(); err != nil {
		return nil, err
	}
	if err := s.Store.Delete(ctx, userID, session.ID); err != nil {
		logger.Log.Warn("Failed to discard finished session", logger.SessionID(session.ID), zap.Error(err))
	}

	if !result.AlreadyCredited {
		monitoring.WorkoutsFinished.Inc()
		monitoring.PointsAwarded.Add(float64(result.PointsEarned))
	}
	logger.Log.Info("Workout session finished",
		logger.UserID(userID),
		logger.SessionID(session.ID),
		logger.Points(result.PointsEarned),
		zap.Int("new_achievements", len(unlocked)),
		zap.Bool("already_credited", result.AlreadyCredited))
	return result, nil
}

func (s *WorkoutSessionService) finishFailed(span trace.Span, userID, sessionID, step string, err error) error {
	tracing.Fail(span, step, err)
	monitoring.SessionFinishFailures.WithLabelValues(step).Inc()
	logger.Log.Error("Failed to finish workout session",
		logger.UserID(userID),
		logger.SessionID(sessionID),
		zap.String("step", step),
		zap.Error(err))
	if util.IsRetryable(err) {
		return err
	}
	return util.Retryable("finish workout", err)
}

// History 已完成训练的分页列表
func (s *WorkoutSessionService) History(ctx context.Context, userID string, page, limit int) (*util.PageResponse, error) {
	list, total, err := s.Completions.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []model.WorkoutCompletion{}
	}
	return &util.PageResponse{List: list, Total: total, Page: page, Limit: limit}, nil
}
