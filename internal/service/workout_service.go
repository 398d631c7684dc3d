package service

import (
	"context"
	"fmt"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/repository"
	"monsterhouse_backend/internal/util"
	"strings"
)

type WorkoutService struct {
	Workouts *repository.WorkoutRepository
	Trainers *repository.PersonalTrainerRepository
}

func NewWorkoutService(workouts *repository.WorkoutRepository, trainers *repository.PersonalTrainerRepository) *WorkoutService {
	return &WorkoutService{Workouts: workouts, Trainers: trainers}
}

type ExerciseView struct {
	model.Exercise
	EmbedURL string `json:"embed_url"`
}

type WorkoutView struct {
	model.Workout
	Exercises []ExerciseView `json:"exercises"`
}

func newWorkoutView(w model.Workout) WorkoutView {
	view := WorkoutView{Workout: w, Exercises: make([]ExerciseView, 0, len(w.Exercises))}
	for _, e := range w.Exercises {
		view.Exercises = append(view.Exercises, ExerciseView{Exercise: e, EmbedURL: util.EmbedVideoURL(e.VideoURL)})
	}
	return view
}

type WorkoutRequest struct {
	Title       string           `json:"title" binding:"required"`
	Category    string           `json:"category"`
	Difficulty  model.Difficulty `json:"difficulty" binding:"required"`
	Description string           `json:"description"`
	Exercises   []model.Exercise `json:"exercises" binding:"required"`
}

func (r *WorkoutRequest) validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", util.ErrInvalidWorkout)
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", util.ErrInvalidWorkout, r.Difficulty)
	}
	if len(r.Exercises) == 0 {
		return fmt.Errorf("%w: at least one exercise is required", util.ErrInvalidWorkout)
	}
	for i := range r.Exercises {
		r.Exercises[i].Name = strings.TrimSpace(r.Exercises[i].Name)
		r.Exercises[i].VideoURL = strings.TrimSpace(r.Exercises[i].VideoURL)
		if r.Exercises[i].Name == "" {
			return fmt.Errorf("%w: exercise %d has no name", util.ErrInvalidWorkout, i)
		}
	}
	return nil
}

// ListForStudent 学员可见的训练（学院训练 + 绑定私教的训练），管理员看到全部学院训练
func (s *WorkoutService) ListForStudent(ctx context.Context, sess model.Session) ([]WorkoutView, error) {
	if !sess.CanTrain() {
		return nil, util.ErrAccountInactive
	}
	workouts, err := s.Workouts.ListVisible(ctx, sess.PersonalID)
	if err != nil {
		return nil, err
	}
	views := make([]WorkoutView, 0, len(workouts))
	for _, w := range workouts {
		views = append(views, newWorkoutView(w))
	}
	return views, nil
}

// owner 管理员返回 nil（学院训练），私教返回其 ID
func (s *WorkoutService) owner(ctx context.Context, sess model.Session) (*string, error) {
	if sess.IsAdmin() {
		return nil, nil
	}
	if sess.Role != model.RolePersonal {
		return nil, util.ErrPermissionDenied
	}
	trainer, err := s.Trainers.FindByProfileID(ctx, sess.UserID)
	if err != nil {
		return nil, util.ErrNotPersonalTrainer
	}
	return &trainer.ID, nil
}

func sameOwner(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *WorkoutService) ListOwned(ctx context.Context, sess model.Session) ([]WorkoutView, error) {
	owner, err := s.owner(ctx, sess)
	if err != nil {
		return nil, err
	}
	workouts, err := s.Workouts.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	views := make([]WorkoutView, 0, len(workouts))
	for _, w := range workouts {
		views = append(views, newWorkoutView(w))
	}
	return views, nil
}

func (s *WorkoutService) Create(ctx context.Context, sess model.Session, req WorkoutRequest) (*model.Workout, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	owner, err := s.owner(ctx, sess)
	if err != nil {
		return nil, err
	}
	w := &model.Workout{
		Title:       req.Title,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		Description: req.Description,
		Exercises:   req.Exercises,
		PersonalID:  owner,
	}
	if err := s.Workouts.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WorkoutService) findOwned(ctx context.Context, sess model.Session, id string) (*model.Workout, error) {
	owner, err := s.owner(ctx, sess)
	if err != nil {
		return nil, err
	}
	w, err := s.Workouts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sameOwner(w.PersonalID, owner) {
		return nil, util.ErrPermissionDenied
	}
	return w, nil
}

func (s *WorkoutService) Update(ctx context.Context, sess model.Session, id string, req WorkoutRequest) (*model.Workout, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	w, err := s.findOwned(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	w.Title = req.Title
	w.Category = req.Category
	w.Difficulty = req.Difficulty
	w.Description = req.Description
	w.Exercises = req.Exercises
	if err := s.Workouts.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete 进行中的会话持有训练快照，不受删除影响
func (s *WorkoutService) Delete(ctx context.Context, sess model.Session, id string) error {
	if _, err := s.findOwned(ctx, sess, id); err != nil {
		return err
	}
	return s.Workouts.Delete(ctx, id)
}
