package service

import (
	"context"
	"testing"

	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/testutil"
	"monsterhouse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkoutRequest() WorkoutRequest {
	return WorkoutRequest{
		Title:      "Treino B",
		Difficulty: model.DifficultyIntermediate,
		Exercises: []model.Exercise{
			{Name: " Supino ", VideoURL: "https://youtu.be/dQw4w9WgXcQ", Sets: "4", Reps: "10"},
		},
	}
}

func newTrainer(t *testing.T, h *harness) (model.Session, *model.PersonalTrainer) {
	t.Helper()
	profile := testutil.CreateProfile(t, h.db, model.RolePersonal, model.StatusActive)
	trainer, err := h.personal.Create(context.Background(), CreateTrainerRequest{ProfileID: &profile.ID, Name: "Coach"})
	require.NoError(t, err)
	return profile.Session(), trainer
}

func TestWorkoutRequestValidation(t *testing.T) {
	h := newHarness(t)
	admin := testutil.CreateProfile(t, h.db, model.RoleAdmin, model.StatusActive).Session()
	ctx := context.Background()

	noExercises := validWorkoutRequest()
	noExercises.Exercises = nil
	_, err := h.workouts.Create(ctx, admin, noExercises)
	assert.ErrorIs(t, err, util.ErrInvalidWorkout)

	badDifficulty := validWorkoutRequest()
	badDifficulty.Difficulty = "Extremo"
	_, err = h.workouts.Create(ctx, admin, badDifficulty)
	assert.ErrorIs(t, err, util.ErrInvalidWorkout)

	unnamed := validWorkoutRequest()
	unnamed.Exercises[0].Name = " "
	_, err = h.workouts.Create(ctx, admin, unnamed)
	assert.ErrorIs(t, err, util.ErrInvalidWorkout)

	w, err := h.workouts.Create(ctx, admin, validWorkoutRequest())
	require.NoError(t, err)
	assert.Nil(t, w.PersonalID)
	assert.Equal(t, "Supino", w.Exercises[0].Name)
}

func TestStudentSeesAcademyAndLinkedTrainerWorkouts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := testutil.CreateProfile(t, h.db, model.RoleAdmin, model.StatusActive).Session()
	trainerSess, trainer := newTrainer(t, h)
	_, other := newTrainer(t, h)

	_, err := h.workouts.Create(ctx, admin, validWorkoutRequest())
	require.NoError(t, err)
	_, err = h.workouts.Create(ctx, trainerSess, validWorkoutRequest())
	require.NoError(t, err)
	testutil.CreateWorkout(t, h.db, &other.ID, "X")

	list, err := h.workouts.ListForStudent(ctx, h.student)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", list[0].Exercises[0].EmbedURL)

	linked := h.student
	linked.PersonalID = &trainer.ID
	list, err = h.workouts.ListForStudent(ctx, linked)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTrainerCannotEditAcademyWorkout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := testutil.CreateProfile(t, h.db, model.RoleAdmin, model.StatusActive).Session()
	trainerSess, _ := newTrainer(t, h)

	academy, err := h.workouts.Create(ctx, admin, validWorkoutRequest())
	require.NoError(t, err)

	_, err = h.workouts.Update(ctx, trainerSess, academy.ID, validWorkoutRequest())
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.ErrorIs(t, h.workouts.Delete(ctx, trainerSess, academy.ID), util.ErrPermissionDenied)

	_, err = h.workouts.Create(ctx, h.student, validWorkoutRequest())
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, h.workouts.Delete(ctx, admin, academy.ID))
	assert.ErrorIs(t, h.workouts.Delete(ctx, admin, academy.ID), util.ErrWorkoutNotFound)
}
