package service

import (
	"context"
	"testing"
	"time"

	"monsterhouse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)

	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	s := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	// 返回的是副本
	require.NoError(t, got.ToggleExercise(0))
	again, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, again.CompletedCount())
}

func TestMemorySessionStoreDeleteOnlyMatchingSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Hour)

	newer := StartWorkoutSession("u1", threeExerciseWorkout(), time.Now())
	require.NoError(t, store.Save(ctx, newer))

	require.NoError(t, store.Delete(ctx, "u1", "some-older-session"))
	_, err := store.Get(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "u1", newer.ID))
	_, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestMemorySessionStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, StartWorkoutSession("u1", threeExerciseWorkout(), now)))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}
