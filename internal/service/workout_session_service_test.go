package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"monsterhouse_backend/internal/config"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/repository"
	"monsterhouse_backend/internal/testutil"
	"monsterhouse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	db           *gorm.DB
	rules        *GamificationRules
	store        SessionStore
	memStore     *MemorySessionStore
	sessions     *WorkoutSessionService
	achievements *AchievementService
	stats        *StatsService
	workouts     *WorkoutService
	personal     *PersonalService
	profiles     *ProfileService
	student      model.Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)
	rules := NewGamificationRules(config.DefaultGamification())
	mem := NewMemorySessionStore(time.Hour)

	profiles := repository.NewProfileRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	userAchievements := repository.NewUserAchievementRepository(db)
	trainers := repository.NewPersonalTrainerRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}}

	achievements := NewAchievementService(
		repository.NewAchievementRepository(db, nil, time.Minute),
		userAchievements,
		statsRepo,
		profiles,
		storage,
		rules,
	)
	h := &harness{
		db:           db,
		rules:        rules,
		store:        mem,
		memStore:     mem,
		achievements: achievements,
		stats:        NewStatsService(statsRepo, userAchievements, rules),
		workouts:     NewWorkoutService(workoutRepo, trainers),
		personal:     NewPersonalService(trainers, profiles, storage),
		profiles:     NewProfileService(profiles),
	}
	h.sessions = NewWorkoutSessionService(db, workoutRepo, statsRepo, repository.NewCompletionRepository(db), achievements, mem, rules)
	h.student = testutil.CreateProfile(t, db, model.RoleStudent, model.StatusActive).Session()
	return h
}

func (h *harness) startWith(t *testing.T, toggles ...int) *WorkoutSession {
	t.Helper()
	w := testutil.CreateWorkout(t, h.db, nil, "A", "B", "C")
	s, err := h.sessions.Start(context.Background(), h.student, w.ID)
	require.NoError(t, err)
	for _, i := range toggles {
		_, err := h.sessions.ToggleExercise(context.Background(), h.student.UserID, i)
		require.NoError(t, err)
	}
	return s
}

func (h *harness) userStats(t *testing.T) model.UserStats {
	t.Helper()
	var s model.UserStats
	require.NoError(t, h.db.Where("user_id = ?", h.student.UserID).First(&s).Error)
	return s
}

func (h *harness) unlockedCount(t *testing.T, achievementID string) int64 {
	return testutil.CountRows(t, h.db, &model.UserAchievement{}, "user_id = ? AND achievement_id = ?", h.student.UserID, achievementID)
}

// 95 分 + 完成 2 个动作（30 分）= 125 分，解锁 100 分成就
func TestFinishUnlocksPointsAchievement(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	testutil.CreateStats(t, h.db, h.student.UserID, 95, 4)
	hundred := testutil.CreateAchievement(t, h.db, "Centenário", model.CriteriaPoints, 100, 0)

	h.startWith(t, 0, 1)
	result, err := h.sessions.Finish(ctx, h.student.UserID)
	require.NoError(t, err)

	assert.Equal(t, 30, result.PointsEarned)
	assert.Equal(t, 125, result.Stats.TotalPoints)
	assert.Equal(t, 5, result.Stats.WorkoutsCompleted)
	assert.Equal(t, 2, result.Stats.Level)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, hundred.ID, result.NewAchievements[0].ID)
	assert.Equal(t, int64(1), h.unlockedCount(t, hundred.ID))

	_, err = h.sessions.Current(ctx, h.student.UserID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestConcurrentFinishCreditsOnce(t *testing.T) {
	h := newHarness(t)
	testutil.CreateStats(t, h.db, h.student.UserID, 95, 4)
	hundred := testutil.CreateAchievement(t, h.db, "Centenário", model.CriteriaPoints, 100, 0)
	h.startWith(t, 0, 1)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.sessions.Finish(context.Background(), h.student.UserID)
			if err != nil && !errors.Is(err, util.ErrSessionNotFound) {
				t.Errorf("unexpected finish error: %v", err)
				return
			}
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, successes, 1)
	stats := h.userStats(t)
	assert.Equal(t, 5, stats.WorkoutsCompleted)
	assert.Equal(t, 125, stats.TotalPoints)
	assert.Equal(t, int64(1), h.unlockedCount(t, hundred.ID))
	assert.Equal(t, int64(1), testutil.CountRows(t, h.db, &model.WorkoutCompletion{}, "user_id = ?", h.student.UserID))
}

func TestFinishPointsFollowToggles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.startWith(t, 0, 2)
	result, err := h.sessions.Finish(ctx, h.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, 30, result.PointsEarned)

	h.startWith(t, 0, 2, 0)
	result, err = h.sessions.Finish(ctx, h.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, 25, result.PointsEarned)

	stats := h.userStats(t)
	assert.Equal(t, 55, stats.TotalPoints)
	assert.Equal(t, 2, stats.WorkoutsCompleted)
}

func TestFinishNeverUnlocksCustomAchievement(t *testing.T) {
	h := newHarness(t)
	testutil.CreateStats(t, h.db, h.student.UserID, 10000, 500)
	custom := testutil.CreateAchievement(t, h.db, "Campeão do mês", model.CriteriaCustom, 1, 0)

	h.startWith(t, 0)
	result, err := h.sessions.Finish(context.Background(), h.student.UserID)
	require.NoError(t, err)
	assert.Empty(t, result.NewAchievements)
	assert.Zero(t, h.unlockedCount(t, custom.ID))
}

func TestFinishWithoutExercisesTouchesNothing(t *testing.T) {
	h := newHarness(t)
	h.startWith(t)

	_, err := h.sessions.Finish(context.Background(), h.student.UserID)
	assert.ErrorIs(t, err, util.ErrNoExercisesCompleted)
	assert.Zero(t, testutil.CountRows(t, h.db, &model.WorkoutCompletion{}, "user_id = ?", h.student.UserID))
	assert.Zero(t, testutil.CountRows(t, h.db, &model.UserStats{}, "user_id = ?", h.student.UserID))

	_, err = h.sessions.Current(context.Background(), h.student.UserID)
	assert.NoError(t, err)
}

func TestFinishStatsFailureKeepsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.db.Exec(`CREATE TRIGGER fail_completion BEFORE INSERT ON workout_completions
		BEGIN SELECT RAISE(ABORT, 'storage offline'); END`).Error)
	h.startWith(t, 0)

	_, err := h.sessions.Finish(ctx, h.student.UserID)
	require.Error(t, err)
	assert.True(t, util.IsRetryable(err))
	assert.Zero(t, testutil.CountRows(t, h.db, &model.UserStats{}, "user_id = ?", h.student.UserID))

	session, err := h.sessions.Current(ctx, h.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, SessionInProgress, session.State)
	assert.Equal(t, 1, session.CompletedCount())
}

func TestFinishRetryAfterUnlockFailureCreditsOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first := testutil.CreateAchievement(t, h.db, "Primeiro treino", model.CriteriaWorkouts, 1, 0)
	require.NoError(t, h.db.Exec(`CREATE TRIGGER fail_unlock BEFORE INSERT ON user_achievements
		BEGIN SELECT RAISE(ABORT, 'storage offline'); END`).Error)
	h.startWith(t, 0, 1, 2)

	_, err := h.sessions.Finish(ctx, h.student.UserID)
	require.Error(t, err)
	assert.True(t, util.IsRetryable(err))
	assert.Equal(t, 1, h.userStats(t).WorkoutsCompleted)

	require.NoError(t, h.db.Exec(`DROP TRIGGER fail_unlock`).Error)

	result, err := h.sessions.Finish(ctx, h.student.UserID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyCredited)
	assert.Equal(t, 35, result.PointsEarned)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, first.ID, result.NewAchievements[0].ID)

	stats := h.userStats(t)
	assert.Equal(t, 1, stats.WorkoutsCompleted)
	assert.Equal(t, 35, stats.TotalPoints)
}

func TestFinishDegradesWhenCatalogUnavailable(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.db.Exec(`DROP TABLE achievements`).Error)
	h.startWith(t, 1)

	result, err := h.sessions.Finish(context.Background(), h.student.UserID)
	require.NoError(t, err)
	assert.Empty(t, result.NewAchievements)
	assert.Equal(t, 25, result.Stats.TotalPoints)
}

func TestFinishAwardsAchievementPointsUntilStable(t *testing.T) {
	h := newHarness(t)
	g := config.DefaultGamification()
	g.AwardAchievementPoints = true
	h.rules.Set(g)

	starter := testutil.CreateAchievement(t, h.db, "25 pontos", model.CriteriaPoints, 25, 0)
	require.NoError(t, h.db.Model(starter).Update("points", 80).Error)
	hundred := testutil.CreateAchievement(t, h.db, "Centenário", model.CriteriaPoints, 100, time.Second)

	h.startWith(t, 0)
	result, err := h.sessions.Finish(context.Background(), h.student.UserID)
	require.NoError(t, err)

	require.Len(t, result.NewAchievements, 2)
	assert.Equal(t, starter.ID, result.NewAchievements[0].ID)
	assert.Equal(t, hundred.ID, result.NewAchievements[1].ID)
	// 25 + 80 + 10
	assert.Equal(t, 115, result.Stats.TotalPoints)
	assert.Equal(t, 2, result.Stats.Level)
	assert.Equal(t, 1, result.Stats.WorkoutsCompleted)
}

func TestStartReplacesPreviousSession(t *testing.T) {
	h := newHarness(t)
	first := h.startWith(t, 0)
	second := h.startWith(t)

	current, err := h.sessions.Current(context.Background(), h.student.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, current.ID)
	assert.Equal(t, second.ID, current.ID)
	assert.Zero(t, current.CompletedCount())
}

func TestStartRejectsInactiveStudent(t *testing.T) {
	h := newHarness(t)
	w := testutil.CreateWorkout(t, h.db, nil, "A")
	late := testutil.CreateProfile(t, h.db, model.RoleStudent, model.StatusLate).Session()

	_, err := h.sessions.Start(context.Background(), late, w.ID)
	assert.ErrorIs(t, err, util.ErrAccountInactive)
}

func TestStartRejectsOtherTrainersWorkout(t *testing.T) {
	h := newHarness(t)
	trainerID := model.GenerateUUID()
	w := testutil.CreateWorkout(t, h.db, &trainerID, "A")

	_, err := h.sessions.Start(context.Background(), h.student, w.ID)
	assert.ErrorIs(t, err, util.ErrWorkoutNotVisible)

	linked := h.student
	linked.PersonalID = &trainerID
	_, err = h.sessions.Start(context.Background(), linked, w.ID)
	assert.NoError(t, err)
}

type failingSaveStore struct {
	*MemorySessionStore
	fail bool
}

func (f *failingSaveStore) Save(ctx context.Context, s *WorkoutSession) error {
	if f.fail {
		return util.Retryable("save workout session", errors.New("redis down"))
	}
	return f.MemorySessionStore.Save(ctx, s)
}

func TestToggleSaveFailureLeavesStoredSessionUnchanged(t *testing.T) {
	h := newHarness(t)
	store := &failingSaveStore{MemorySessionStore: h.memStore}
	h.sessions.Store = store
	h.startWith(t, 0)

	store.fail = true
	_, err := h.sessions.ToggleExercise(context.Background(), h.student.UserID, 1)
	assert.True(t, util.IsRetryable(err))

	current, err := h.sessions.Current(context.Background(), h.student.UserID)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, current.Completed)
}

func TestCloseDiscardsSessionWithoutCredit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.startWith(t, 0, 1)

	require.NoError(t, h.sessions.Close(ctx, h.student.UserID))
	_, err := h.sessions.Current(ctx, h.student.UserID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	assert.Zero(t, testutil.CountRows(t, h.db, &model.WorkoutCompletion{}, "user_id = ?", h.student.UserID))

	assert.ErrorIs(t, h.sessions.Close(ctx, h.student.UserID), util.ErrSessionNotFound)
}

func TestHistoryListsCompletionsNewestFirst(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	for i, toggles := range [][]int{{0}, {0, 1}, {0, 1, 2}} {
		at := base.Add(time.Duration(i) * time.Hour)
		h.sessions.now = func() time.Time { return at }
		h.startWith(t, toggles...)
		_, err := h.sessions.Finish(ctx, h.student.UserID)
		require.NoError(t, err)
	}

	page, err := h.sessions.History(ctx, h.student.UserID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	list := page.List.([]model.WorkoutCompletion)
	require.Len(t, list, 2)
	assert.Equal(t, 35, list[0].PointsEarned)
	assert.Equal(t, 30, list[1].PointsEarned)
}
