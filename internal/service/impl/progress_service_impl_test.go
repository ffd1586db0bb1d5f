package impl

import (
	"context"
	"testing"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/service"
	"sfc/internal/store"
	"sfc/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type progressEnv struct {
	st       *store.Store
	clock    *fakeClock
	catalog  *CatalogServiceImpl
	progress *ProgressServiceImpl
	profiles *ProfileServiceImpl
}

func newProgressEnv(t *testing.T) *progressEnv {
	t.Helper()
	st := storetest.New(t)
	clock := newFakeClock()
	cat := NewCatalogService(st)
	cat.now = clock.Now
	prog := NewProgressService(ProgressConfig{}, st)
	prog.now = clock.Now
	prof := NewProfileService(st)
	prof.now = clock.Now
	return &progressEnv{st: st, clock: clock, catalog: cat, progress: prog, profiles: prof}
}

func complete(t *testing.T, e *progressEnv, userID uuid.UUID, w domain.Workout) *dto.CompletionResult {
	t.Helper()
	res, err := e.progress.CompleteWorkout(context.Background(), userID, w.ID, dto.CompleteWorkoutRequest{})
	require.NoError(t, err)
	return res
}

func TestEnrollmentCap(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "cap@example.com")

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		ids = append(ids, publishedProgram(t, e.catalog, "P", 20).ID)
	}
	for _, id := range ids[:3] {
		_, err := e.progress.Enroll(ctx, u.ID, id)
		require.NoError(t, err)
	}
	_, err := e.progress.Enroll(ctx, u.ID, ids[3])
	require.ErrorIs(t, err, domain.ErrMaxEnrollments)

	_, err = e.progress.Enroll(ctx, u.ID, ids[0])
	require.ErrorIs(t, err, domain.ErrAlreadyEnrolled)

	require.NoError(t, e.progress.Unenroll(ctx, u.ID, ids[0]))
	_, err = e.progress.Enroll(ctx, u.ID, ids[3])
	require.NoError(t, err)
}

func TestReactivationRespectsCap(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "recap@example.com")

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		ids = append(ids, publishedProgram(t, e.catalog, "P", 20).ID)
	}
	for _, id := range ids[:3] {
		_, err := e.progress.Enroll(ctx, u.ID, id)
		require.NoError(t, err)
	}
	require.NoError(t, e.progress.Unenroll(ctx, u.ID, ids[0]))
	_, err := e.progress.Enroll(ctx, u.ID, ids[3])
	require.NoError(t, err)

	_, err = e.progress.Enroll(ctx, u.ID, ids[0])
	require.ErrorIs(t, err, domain.ErrMaxEnrollments)

	en, err := e.st.Enrollments().GetForUpdate(ctx, u.ID, ids[0])
	require.NoError(t, err)
	require.False(t, en.IsActive, "rejected reactivation leaves the enrollment paused")

	require.NoError(t, e.progress.Unenroll(ctx, u.ID, ids[1]))
	en, err = e.progress.Enroll(ctx, u.ID, ids[0])
	require.NoError(t, err)
	require.True(t, en.IsActive)
}

func TestEnrollRejectsUnknownAndUnpublished(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "draft@example.com")

	_, err := e.progress.Enroll(ctx, u.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrProgramNotFound)

	draft, err := e.catalog.Create(ctx, dto.CreateProgramRequest{
		Title: "Draft", Goal: "endurance", Difficulty: "advanced", DurationWeeks: 2, DaysPerWeek: 3, MinutesPerSession: 40,
	})
	require.NoError(t, err)
	_, err = e.progress.Enroll(ctx, u.ID, draft.ID)
	require.ErrorIs(t, err, domain.ErrProgramNotPublished)
}

func TestWorkoutGatingAndProgress(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "gate@example.com")
	p := publishedProgram(t, e.catalog, "Gated", 30, 20, 25, 15)

	_, err := e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[0].ID, dto.CompleteWorkoutRequest{})
	require.ErrorIs(t, err, domain.ErrNotEnrolled)

	_, err = e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)

	_, err = e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[1].ID, dto.CompleteWorkoutRequest{})
	require.ErrorIs(t, err, domain.ErrPreviousNotCompleted)

	res := complete(t, e, u.ID, p.Workouts[0])
	require.False(t, res.ProgramCompleted)
	require.Equal(t, p.Workouts[1].ID, res.NextWorkout.ID)

	_, err = e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[0].ID, dto.CompleteWorkoutRequest{})
	require.ErrorIs(t, err, domain.ErrAlreadyCompleted)

	complete(t, e, u.ID, p.Workouts[1])

	prog, err := e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 4, prog.TotalDays)
	require.Equal(t, 50.0, prog.ProgressPercent)
	require.Equal(t, 50, prog.Enrollment.TotalMinutesCompleted)
	require.Equal(t, 3, prog.Enrollment.CurrentDay)
	require.Equal(t, p.Workouts[2].ID, prog.NextWorkout.ID)

	minutes := 40
	res, err = e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[2].ID, dto.CompleteWorkoutRequest{DurationMinutes: &minutes})
	require.NoError(t, err)
	require.Equal(t, 40, res.Completion.DurationMinutes)

	res = complete(t, e, u.ID, p.Workouts[3])
	require.True(t, res.ProgramCompleted)
	require.Nil(t, res.NextWorkout)

	prog, err = e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, prog.ProgressPercent)
	require.NotNil(t, prog.Enrollment.CompletedAt)
	require.Nil(t, prog.NextWorkout)
}

func TestTwoWorkoutProgramWithDurationOverride(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "two@example.com")
	p := publishedProgram(t, e.catalog, "Two", 30, 20)
	_, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)

	res, err := e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[0].ID, dto.CompleteWorkoutRequest{DurationMinutes: ptr(25)})
	require.NoError(t, err)
	require.Equal(t, 25, res.Completion.DurationMinutes)
	require.False(t, res.ProgramCompleted)

	prog, err := e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 50.0, prog.ProgressPercent)
	require.Equal(t, 25, prog.Enrollment.TotalMinutesCompleted)

	res = complete(t, e, u.ID, p.Workouts[1])
	require.True(t, res.ProgramCompleted)

	prog, err = e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, prog.ProgressPercent)
	require.Equal(t, 55, prog.Enrollment.TotalMinutesCompleted)
	require.Equal(t, 2, prog.Enrollment.TotalWorkoutsCompleted)
}

func TestCompletionValidation(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "valid@example.com")
	p := publishedProgram(t, e.catalog, "V", 20)
	_, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)

	for _, r := range []dto.CompleteWorkoutRequest{
		{Rating: ptr(6)},
		{Rating: ptr(0)},
		{DifficultyFelt: ptr("brutal")},
		{DurationMinutes: ptr(0)},
	} {
		_, err := e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[0].ID, r)
		require.ErrorIs(t, err, service.ErrValidation)
	}

	_, err = e.progress.CompleteWorkout(ctx, u.ID, uuid.New(), dto.CompleteWorkoutRequest{})
	require.ErrorIs(t, err, domain.ErrWorkoutNotFound)

	res, err := e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[0].ID, dto.CompleteWorkoutRequest{
		Rating: ptr(4), DifficultyFelt: ptr("just_right"), Notes: ptr("felt good"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.FeltJustRight, *res.Completion.DifficultyFelt)
}

func TestGatingSkipsMissingDays(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "gap@example.com")
	p := publishedProgram(t, e.catalog, "Gap", 20)

	w, err := e.catalog.AddWorkout(ctx, p.ID, dto.WorkoutInput{
		WeekNumber: 1, DayNumber: 3, Title: "Day 3", Intensity: "high", DurationMinutes: 25, VideoURL: "https://v.example.com/3",
	})
	require.NoError(t, err)
	_, err = e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)

	// day 2 does not exist, so day 3 is open
	complete(t, e, u.ID, *w)
}

func TestUnenrollKeepsStatsAndReactivation(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "pause@example.com")
	p := publishedProgram(t, e.catalog, "Pause", 30, 20)

	_, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)
	complete(t, e, u.ID, p.Workouts[0])

	require.NoError(t, e.progress.Unenroll(ctx, u.ID, p.ID))
	prog, err := e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.False(t, prog.Enrollment.IsActive)
	require.NotNil(t, prog.Enrollment.PausedAt)
	require.Equal(t, 1, prog.Enrollment.TotalWorkoutsCompleted)

	_, err = e.progress.CompleteWorkout(ctx, u.ID, p.Workouts[1].ID, dto.CompleteWorkoutRequest{})
	require.ErrorIs(t, err, domain.ErrNotEnrolled)

	en, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.True(t, en.IsActive)
	require.Equal(t, 1, en.CurrentDay)
	require.Equal(t, 1, en.TotalWorkoutsCompleted)

	list, err := e.progress.ListWorkouts(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.True(t, list[0].IsCompleted, "completions survive reactivation")
	require.False(t, list[1].IsLocked)

	require.ErrorIs(t, e.progress.Unenroll(ctx, u.ID, uuid.New()), domain.ErrNotEnrolled)
}

func TestListWorkoutsLockProjection(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "locks@example.com")
	p := publishedProgram(t, e.catalog, "Locks", 10, 10, 10)
	_, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)

	list, err := e.progress.ListWorkouts(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.False(t, list[0].IsLocked)
	require.True(t, list[1].IsLocked)
	require.True(t, list[2].IsLocked)

	complete(t, e, u.ID, p.Workouts[0])
	list, err = e.progress.ListWorkouts(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.True(t, list[0].IsCompleted)
	require.NotNil(t, list[0].CompletedAt)
	require.False(t, list[1].IsLocked)
	require.True(t, list[2].IsLocked)

	_, err = e.progress.ListWorkouts(ctx, uuid.New(), p.ID)
	require.ErrorIs(t, err, domain.ErrNotEnrolled)
}

func TestProgressWithoutWorkouts(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "empty@example.com")
	p := publishedProgram(t, e.catalog, "Empty")

	_, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)
	prog, err := e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 0, prog.TotalDays)
	require.Equal(t, 0.0, prog.ProgressPercent)
	require.Nil(t, prog.NextWorkout)
}

func TestStreakAcrossDays(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "streak@example.com")
	p := publishedProgram(t, e.catalog, "Streak", 10, 10, 10, 10)
	_, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)

	complete(t, e, u.ID, p.Workouts[0])
	complete(t, e, u.ID, p.Workouts[1])
	e.clock.Advance(24 * time.Hour)
	complete(t, e, u.ID, p.Workouts[2])

	prog, err := e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 2, prog.Enrollment.StreakDays)

	e.clock.Advance(72 * time.Hour)
	complete(t, e, u.ID, p.Workouts[3])
	prog, err = e.progress.Progress(ctx, u.ID, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, prog.Enrollment.StreakDays)
}

func TestContinueListsInProgress(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "continue@example.com")
	a := publishedProgram(t, e.catalog, "A", 10)
	b := publishedProgram(t, e.catalog, "B", 10, 10)

	_, err := e.progress.Enroll(ctx, u.ID, a.ID)
	require.NoError(t, err)
	_, err = e.progress.Enroll(ctx, u.ID, b.ID)
	require.NoError(t, err)
	complete(t, e, u.ID, a.Workouts[0]) // completes A

	list, err := e.progress.Continue(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, b.ID, list[0].Program.ID)
	require.Equal(t, b.Workouts[0].ID, list[0].NextWorkout.ID)
}

func TestRecommendations(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "recs@example.com")

	recs, err := e.progress.Recommend(ctx, u.ID, 0)
	require.NoError(t, err)
	require.NotNil(t, recs.Programs)
	require.Empty(t, recs.Programs)

	match := publishedProgram(t, e.catalog, "Match", 10)

	_, err = e.profiles.Onboard(ctx, u.ID, dto.OnboardingRequest{
		PrimaryGoal: ptr("weight_loss"), FitnessLevel: ptr("beginner"), HealthDisclaimerAccepted: true,
	})
	require.NoError(t, err)
	recs, err = e.progress.Recommend(ctx, u.ID, 6)
	require.NoError(t, err)
	require.Equal(t, "Based on your goal: weight loss", recs.Reason)
	require.Len(t, recs.Programs, 1)
	require.Equal(t, match.ID, recs.Programs[0].ID)

	_, err = e.profiles.Update(ctx, u.ID, dto.UpdateProfileRequest{PrimaryGoal: ptr("flexibility")})
	require.NoError(t, err)
	recs, err = e.progress.Recommend(ctx, u.ID, 6)
	require.NoError(t, err)
	require.Equal(t, reasonFeatured, recs.Reason)
	require.Len(t, recs.Programs, 1)
}
