package impl

import (
	"context"
	"testing"

	"sfc/internal/domain"
	"sfc/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func baseProgram() dto.CreateProgramRequest {
	return dto.CreateProgramRequest{
		Title: "Core Basics", Goal: "general_fitness", Difficulty: "beginner",
		DurationWeeks: 4, DaysPerWeek: 3, MinutesPerSession: 25,
	}
}

func workoutOn(day int) dto.WorkoutInput {
	return dto.WorkoutInput{
		WeekNumber: 1, DayNumber: day, Title: "Session", Intensity: "medium",
		DurationMinutes: 25, VideoURL: "https://videos.example.com/core.mp4",
	}
}

func TestCreateProgramStartsUnpublished(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()

	req := baseProgram()
	req.Workouts = []dto.WorkoutInput{workoutOn(2), workoutOn(1)}
	d, err := e.catalog.Create(ctx, req)
	require.NoError(t, err)
	require.False(t, d.IsPublished)
	require.Len(t, d.Workouts, 2)

	_, err = e.catalog.PublishedDetail(ctx, d.ID)
	require.ErrorIs(t, err, domain.ErrProgramNotFound)

	list, err := e.catalog.ListPublished(ctx, dto.ProgramListQuery{})
	require.NoError(t, err)
	require.Empty(t, list)

	admin, err := e.catalog.AdminList(ctx, dto.ProgramListQuery{})
	require.NoError(t, err)
	require.Len(t, admin, 1)

	_, err = e.catalog.SetPublished(ctx, d.ID, true)
	require.NoError(t, err)
	detail, err := e.catalog.PublishedDetail(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, 1, detail.Workouts[0].DayNumber, "workouts are ordered by day")
}

func TestCreateProgramValidation(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()

	cases := map[string]func(r *dto.CreateProgramRequest){
		"empty title":      func(r *dto.CreateProgramRequest) { r.Title = " " },
		"bad goal":         func(r *dto.CreateProgramRequest) { r.Goal = "bulk" },
		"bad difficulty":   func(r *dto.CreateProgramRequest) { r.Difficulty = "expert" },
		"too many weeks":   func(r *dto.CreateProgramRequest) { r.DurationWeeks = 53 },
		"eight days":       func(r *dto.CreateProgramRequest) { r.DaysPerWeek = 8 },
		"short session":    func(r *dto.CreateProgramRequest) { r.MinutesPerSession = 4 },
		"workout no video": func(r *dto.CreateProgramRequest) { w := workoutOn(1); w.VideoURL = ""; r.Workouts = []dto.WorkoutInput{w} },
		"workout intensity": func(r *dto.CreateProgramRequest) {
			w := workoutOn(1)
			w.Intensity = "extreme"
			r.Workouts = []dto.WorkoutInput{w}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := baseProgram()
			mutate(&req)
			_, err := e.catalog.Create(ctx, req)
			require.Equal(t, "INVALID_PROGRAM", domain.CodeOf(err), "got %v", err)
		})
	}

	req := baseProgram()
	req.Workouts = []dto.WorkoutInput{workoutOn(1), workoutOn(1)}
	_, err := e.catalog.Create(ctx, req)
	require.ErrorIs(t, err, domain.ErrDuplicateDay)
}

func TestFeaturedAndFilters(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()

	for i, goal := range []string{"weight_loss", "muscle_gain", "weight_loss"} {
		req := baseProgram()
		req.Goal = goal
		req.IsFeatured = i == 0
		req.OrderIndex = i
		d, err := e.catalog.Create(ctx, req)
		require.NoError(t, err)
		_, err = e.catalog.SetPublished(ctx, d.ID, true)
		require.NoError(t, err)
	}

	list, err := e.catalog.ListPublished(ctx, dto.ProgramListQuery{Goal: "weight_loss"})
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = e.catalog.ListPublished(ctx, dto.ProgramListQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, list[0].OrderIndex)

	featured, err := e.catalog.Featured(ctx, 0)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	require.True(t, featured[0].IsFeatured)
}

func TestUpdateProgramIsPartial(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	d, err := e.catalog.Create(ctx, baseProgram())
	require.NoError(t, err)

	p, err := e.catalog.Update(ctx, d.ID, dto.UpdateProgramRequest{Title: ptr("Core Advanced"), Difficulty: ptr("advanced")})
	require.NoError(t, err)
	require.Equal(t, "Core Advanced", p.Title)
	require.Equal(t, domain.DifficultyAdvanced, p.Difficulty)
	require.Equal(t, 4, p.DurationWeeks)

	_, err = e.catalog.Update(ctx, d.ID, dto.UpdateProgramRequest{DaysPerWeek: ptr(0)})
	require.Equal(t, "INVALID_PROGRAM", domain.CodeOf(err))

	_, err = e.catalog.Update(ctx, uuid.New(), dto.UpdateProgramRequest{})
	require.ErrorIs(t, err, domain.ErrProgramNotFound)
}

func TestWorkoutAdminOps(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	d, err := e.catalog.Create(ctx, baseProgram())
	require.NoError(t, err)

	w1, err := e.catalog.AddWorkout(ctx, d.ID, workoutOn(1))
	require.NoError(t, err)
	w2, err := e.catalog.AddWorkout(ctx, d.ID, workoutOn(2))
	require.NoError(t, err)

	_, err = e.catalog.AddWorkout(ctx, d.ID, workoutOn(1))
	require.ErrorIs(t, err, domain.ErrDuplicateDay)
	_, err = e.catalog.AddWorkout(ctx, uuid.New(), workoutOn(1))
	require.ErrorIs(t, err, domain.ErrProgramNotFound)

	_, err = e.catalog.UpdateWorkout(ctx, w2.ID, dto.UpdateWorkoutRequest{DayNumber: ptr(1)})
	require.ErrorIs(t, err, domain.ErrDuplicateDay)

	updated, err := e.catalog.UpdateWorkout(ctx, w2.ID, dto.UpdateWorkoutRequest{DayNumber: ptr(3), Title: ptr("Moved")})
	require.NoError(t, err)
	require.Equal(t, 3, updated.DayNumber)
	require.Equal(t, "Moved", updated.Title)

	_, err = e.catalog.UpdateWorkout(ctx, w1.ID, dto.UpdateWorkoutRequest{DayNumber: ptr(1)})
	require.NoError(t, err, "keeping its own day is not a conflict")

	require.NoError(t, e.catalog.DeleteWorkout(ctx, w1.ID))
	require.ErrorIs(t, e.catalog.DeleteWorkout(ctx, w1.ID), domain.ErrWorkoutNotFound)
	_, err = e.catalog.UpdateWorkout(ctx, w1.ID, dto.UpdateWorkoutRequest{})
	require.ErrorIs(t, err, domain.ErrWorkoutNotFound)

	detail, err := e.catalog.AdminDetail(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, detail.Workouts, 1)
}

func TestDeleteProgramCascades(t *testing.T) {
	e := newProgressEnv(t)
	ctx := context.Background()
	u := memberUser(t, e.st, "cascade@example.com")
	p := publishedProgram(t, e.catalog, "Doomed", 20, 20)

	_, err := e.progress.Enroll(ctx, u.ID, p.ID)
	require.NoError(t, err)
	complete(t, e, u.ID, p.Workouts[0])

	require.NoError(t, e.catalog.Delete(ctx, p.ID))
	require.ErrorIs(t, e.catalog.Delete(ctx, p.ID), domain.ErrProgramNotFound)

	_, err = e.progress.Progress(ctx, u.ID, p.ID)
	require.ErrorIs(t, err, domain.ErrNotEnrolled)
	enrollments, err := e.st.Enrollments().ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, enrollments)
}
