package impl

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/observability/logging"
	"sfc/internal/observability/metrics"
	"sfc/internal/store"

	"github.com/google/uuid"
)

type ProgressConfig struct {
	MaxActiveEnrollments int // 3
}

const (
	defaultRecommendLimit = 6

	reasonPopular  = "Popular programs"
	reasonFeatured = "Featured programs"
)

// ProgressServiceImpl drives the enrollment lifecycle and workout gating.
type ProgressServiceImpl struct {
	cfg   ProgressConfig
	store *store.Store
	now   func() time.Time
}

func NewProgressService(cfg ProgressConfig, st *store.Store) *ProgressServiceImpl {
	if cfg.MaxActiveEnrollments <= 0 {
		cfg.MaxActiveEnrollments = 3
	}
	return &ProgressServiceImpl{cfg: cfg, store: st, now: func() time.Time { return time.Now().UTC() }}
}

// Enroll creates an enrollment, or restarts a paused/completed one in place.
// Restarting keeps earlier completions and totals and skips the cap check.
func (p *ProgressServiceImpl) Enroll(ctx context.Context, userID domain.UserID, programID domain.ProgramID) (*domain.ProgramEnrollment, error) {
	action := "enroll"
	var out *domain.ProgramEnrollment
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		prog, err := tx.Programs().GetByID(ctx, programID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrProgramNotFound
		}
		if err != nil {
			return err
		}
		if !prog.IsPublished {
			return domain.ErrProgramNotPublished
		}

		now := p.now()
		existing, err := tx.Enrollments().GetForUpdate(ctx, userID, programID)
		switch {
		case err == nil && existing.InProgress():
			return domain.ErrAlreadyEnrolled
		case err != nil && !errors.Is(err, store.ErrRecordNotFound):
			return err
		}

		// reactivation counts against the cap like a fresh enrollment
		active, err := tx.Enrollments().CountInProgress(ctx, userID)
		if err != nil {
			return err
		}
		if active >= int64(p.cfg.MaxActiveEnrollments) {
			return domain.ErrMaxEnrollments
		}

		if existing != nil {
			action = "reactivate"
			existing.Reactivate(now)
			existing.UpdatedAt = now
			out = existing
			return tx.Enrollments().Save(ctx, existing)
		}

		out = &domain.ProgramEnrollment{
			ID:         uuid.New(),
			UserID:     userID,
			ProgramID:  programID,
			CurrentDay: 1,
			StartedAt:  now,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err = tx.Enrollments().Create(ctx, out)
		if errors.Is(err, store.ErrDuplicate) {
			return domain.ErrAlreadyEnrolled
		}
		return err
	})
	metrics.EnrollmentsTotal.WithLabelValues(action, metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("enrolled", "user_id", userID, "program_id", programID, "action", action)
	return out, nil
}

// Unenroll pauses the enrollment. Stats and completions stay.
func (p *ProgressServiceImpl) Unenroll(ctx context.Context, userID domain.UserID, programID domain.ProgramID) error {
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		en, err := tx.Enrollments().GetForUpdate(ctx, userID, programID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotEnrolled
		}
		if err != nil {
			return err
		}
		now := p.now()
		en.IsActive = false
		en.PausedAt = &now
		en.UpdatedAt = now
		return tx.Enrollments().Save(ctx, en)
	})
	metrics.EnrollmentsTotal.WithLabelValues("unenroll", metrics.Result(err)).Inc()
	return err
}

func (p *ProgressServiceImpl) Progress(ctx context.Context, userID domain.UserID, programID domain.ProgramID) (*dto.EnrollmentProgress, error) {
	en, err := p.enrollment(ctx, userID, programID)
	if err != nil {
		return nil, err
	}
	return progressOf(ctx, p.store, en)
}

func (p *ProgressServiceImpl) CompleteWorkout(
	ctx context.Context,
	userID domain.UserID,
	workoutID domain.WorkoutID,
	r dto.CompleteWorkoutRequest,
) (*dto.CompletionResult, error) {
	if err := checkRequest(r); err != nil {
		return nil, err
	}

	out := &dto.CompletionResult{}
	err := p.store.WithTx(ctx, func(tx *store.Store) error {
		w, err := tx.Workouts().GetByID(ctx, workoutID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrWorkoutNotFound
		}
		if err != nil {
			return err
		}

		en, err := tx.Enrollments().GetForUpdate(ctx, userID, w.ProgramID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrNotEnrolled
		}
		if err != nil {
			return err
		}
		if !en.IsActive {
			return domain.ErrNotEnrolled
		}

		done, err := tx.Completions().Exists(ctx, en.ID, w.ID)
		if err != nil {
			return err
		}
		if done {
			return domain.ErrAlreadyCompleted
		}

		// gate on the previous day, when the program has one
		if w.DayNumber > 1 {
			prev, err := tx.Workouts().GetByDay(ctx, w.ProgramID, w.DayNumber-1)
			switch {
			case err == nil:
				prevDone, err := tx.Completions().Exists(ctx, en.ID, prev.ID)
				if err != nil {
					return err
				}
				if !prevDone {
					return domain.ErrPreviousNotCompleted
				}
			case !errors.Is(err, store.ErrRecordNotFound):
				return err
			}
		}

		now := p.now()
		minutes := w.DurationMinutes
		if r.DurationMinutes != nil {
			minutes = *r.DurationMinutes
		}
		c := &domain.WorkoutCompletion{
			ID:              uuid.New(),
			EnrollmentID:    en.ID,
			WorkoutID:       w.ID,
			CompletedAt:     now,
			DurationMinutes: minutes,
			Rating:          r.Rating,
			Notes:           r.Notes,
			CreatedAt:       now,
		}
		if r.DifficultyFelt != nil {
			felt := domain.DifficultyFelt(*r.DifficultyFelt)
			c.DifficultyFelt = &felt
		}
		if err := tx.Completions().Create(ctx, c); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return domain.ErrAlreadyCompleted
			}
			return err
		}

		en.RecordWorkout(minutes, now)
		en.CurrentDay = w.DayNumber + 1

		total, err := tx.Workouts().CountByProgram(ctx, w.ProgramID)
		if err != nil {
			return err
		}
		completed := int64(en.TotalWorkoutsCompleted) >= total
		if completed {
			en.CompletedAt = &now
		}
		en.UpdatedAt = now
		if err := tx.Enrollments().Save(ctx, en); err != nil {
			return err
		}

		out.Completion = c
		out.ProgramCompleted = completed
		if !completed {
			next, err := tx.Workouts().GetByDay(ctx, w.ProgramID, w.DayNumber+1)
			switch {
			case err == nil:
				out.NextWorkout = next
			case !errors.Is(err, store.ErrRecordNotFound):
				return err
			}
		}
		return nil
	})
	metrics.WorkoutsCompletedTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("workout completed",
		"user_id", userID, "workout_id", workoutID, "program_completed", out.ProgramCompleted)
	return out, nil
}

// ListWorkouts projects completion and lock state per workout. The lock is for
// display only; CompleteWorkout enforces the real gate.
func (p *ProgressServiceImpl) ListWorkouts(ctx context.Context, userID domain.UserID, programID domain.ProgramID) ([]dto.WorkoutWithProgress, error) {
	en, err := p.enrollment(ctx, userID, programID)
	if err != nil {
		return nil, err
	}
	workouts, err := p.store.Workouts().ListByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	completions, err := p.store.Completions().ByWorkout(ctx, en.ID)
	if err != nil {
		return nil, err
	}
	return lockProjection(workouts, completions), nil
}

func lockProjection(workouts []domain.Workout, completions map[uuid.UUID]domain.WorkoutCompletion) []dto.WorkoutWithProgress {
	byDay := make(map[int]uuid.UUID, len(workouts))
	for _, w := range workouts {
		byDay[w.DayNumber] = w.ID
	}

	out := make([]dto.WorkoutWithProgress, 0, len(workouts))
	for _, w := range workouts {
		item := dto.WorkoutWithProgress{Workout: w}
		if c, ok := completions[w.ID]; ok {
			completedAt := c.CompletedAt
			item.IsCompleted = true
			item.CompletedAt = &completedAt
		}
		if w.DayNumber > 1 && !item.IsCompleted {
			if prevID, ok := byDay[w.DayNumber-1]; ok {
				_, prevDone := completions[prevID]
				item.IsLocked = !prevDone
			}
		}
		out = append(out, item)
	}
	return out
}

// Continue lists in-progress enrollments, untouched ones first, then by most
// recent workout.
func (p *ProgressServiceImpl) Continue(ctx context.Context, userID domain.UserID) ([]dto.EnrollmentProgress, error) {
	enrollments, err := p.store.Enrollments().ListInProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EnrollmentProgress, 0, len(enrollments))
	for i := range enrollments {
		en := &enrollments[i]
		prog, err := progressOf(ctx, p.store, en)
		if err != nil {
			return nil, err
		}
		program, err := p.store.Programs().GetByID(ctx, en.ProgramID)
		if err != nil {
			return nil, err
		}
		prog.Program = program
		out = append(out, *prog)
	}
	return out, nil
}

// Recommend matches the profile's goal and fitness level against published
// programs, falling back to the featured listing when nothing matches.
func (p *ProgressServiceImpl) Recommend(ctx context.Context, userID domain.UserID, limit int) (*dto.Recommendations, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	var (
		goal       domain.Goal
		difficulty domain.Difficulty
		reason     = reasonPopular
	)
	profile, err := p.store.Profiles().GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if profile.PrimaryGoal != nil && *profile.PrimaryGoal != "" {
			goal = domain.Goal(*profile.PrimaryGoal)
			reason = "Based on your goal: " + strings.ReplaceAll(*profile.PrimaryGoal, "_", " ")
		}
		if profile.FitnessLevel != nil {
			difficulty = domain.Difficulty(*profile.FitnessLevel)
		}
	case !errors.Is(err, store.ErrRecordNotFound):
		return nil, err
	}

	programs, err := p.store.Programs().Recommend(ctx, goal, difficulty, limit)
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		programs, err = p.store.Programs().Featured(ctx, limit)
		if err != nil {
			return nil, err
		}
		reason = reasonFeatured
	}
	if programs == nil {
		programs = []domain.Program{}
	}
	return &dto.Recommendations{Programs: programs, Reason: reason}, nil
}

func (p *ProgressServiceImpl) enrollment(ctx context.Context, userID domain.UserID, programID domain.ProgramID) (*domain.ProgramEnrollment, error) {
	en, err := p.store.Enrollments().Get(ctx, userID, programID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrNotEnrolled
	}
	return en, err
}

func progressOf(ctx context.Context, st *store.Store, en *domain.ProgramEnrollment) (*dto.EnrollmentProgress, error) {
	total, err := st.Workouts().CountByProgram(ctx, en.ProgramID)
	if err != nil {
		return nil, err
	}
	out := &dto.EnrollmentProgress{Enrollment: en, TotalDays: int(total)}
	if total > 0 {
		out.ProgressPercent = math.Round(float64(en.TotalWorkoutsCompleted)/float64(total)*1000) / 10
	}
	if int64(en.CurrentDay) <= total {
		next, err := st.Workouts().GetByDay(ctx, en.ProgramID, en.CurrentDay)
		switch {
		case err == nil:
			out.NextWorkout = next
		case !errors.Is(err, store.ErrRecordNotFound):
			return nil, err
		}
	}
	return out, nil
}
