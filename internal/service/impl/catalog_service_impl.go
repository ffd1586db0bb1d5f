package impl

import (
	"context"
	"errors"
	"strings"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/observability/logging"
	"sfc/internal/store"

	"github.com/google/uuid"
)

const (
	defaultListLimit     = 50
	maxListLimit         = 100
	defaultAdminLimit    = 100
	maxAdminLimit        = 500
	defaultFeaturedLimit = 6
)

// CatalogServiceImpl serves the public catalog and its admin surface. New
// programs start unpublished.
type CatalogServiceImpl struct {
	store *store.Store
	now   func() time.Time
}

func NewCatalogService(st *store.Store) *CatalogServiceImpl {
	return &CatalogServiceImpl{store: st, now: func() time.Time { return time.Now().UTC() }}
}

func (c *CatalogServiceImpl) ListPublished(ctx context.Context, q dto.ProgramListQuery) ([]domain.Program, error) {
	return c.store.Programs().ListPublished(ctx, filterOf(q, defaultListLimit, maxListLimit))
}

func (c *CatalogServiceImpl) Featured(ctx context.Context, limit int) ([]domain.Program, error) {
	if limit <= 0 {
		limit = defaultFeaturedLimit
	}
	return c.store.Programs().ListPublished(ctx, store.ProgramFilter{FeaturedOnly: true, Limit: limit})
}

// PublishedDetail hides unpublished programs behind PROGRAM_NOT_FOUND.
func (c *CatalogServiceImpl) PublishedDetail(ctx context.Context, id domain.ProgramID) (*dto.ProgramDetail, error) {
	d, err := c.detail(ctx, c.store, id)
	if err != nil {
		return nil, err
	}
	if !d.IsPublished {
		return nil, domain.ErrProgramNotFound
	}
	return d, nil
}

func (c *CatalogServiceImpl) AdminList(ctx context.Context, q dto.ProgramListQuery) ([]domain.Program, error) {
	return c.store.Programs().ListAll(ctx, filterOf(q, defaultAdminLimit, maxAdminLimit))
}

func (c *CatalogServiceImpl) AdminDetail(ctx context.Context, id domain.ProgramID) (*dto.ProgramDetail, error) {
	return c.detail(ctx, c.store, id)
}

func (c *CatalogServiceImpl) Create(ctx context.Context, r dto.CreateProgramRequest) (*dto.ProgramDetail, error) {
	if err := checkCatalog(r); err != nil {
		return nil, err
	}
	days := make(map[int]bool, len(r.Workouts))
	for _, w := range r.Workouts {
		if err := checkCatalog(w); err != nil {
			return nil, err
		}
		if days[w.DayNumber] {
			return nil, domain.ErrDuplicateDay
		}
		days[w.DayNumber] = true
	}

	var out *dto.ProgramDetail
	err := c.store.WithTx(ctx, func(tx *store.Store) error {
		now := c.now()
		prog := &domain.Program{
			ID:                uuid.New(),
			Title:             strings.TrimSpace(r.Title),
			Description:       r.Description,
			ThumbnailURL:      r.ThumbnailURL,
			Goal:              domain.Goal(r.Goal),
			Difficulty:        domain.Difficulty(r.Difficulty),
			EquipmentNeeded:   r.EquipmentNeeded,
			DurationWeeks:     r.DurationWeeks,
			DaysPerWeek:       r.DaysPerWeek,
			MinutesPerSession: r.MinutesPerSession,
			IsFeatured:        r.IsFeatured,
			IsPublished:       false,
			OrderIndex:        r.OrderIndex,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.Programs().Create(ctx, prog); err != nil {
			return err
		}
		workouts := make([]domain.Workout, 0, len(r.Workouts))
		for _, in := range r.Workouts {
			w := newWorkout(prog.ID, in, now)
			if err := tx.Workouts().Create(ctx, w); err != nil {
				return err
			}
			workouts = append(workouts, *w)
		}
		out = &dto.ProgramDetail{Program: *prog, Workouts: workouts}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("program created", "program_id", out.ID, "workouts", len(out.Workouts))
	return out, nil
}

func (c *CatalogServiceImpl) Update(ctx context.Context, id domain.ProgramID, r dto.UpdateProgramRequest) (*domain.Program, error) {
	var out *domain.Program
	err := c.store.WithTx(ctx, func(tx *store.Store) error {
		prog, err := c.program(ctx, tx, id)
		if err != nil {
			return err
		}
		if r.Title != nil {
			prog.Title = strings.TrimSpace(*r.Title)
		}
		if r.Description != nil {
			prog.Description = r.Description
		}
		if r.ThumbnailURL != nil {
			prog.ThumbnailURL = r.ThumbnailURL
		}
		if r.Goal != nil {
			prog.Goal = domain.Goal(*r.Goal)
		}
		if r.Difficulty != nil {
			prog.Difficulty = domain.Difficulty(*r.Difficulty)
		}
		if r.EquipmentNeeded != nil {
			prog.EquipmentNeeded = *r.EquipmentNeeded
		}
		if r.DurationWeeks != nil {
			prog.DurationWeeks = *r.DurationWeeks
		}
		if r.DaysPerWeek != nil {
			prog.DaysPerWeek = *r.DaysPerWeek
		}
		if r.MinutesPerSession != nil {
			prog.MinutesPerSession = *r.MinutesPerSession
		}
		if r.IsFeatured != nil {
			prog.IsFeatured = *r.IsFeatured
		}
		if r.OrderIndex != nil {
			prog.OrderIndex = *r.OrderIndex
		}
		if err := checkCatalog(programInputOf(prog)); err != nil {
			return err
		}
		prog.UpdatedAt = c.now()
		out = prog
		return tx.Programs().Save(ctx, prog)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the program with its workouts, enrollments and completions.
func (c *CatalogServiceImpl) Delete(ctx context.Context, id domain.ProgramID) error {
	err := c.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := c.program(ctx, tx, id); err != nil {
			return err
		}
		return tx.Programs().Delete(ctx, id)
	})
	if err == nil {
		logging.FromContext(ctx).Info("program deleted", "program_id", id)
	}
	return err
}

func (c *CatalogServiceImpl) SetPublished(ctx context.Context, id domain.ProgramID, published bool) (*domain.Program, error) {
	var out *domain.Program
	err := c.store.WithTx(ctx, func(tx *store.Store) error {
		prog, err := c.program(ctx, tx, id)
		if err != nil {
			return err
		}
		prog.IsPublished = published
		prog.UpdatedAt = c.now()
		out = prog
		return tx.Programs().Save(ctx, prog)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogServiceImpl) AddWorkout(ctx context.Context, programID domain.ProgramID, r dto.WorkoutInput) (*domain.Workout, error) {
	if err := checkCatalog(r); err != nil {
		return nil, err
	}
	var out *domain.Workout
	err := c.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := c.program(ctx, tx, programID); err != nil {
			return err
		}
		taken, err := tx.Workouts().DayTaken(ctx, programID, r.DayNumber, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicateDay
		}
		out = newWorkout(programID, r, c.now())
		err = tx.Workouts().Create(ctx, out)
		if errors.Is(err, store.ErrDuplicate) {
			return domain.ErrDuplicateDay
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogServiceImpl) UpdateWorkout(ctx context.Context, workoutID domain.WorkoutID, r dto.UpdateWorkoutRequest) (*domain.Workout, error) {
	var out *domain.Workout
	err := c.store.WithTx(ctx, func(tx *store.Store) error {
		w, err := tx.Workouts().GetByID(ctx, workoutID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrWorkoutNotFound
		}
		if err != nil {
			return err
		}
		applyWorkoutUpdate(w, r)
		if err := checkCatalog(workoutInputOf(w)); err != nil {
			return err
		}
		if r.DayNumber != nil {
			taken, err := tx.Workouts().DayTaken(ctx, w.ProgramID, w.DayNumber, w.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrDuplicateDay
			}
		}
		w.UpdatedAt = c.now()
		out = w
		err = tx.Workouts().Save(ctx, w)
		if errors.Is(err, store.ErrDuplicate) {
			return domain.ErrDuplicateDay
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CatalogServiceImpl) Workout(ctx context.Context, workoutID domain.WorkoutID) (*domain.Workout, error) {
	w, err := c.store.Workouts().GetByID(ctx, workoutID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrWorkoutNotFound
	}
	return w, err
}

func (c *CatalogServiceImpl) DeleteWorkout(ctx context.Context, workoutID domain.WorkoutID) error {
	return c.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.Workouts().GetByID(ctx, workoutID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrWorkoutNotFound
			}
			return err
		}
		return tx.Workouts().Delete(ctx, workoutID)
	})
}

func (c *CatalogServiceImpl) program(ctx context.Context, st *store.Store, id domain.ProgramID) (*domain.Program, error) {
	prog, err := st.Programs().GetByID(ctx, id)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrProgramNotFound
	}
	return prog, err
}

func (c *CatalogServiceImpl) detail(ctx context.Context, st *store.Store, id domain.ProgramID) (*dto.ProgramDetail, error) {
	prog, err := c.program(ctx, st, id)
	if err != nil {
		return nil, err
	}
	workouts, err := st.Workouts().ListByProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return &dto.ProgramDetail{Program: *prog, Workouts: workouts}, nil
}

func filterOf(q dto.ProgramListQuery, def, maxLimit int) store.ProgramFilter {
	limit := q.Limit
	if limit <= 0 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return store.ProgramFilter{
		Goal:          domain.Goal(q.Goal),
		Difficulty:    domain.Difficulty(q.Difficulty),
		FeaturedOnly:  q.FeaturedOnly,
		PublishedOnly: q.PublishedOnly,
		Limit:         limit,
		Offset:        offset,
	}
}

func newWorkout(programID domain.ProgramID, in dto.WorkoutInput, now time.Time) *domain.Workout {
	return &domain.Workout{
		ID:               uuid.New(),
		ProgramID:        programID,
		WeekNumber:       in.WeekNumber,
		DayNumber:        in.DayNumber,
		Title:            strings.TrimSpace(in.Title),
		Description:      in.Description,
		Intensity:        domain.Intensity(in.Intensity),
		DurationMinutes:  in.DurationMinutes,
		VideoURL:         in.VideoURL,
		VideoTitle:       in.VideoTitle,
		VideoThumbnail:   in.VideoThumbnail,
		CaloriesEstimate: in.CaloriesEstimate,
		EquipmentNeeded:  in.EquipmentNeeded,
		Tags:             in.Tags,
		IsRestDay:        in.IsRestDay,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func applyWorkoutUpdate(w *domain.Workout, r dto.UpdateWorkoutRequest) {
	if r.WeekNumber != nil {
		w.WeekNumber = *r.WeekNumber
	}
	if r.DayNumber != nil {
		w.DayNumber = *r.DayNumber
	}
	if r.Title != nil {
		w.Title = strings.TrimSpace(*r.Title)
	}
	if r.Description != nil {
		w.Description = r.Description
	}
	if r.Intensity != nil {
		w.Intensity = domain.Intensity(*r.Intensity)
	}
	if r.DurationMinutes != nil {
		w.DurationMinutes = *r.DurationMinutes
	}
	if r.VideoURL != nil {
		w.VideoURL = *r.VideoURL
	}
	if r.VideoTitle != nil {
		w.VideoTitle = r.VideoTitle
	}
	if r.VideoThumbnail != nil {
		w.VideoThumbnail = r.VideoThumbnail
	}
	if r.CaloriesEstimate != nil {
		w.CaloriesEstimate = r.CaloriesEstimate
	}
	if r.EquipmentNeeded != nil {
		w.EquipmentNeeded = *r.EquipmentNeeded
	}
	if r.Tags != nil {
		w.Tags = *r.Tags
	}
	if r.IsRestDay != nil {
		w.IsRestDay = *r.IsRestDay
	}
}

func workoutInputOf(w *domain.Workout) dto.WorkoutInput {
	return dto.WorkoutInput{
		WeekNumber:       w.WeekNumber,
		DayNumber:        w.DayNumber,
		Title:            w.Title,
		Intensity:        string(w.Intensity),
		DurationMinutes:  w.DurationMinutes,
		VideoURL:         w.VideoURL,
		VideoTitle:       w.VideoTitle,
		VideoThumbnail:   w.VideoThumbnail,
		CaloriesEstimate: w.CaloriesEstimate,
	}
}

func programInputOf(p *domain.Program) dto.CreateProgramRequest {
	return dto.CreateProgramRequest{
		Title:             p.Title,
		ThumbnailURL:      p.ThumbnailURL,
		Goal:              string(p.Goal),
		Difficulty:        string(p.Difficulty),
		DurationWeeks:     p.DurationWeeks,
		DaysPerWeek:       p.DaysPerWeek,
		MinutesPerSession: p.MinutesPerSession,
	}
}
