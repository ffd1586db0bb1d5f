package store

import (
	"context"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkoutStore struct{ db *gorm.DB }

func (s *Store) Workouts() *WorkoutStore { return &WorkoutStore{db: s.DB} }

func (w *WorkoutStore) Create(ctx context.Context, wk *domain.Workout) error {
	if wk.ID == uuid.Nil {
		wk.ID = uuid.New()
	}
	return w.db.WithContext(ctx).Create(wk).Error
}

func (w *WorkoutStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workout, error) {
	var wk domain.Workout
	if err := w.db.WithContext(ctx).First(&wk, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &wk, nil
}

func (w *WorkoutStore) GetByDay(ctx context.Context, programID uuid.UUID, day int) (*domain.Workout, error) {
	var wk domain.Workout
	if err := w.db.WithContext(ctx).
		First(&wk, "program_id = ? AND day_number = ?", programID, day).Error; err != nil {
		return nil, notFound(err)
	}
	return &wk, nil
}

func (w *WorkoutStore) ListByProgram(ctx context.Context, programID uuid.UUID) ([]domain.Workout, error) {
	var out []domain.Workout
	err := w.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("day_number ASC").
		Find(&out).Error
	return out, err
}

func (w *WorkoutStore) CountByProgram(ctx context.Context, programID uuid.UUID) (int64, error) {
	var n int64
	err := w.db.WithContext(ctx).Model(&domain.Workout{}).
		Where("program_id = ?", programID).
		Count(&n).Error
	return n, err
}

func (w *WorkoutStore) DayTaken(ctx context.Context, programID uuid.UUID, day int, except uuid.UUID) (bool, error) {
	var n int64
	err := w.db.WithContext(ctx).Model(&domain.Workout{}).
		Where("program_id = ? AND day_number = ? AND id <> ?", programID, day, except).
		Count(&n).Error
	return n > 0, err
}

func (w *WorkoutStore) Save(ctx context.Context, wk *domain.Workout) error {
	return w.db.WithContext(ctx).Save(wk).Error
}

// Delete removes a workout and the completions recorded against it.
func (w *WorkoutStore) Delete(ctx context.Context, id uuid.UUID) error {
	db := w.db.WithContext(ctx)
	if err := db.Where("workout_id = ?", id).Delete(&domain.WorkoutCompletion{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&domain.Workout{}).Error
}
