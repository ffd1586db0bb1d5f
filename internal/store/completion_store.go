package store

import (
	"context"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompletionStore struct{ db *gorm.DB }

func (s *Store) Completions() *CompletionStore { return &CompletionStore{db: s.DB} }

func (c *CompletionStore) Create(ctx context.Context, wc *domain.WorkoutCompletion) error {
	if wc.ID == uuid.Nil {
		wc.ID = uuid.New()
	}
	return c.db.WithContext(ctx).Create(wc).Error
}

func (c *CompletionStore) Exists(ctx context.Context, enrollmentID, workoutID uuid.UUID) (bool, error) {
	var n int64
	err := c.db.WithContext(ctx).Model(&domain.WorkoutCompletion{}).
		Where("enrollment_id = ? AND workout_id = ?", enrollmentID, workoutID).
		Count(&n).Error
	return n > 0, err
}

// ByWorkout maps workout id to its completion for one enrollment.
func (c *CompletionStore) ByWorkout(ctx context.Context, enrollmentID uuid.UUID) (map[uuid.UUID]domain.WorkoutCompletion, error) {
	var rows []domain.WorkoutCompletion
	if err := c.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]domain.WorkoutCompletion, len(rows))
	for _, r := range rows {
		out[r.WorkoutID] = r
	}
	return out, nil
}

func (c *CompletionStore) ListForEnrollments(ctx context.Context, enrollmentIDs []uuid.UUID) ([]domain.WorkoutCompletion, error) {
	if len(enrollmentIDs) == 0 {
		return nil, nil
	}
	var out []domain.WorkoutCompletion
	err := c.db.WithContext(ctx).
		Where("enrollment_id IN ?", enrollmentIDs).
		Order("completed_at ASC").
		Find(&out).Error
	return out, err
}
