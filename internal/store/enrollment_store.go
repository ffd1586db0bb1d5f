package store

import (
	"context"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentStore struct{ db *gorm.DB }

func (s *Store) Enrollments() *EnrollmentStore { return &EnrollmentStore{db: s.DB} }

func (e *EnrollmentStore) Create(ctx context.Context, en *domain.ProgramEnrollment) error {
	if en.ID == uuid.Nil {
		en.ID = uuid.New()
	}
	return e.db.WithContext(ctx).Create(en).Error
}

func (e *EnrollmentStore) Get(ctx context.Context, userID, programID uuid.UUID) (*domain.ProgramEnrollment, error) {
	var en domain.ProgramEnrollment
	if err := e.db.WithContext(ctx).
		First(&en, "user_id = ? AND program_id = ?", userID, programID).Error; err != nil {
		return nil, notFound(err)
	}
	return &en, nil
}

// GetForUpdate locks the enrollment row so stat updates serialize per enrollment.
func (e *EnrollmentStore) GetForUpdate(ctx context.Context, userID, programID uuid.UUID) (*domain.ProgramEnrollment, error) {
	var en domain.ProgramEnrollment
	if err := e.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&en, "user_id = ? AND program_id = ?", userID, programID).Error; err != nil {
		return nil, notFound(err)
	}
	return &en, nil
}

func (e *EnrollmentStore) Save(ctx context.Context, en *domain.ProgramEnrollment) error {
	return e.db.WithContext(ctx).Save(en).Error
}

func (e *EnrollmentStore) CountInProgress(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := e.db.WithContext(ctx).Model(&domain.ProgramEnrollment{}).
		Where("user_id = ? AND is_active = ? AND completed_at IS NULL", userID, true).
		Count(&n).Error
	return n, err
}

// ListInProgress returns active enrollments, never-started ones first, then most
// recently trained.
func (e *EnrollmentStore) ListInProgress(ctx context.Context, userID uuid.UUID) ([]domain.ProgramEnrollment, error) {
	var out []domain.ProgramEnrollment
	err := e.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND completed_at IS NULL", userID, true).
		Order("CASE WHEN last_workout_at IS NULL THEN 0 ELSE 1 END").
		Order("last_workout_at DESC").
		Find(&out).Error
	return out, err
}

func (e *EnrollmentStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.ProgramEnrollment, error) {
	var out []domain.ProgramEnrollment
	err := e.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
