package store

import (
	"context"

	"sfc/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeleteUserData physically removes a user and everything it owns, returning the
// number of rows removed per resource. Must run inside a transaction.
func (s *Store) DeleteUserData(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	deleted := map[string]int64{}
	db := s.DB.WithContext(ctx)

	del := func(label string, query *gorm.DB, model any) error {
		res := query.Delete(model)
		if res.Error != nil {
			return res.Error
		}
		deleted[label] = res.RowsAffected
		return nil
	}

	enrollmentIDs := db.Model(&domain.ProgramEnrollment{}).Select("id").Where("user_id = ?", userID)

	if err := del("workoutCompletions", db.Where("enrollment_id IN (?)", enrollmentIDs), &domain.WorkoutCompletion{}); err != nil {
		return nil, err
	}
	if err := del("enrollments", db.Where("user_id = ?", userID), &domain.ProgramEnrollment{}); err != nil {
		return nil, err
	}
	if err := del("otpCodes", db.Where("user_id = ?", userID), &domain.OTPCode{}); err != nil {
		return nil, err
	}
	if err := del("refreshTokens", db.Where("user_id = ?", userID), &domain.RefreshToken{}); err != nil {
		return nil, err
	}
	if err := del("profiles", db.Where("user_id = ?", userID), &domain.UserProfile{}); err != nil {
		return nil, err
	}
	if err := del("auditLogs", db.Where("user_id = ?", userID), &domain.AuditLog{}); err != nil {
		return nil, err
	}
	if err := del("users", db.Where("id = ?", userID), &domain.User{}); err != nil {
		return nil, err
	}
	return deleted, nil
}
