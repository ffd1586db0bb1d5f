package service

import (
	"context"

	"sfc/internal/domain"
	"sfc/internal/dto"
)

type ProgressService interface {
	Enroll(ctx context.Context, userID domain.UserID, programID domain.ProgramID) (*domain.ProgramEnrollment, error)
	Unenroll(ctx context.Context, userID domain.UserID, programID domain.ProgramID) error
	Progress(ctx context.Context, userID domain.UserID, programID domain.ProgramID) (*dto.EnrollmentProgress, error)
	CompleteWorkout(ctx context.Context, userID domain.UserID, workoutID domain.WorkoutID, r dto.CompleteWorkoutRequest) (*dto.CompletionResult, error)
	ListWorkouts(ctx context.Context, userID domain.UserID, programID domain.ProgramID) ([]dto.WorkoutWithProgress, error)
	Continue(ctx context.Context, userID domain.UserID) ([]dto.EnrollmentProgress, error)
	Recommend(ctx context.Context, userID domain.UserID, limit int) (*dto.Recommendations, error)
}
