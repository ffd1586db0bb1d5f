package service

import (
	"context"

	"sfc/internal/domain"
	"sfc/internal/dto"
)

type CatalogService interface {
	ListPublished(ctx context.Context, q dto.ProgramListQuery) ([]domain.Program, error)
	Featured(ctx context.Context, limit int) ([]domain.Program, error)
	PublishedDetail(ctx context.Context, id domain.ProgramID) (*dto.ProgramDetail, error)

	AdminList(ctx context.Context, q dto.ProgramListQuery) ([]domain.Program, error)
	AdminDetail(ctx context.Context, id domain.ProgramID) (*dto.ProgramDetail, error)
	Create(ctx context.Context, r dto.CreateProgramRequest) (*dto.ProgramDetail, error)
	Update(ctx context.Context, id domain.ProgramID, r dto.UpdateProgramRequest) (*domain.Program, error)
	Delete(ctx context.Context, id domain.ProgramID) error
	SetPublished(ctx context.Context, id domain.ProgramID, published bool) (*domain.Program, error)

	AddWorkout(ctx context.Context, programID domain.ProgramID, r dto.WorkoutInput) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID domain.WorkoutID, r dto.UpdateWorkoutRequest) (*domain.Workout, error)
	Workout(ctx context.Context, workoutID domain.WorkoutID) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, workoutID domain.WorkoutID) error
}
