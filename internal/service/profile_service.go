package service

import (
	"context"

	"sfc/internal/domain"
	"sfc/internal/dto"
)

type ProfileService interface {
	Onboard(ctx context.Context, userID domain.UserID, r dto.OnboardingRequest) (*domain.UserProfile, error)
	Get(ctx context.Context, userID domain.UserID) (*domain.UserProfile, error)
	Update(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*domain.UserProfile, error)
}
