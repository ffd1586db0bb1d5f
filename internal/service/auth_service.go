package service

import (
	"context"

	"sfc/internal/domain"
	"sfc/internal/dto"
)

type AuthService interface {
	Signup(ctx context.Context, r dto.SignupRequest) (*dto.SignupResponse, error)
	VerifyOTP(ctx context.Context, r dto.VerifyOTPRequest, c dto.Client) (*dto.TokenPair, error)
	ResendOTP(ctx context.Context, email string) (*dto.MessageResponse, error)
	Signin(ctx context.Context, r dto.SigninRequest, c dto.Client) (*dto.TokenPair, error)
	Refresh(ctx context.Context, rawRefresh string, c dto.Client) (*dto.TokenPair, error)
	Logout(ctx context.Context, rawRefresh string) bool
	ChangePassword(ctx context.Context, userID domain.UserID, r dto.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, email string) (*dto.MessageResponse, error)
	ResetPassword(ctx context.Context, r dto.ResetPasswordRequest) error
	DeleteAccount(ctx context.Context, userID domain.UserID) (*dto.DeleteAccountResponse, error)

	// Authenticate resolves a bearer access token to its live user.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	Status(ctx context.Context, user *domain.User) (*dto.AuthStatusResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) (*domain.User, bool, error)
}
