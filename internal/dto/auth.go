package dto

import (
	"time"

	"sfc/internal/domain"
)

type SignupRequest struct {
	Email                 string `json:"email" validate:"required,email"`
	Password              string `json:"password" validate:"min=8,max=128"`
	PrivacyConsent        bool   `json:"privacy_consent"`
	DataProcessingConsent bool   `json:"data_processing_consent"`
	MarketingConsent      bool   `json:"marketing_consent"`
}

type SignupResponse struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	EmailSent bool   `json:"email_sent"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code" validate:"len=6,number"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"min=8,max=128"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code" validate:"len=6,number"`
	NewPassword string `json:"new_password" validate:"min=8,max=128"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Client carries request metadata that ends up on sessions and throttles.
type Client struct {
	IP         string
	DeviceInfo string
}

type UserResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	IsActive         bool       `json:"is_active"`
	IsVerified       bool       `json:"is_verified"`
	PrivacyConsentAt *time.Time `json:"privacy_consent_at"`
	MarketingConsent bool       `json:"marketing_consent"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:               u.ID.String(),
		Email:            u.Email,
		Role:             string(u.Role),
		IsActive:         u.IsActive,
		IsVerified:       u.IsVerified,
		PrivacyConsentAt: u.PrivacyConsentAt,
		MarketingConsent: u.MarketingConsent,
		CreatedAt:        u.CreatedAt,
	}
}

type AuthStatusResponse struct {
	User                UserResponse `json:"user"`
	HasProfile          bool         `json:"has_profile"`
	OnboardingCompleted bool         `json:"onboarding_completed"`
}
