package dto

import (
	"time"

	"sfc/internal/domain"
)

type OnboardingRequest struct {
	DisplayName              *string  `json:"display_name" validate:"omitempty,max=100"`
	AgeRange                 *string  `json:"age_range" validate:"omitempty,oneof=18-29 30-45 46-65 65+"`
	Gender                   *string  `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	HeightCM                 *int     `json:"height_cm" validate:"omitempty,min=100,max=250"`
	WeightKG                 *float64 `json:"weight_kg" validate:"omitempty,min=30,max=300"`
	FitnessLevel             *string  `json:"fitness_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	PrimaryGoal              *string  `json:"primary_goal" validate:"omitempty,goal"`
	SecondaryGoals           []string `json:"secondary_goals"`
	DaysPerWeek              *int     `json:"days_per_week" validate:"omitempty,min=1,max=7"`
	MinutesPerSession        *int     `json:"minutes_per_session" validate:"omitempty,min=10,max=180"`
	PreferredDays            []string `json:"preferred_days"`
	Injuries                 *string  `json:"injuries"`
	EquipmentAvailable       []string `json:"equipment_available"`
	WorkoutLocation          *string  `json:"workout_location" validate:"omitempty,oneof=home gym both"`
	PrefersCardio            *bool    `json:"prefers_cardio"`
	PrefersStrength          *bool    `json:"prefers_strength"`
	InterestedInYoga         *bool    `json:"interested_in_yoga"`
	HealthDisclaimerAccepted bool     `json:"health_disclaimer_accepted"`
}

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	DisplayName        *string   `json:"display_name" validate:"omitempty,max=100"`
	HeightCM           *int      `json:"height_cm" validate:"omitempty,min=100,max=250"`
	WeightKG           *float64  `json:"weight_kg" validate:"omitempty,min=30,max=300"`
	FitnessLevel       *string   `json:"fitness_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	PrimaryGoal        *string   `json:"primary_goal" validate:"omitempty,goal"`
	DaysPerWeek        *int      `json:"days_per_week" validate:"omitempty,min=1,max=7"`
	MinutesPerSession  *int      `json:"minutes_per_session" validate:"omitempty,min=10,max=180"`
	PreferredDays      *[]string `json:"preferred_days"`
	Injuries           *string   `json:"injuries"`
	EquipmentAvailable *[]string `json:"equipment_available"`
	WorkoutLocation    *string   `json:"workout_location" validate:"omitempty,oneof=home gym both"`
	PrefersCardio      *bool     `json:"prefers_cardio"`
	PrefersStrength    *bool     `json:"prefers_strength"`
	InterestedInYoga   *bool     `json:"interested_in_yoga"`
}

type ConsentUpdateRequest struct {
	MarketingConsent      *bool `json:"marketing_consent"`
	DataProcessingConsent *bool `json:"data_processing_consent"`
}

type ConsentResponse struct {
	PrivacyConsentAt      *time.Time `json:"privacy_consent_at"`
	DataProcessingConsent bool       `json:"data_processing_consent"`
	MarketingConsent      bool       `json:"marketing_consent"`
}

func NewConsentResponse(u *domain.User) ConsentResponse {
	return ConsentResponse{
		PrivacyConsentAt:      u.PrivacyConsentAt,
		DataProcessingConsent: u.DataProcessingConsent,
		MarketingConsent:      u.MarketingConsent,
	}
}

type ExportedUser struct {
	UserResponse
	AuthProvider          string    `json:"auth_provider"`
	DataProcessingConsent bool      `json:"data_processing_consent"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type DataExport struct {
	User               ExportedUser               `json:"user"`
	Profile            *domain.UserProfile        `json:"profile"`
	Enrollments        []domain.ProgramEnrollment `json:"enrollments"`
	WorkoutCompletions []domain.WorkoutCompletion `json:"workout_completions"`
	ExportedAt         time.Time                  `json:"exported_at"`
}

type DeleteAccountRequest struct {
	Confirm bool `json:"confirm"`
}

type DeleteAccountResponse struct {
	Message   string    `json:"message"`
	DeletedAt time.Time `json:"deleted_at"`
}
