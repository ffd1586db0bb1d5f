package domain

import (
	"fmt"
	"time"
)

type User struct {
	ID                    UserID       `gorm:"type:uuid;primaryKey" json:"id"`
	Email                 string       `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	HashedPassword        *string      `gorm:"type:text" json:"-"`
	Role                  Role         `gorm:"type:text;not null;default:'member'" json:"role"`
	IsActive              bool         `gorm:"not null" json:"is_active"`
	IsVerified            bool         `gorm:"not null;default:false" json:"is_verified"`
	AuthProvider          AuthProvider `gorm:"type:text;not null;default:'email'" json:"auth_provider"`
	PrivacyConsentAt      *time.Time   `json:"privacy_consent_at"`
	DataProcessingConsent bool         `gorm:"not null;default:false" json:"data_processing_consent"`
	MarketingConsent      bool         `gorm:"not null;default:false" json:"marketing_consent"`
	DeletedAt             *time.Time   `gorm:"index" json:"-"`
	CreatedAt             time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time    `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsDeleted() bool { return u.DeletedAt != nil }

// AnonymizedEmail is the placeholder a deleted account's address is replaced with.
// It is derived from the id only, so it stays unique and unlinkable.
func AnonymizedEmail(id UserID) string {
	return fmt.Sprintf("deleted_%s@deleted.local", id)
}

type UserProfile struct {
	ID                         UserID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                     UserID     `gorm:"type:uuid;not null;uniqueIndex:ux_profiles_user" json:"user_id"`
	DisplayName                *string    `gorm:"type:text" json:"display_name"`
	AgeRange                   *string    `gorm:"type:text" json:"age_range"`
	Gender                     *string    `gorm:"type:text" json:"gender"`
	HeightCM                   *int       `gorm:"column:height_cm" json:"height_cm"`
	WeightKG                   *float64   `gorm:"column:weight_kg" json:"weight_kg"`
	FitnessLevel               *string    `gorm:"type:text" json:"fitness_level"`
	PrimaryGoal                *string    `gorm:"type:text" json:"primary_goal"`
	SecondaryGoals             StringList `json:"secondary_goals"`
	DaysPerWeek                *int       `json:"days_per_week"`
	MinutesPerSession          *int       `json:"minutes_per_session"`
	PreferredDays              StringList `json:"preferred_days"`
	Injuries                   *string    `gorm:"type:text" json:"injuries"`
	EquipmentAvailable         StringList `json:"equipment_available"`
	WorkoutLocation            *string    `gorm:"type:text" json:"workout_location"`
	PrefersCardio              *bool      `json:"prefers_cardio"`
	PrefersStrength            *bool      `json:"prefers_strength"`
	InterestedInYoga           *bool      `json:"interested_in_yoga"`
	HealthDisclaimerAcceptedAt *time.Time `json:"health_disclaimer_accepted_at"`
	OnboardingCompletedAt      *time.Time `json:"onboarding_completed_at"`
	CreatedAt                  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt                  time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }

// ClearPII drops the fields that identify a person. Training preferences are kept
// so anonymized aggregates stay meaningful.
func (p *UserProfile) ClearPII() {
	p.DisplayName = nil
	p.AgeRange = nil
	p.Gender = nil
	p.HeightCM = nil
	p.WeightKG = nil
	p.Injuries = nil
}
