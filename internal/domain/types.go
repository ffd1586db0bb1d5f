package domain

import "github.com/google/uuid"

type UserID = uuid.UUID
type ProgramID = uuid.UUID
type WorkoutID = uuid.UUID
type EnrollmentID = uuid.UUID

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type AuthProvider string

const (
	ProviderEmail  AuthProvider = "email"
	ProviderGoogle AuthProvider = "google" // reserved, no login flow yet
)

type OTPPurpose string

const (
	PurposeSignup        OTPPurpose = "signup"
	PurposePasswordReset OTPPurpose = "password_reset"
)

func (p OTPPurpose) Valid() bool {
	return p == PurposeSignup || p == PurposePasswordReset
}

type Goal string

const (
	GoalWeightLoss     Goal = "weight_loss"
	GoalMuscleGain     Goal = "muscle_gain"
	GoalFlexibility    Goal = "flexibility"
	GoalEndurance      Goal = "endurance"
	GoalGeneralFitness Goal = "general_fitness"
	GoalRehabMobility  Goal = "rehab_mobility"
)

func (g Goal) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalFlexibility, GoalEndurance, GoalGeneralFitness, GoalRehabMobility:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

func (i Intensity) Valid() bool {
	return i == IntensityLow || i == IntensityMedium || i == IntensityHigh
}
