package dto

import (
	"time"

	"sfc/internal/domain"
)

type CompleteWorkoutRequest struct {
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,min=1"`
	Rating          *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	DifficultyFelt  *string `json:"difficulty_felt" validate:"omitempty,oneof=easy just_right hard"`
	Notes           *string `json:"notes" validate:"omitempty,max=500"`
}

type CompletionResult struct {
	Completion       *domain.WorkoutCompletion `json:"completion"`
	NextWorkout      *domain.Workout           `json:"next_workout"`
	ProgramCompleted bool                      `json:"program_completed"`
}

type EnrollmentProgress struct {
	Enrollment      *domain.ProgramEnrollment `json:"enrollment"`
	Program         *domain.Program           `json:"program,omitempty"`
	TotalDays       int                       `json:"total_days"`
	ProgressPercent float64                   `json:"progress_percent"`
	NextWorkout     *domain.Workout           `json:"next_workout"`
}

type WorkoutWithProgress struct {
	Workout     domain.Workout `json:"workout"`
	IsCompleted bool           `json:"is_completed"`
	CompletedAt *time.Time     `json:"completed_at"`
	IsLocked    bool           `json:"is_locked"`
}

type Recommendations struct {
	Programs []domain.Program `json:"programs"`
	Reason   string           `json:"reason"`
}

type ProgramDetail struct {
	domain.Program
	Workouts []domain.Workout `json:"workouts"`
}

type WorkoutInput struct {
	WeekNumber       int      `json:"week_number" validate:"min=1"`
	DayNumber        int      `json:"day_number" validate:"min=1"`
	Title            string   `json:"title" validate:"notblank,max=200"`
	Description      *string  `json:"description"`
	Intensity        string   `json:"intensity" validate:"intensity"`
	DurationMinutes  int      `json:"duration_minutes" validate:"min=1"`
	VideoURL         string   `json:"video_url" validate:"required,max=500"`
	VideoTitle       *string  `json:"video_title" validate:"omitempty,max=200"`
	VideoThumbnail   *string  `json:"video_thumbnail" validate:"omitempty,max=500"`
	CaloriesEstimate *int     `json:"calories_estimate" validate:"omitempty,min=0"`
	EquipmentNeeded  []string `json:"equipment_needed"`
	Tags             []string `json:"tags"`
	IsRestDay        bool     `json:"is_rest_day"`
}

type CreateProgramRequest struct {
	Title             string         `json:"title" validate:"notblank,max=200"`
	Description       *string        `json:"description"`
	ThumbnailURL      *string        `json:"thumbnail_url" validate:"omitempty,max=500"`
	Goal              string         `json:"goal" validate:"goal"`
	Difficulty        string         `json:"difficulty" validate:"difficulty"`
	EquipmentNeeded   []string       `json:"equipment_needed"`
	DurationWeeks     int            `json:"duration_weeks" validate:"min=1,max=52"`
	DaysPerWeek       int            `json:"days_per_week" validate:"min=1,max=7"`
	MinutesPerSession int            `json:"minutes_per_session" validate:"min=5,max=180"`
	IsFeatured        bool           `json:"is_featured"`
	OrderIndex        int            `json:"order_index"`
	Workouts          []WorkoutInput `json:"workouts"`
}

// UpdateProgramRequest is partial: nil fields are left untouched.
type UpdateProgramRequest struct {
	Title             *string   `json:"title"`
	Description       *string   `json:"description"`
	ThumbnailURL      *string   `json:"thumbnail_url"`
	Goal              *string   `json:"goal"`
	Difficulty        *string   `json:"difficulty"`
	EquipmentNeeded   *[]string `json:"equipment_needed"`
	DurationWeeks     *int      `json:"duration_weeks"`
	DaysPerWeek       *int      `json:"days_per_week"`
	MinutesPerSession *int      `json:"minutes_per_session"`
	IsFeatured        *bool     `json:"is_featured"`
	OrderIndex        *int      `json:"order_index"`
}

type UpdateWorkoutRequest struct {
	WeekNumber       *int      `json:"week_number"`
	DayNumber        *int      `json:"day_number"`
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Intensity        *string   `json:"intensity"`
	DurationMinutes  *int      `json:"duration_minutes"`
	VideoURL         *string   `json:"video_url"`
	VideoTitle       *string   `json:"video_title"`
	VideoThumbnail   *string   `json:"video_thumbnail"`
	CaloriesEstimate *int      `json:"calories_estimate"`
	EquipmentNeeded  *[]string `json:"equipment_needed"`
	Tags             *[]string `json:"tags"`
	IsRestDay        *bool     `json:"is_rest_day"`
}

type ProgramListQuery struct {
	Goal          string
	Difficulty    string
	FeaturedOnly  bool
	PublishedOnly bool // admin listing only
	Limit         int
	Offset        int
}

type EnrollResponse struct {
	EnrollmentID domain.EnrollmentID `json:"enrollment_id"`
	ProgramID    domain.ProgramID    `json:"program_id"`
	Message      string              `json:"message"`
}

type ContinueResponse struct {
	Enrollments []EnrollmentProgress `json:"enrollments"`
}

// CompletionResponse is CompletionResult plus the user-facing message.
type CompletionResponse struct {
	*CompletionResult
	Message string `json:"message"`
}

func NewCompletionResponse(res *CompletionResult) CompletionResponse {
	msg := "Workout completed!"
	if res.ProgramCompleted {
		msg = "Congratulations! You've completed the program!"
	}
	return CompletionResponse{CompletionResult: res, Message: msg}
}
