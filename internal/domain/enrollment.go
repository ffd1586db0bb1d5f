package domain

import (
	"time"

	"github.com/google/uuid"
)

type ProgramEnrollment struct {
	ID                     EnrollmentID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                 UserID       `gorm:"type:uuid;not null;uniqueIndex:ux_enrollments_user_program,priority:1;index:ix_enrollments_user_active,priority:1" json:"user_id"`
	ProgramID              ProgramID    `gorm:"type:uuid;not null;uniqueIndex:ux_enrollments_user_program,priority:2" json:"program_id"`
	CurrentDay             int          `gorm:"not null;default:1" json:"current_day"`
	StartedAt              time.Time    `gorm:"not null" json:"started_at"`
	CompletedAt            *time.Time   `json:"completed_at"`
	IsActive               bool         `gorm:"not null;index:ix_enrollments_user_active,priority:2" json:"is_active"`
	PausedAt               *time.Time   `json:"paused_at"`
	TotalWorkoutsCompleted int          `gorm:"not null;default:0" json:"total_workouts_completed"`
	TotalMinutesCompleted  int          `gorm:"not null;default:0" json:"total_minutes_completed"`
	StreakDays             int          `gorm:"not null;default:0" json:"streak_days"`
	LastWorkoutAt          *time.Time   `json:"last_workout_at"`
	CreatedAt              time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt              time.Time    `gorm:"not null" json:"updated_at"`
}

func (ProgramEnrollment) TableName() string { return "program_enrollments" }

// InProgress reports whether the enrollment counts against the active cap.
func (e *ProgramEnrollment) InProgress() bool {
	return e.IsActive && e.CompletedAt == nil
}

// Reactivate restarts a paused or completed enrollment in place. Completion rows
// and aggregate stats are kept.
func (e *ProgramEnrollment) Reactivate(now time.Time) {
	e.IsActive = true
	e.CompletedAt = nil
	e.PausedAt = nil
	e.CurrentDay = 1
	e.StartedAt = now
}

// RecordWorkout folds one completion into the aggregate stats.
func (e *ProgramEnrollment) RecordWorkout(minutes int, at time.Time) {
	e.StreakDays = nextStreak(e.StreakDays, e.LastWorkoutAt, at)
	e.TotalWorkoutsCompleted++
	e.TotalMinutesCompleted += minutes
	e.LastWorkoutAt = &at
}

// Streak counts consecutive UTC calendar days with at least one workout.
func nextStreak(current int, last *time.Time, at time.Time) int {
	if last == nil {
		return 1
	}
	today := truncateDay(at)
	prev := truncateDay(*last)
	switch {
	case today.Equal(prev):
		if current == 0 {
			return 1
		}
		return current
	case today.Equal(prev.AddDate(0, 0, 1)):
		return current + 1
	default:
		return 1
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type DifficultyFelt string

const (
	FeltEasy      DifficultyFelt = "easy"
	FeltJustRight DifficultyFelt = "just_right"
	FeltHard      DifficultyFelt = "hard"
)

func (d DifficultyFelt) Valid() bool {
	return d == FeltEasy || d == FeltJustRight || d == FeltHard
}

type WorkoutCompletion struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID    EnrollmentID    `gorm:"type:uuid;not null;uniqueIndex:ux_completions_enrollment_workout,priority:1" json:"enrollment_id"`
	WorkoutID       WorkoutID       `gorm:"type:uuid;not null;uniqueIndex:ux_completions_enrollment_workout,priority:2;index" json:"workout_id"`
	CompletedAt     time.Time       `gorm:"not null" json:"completed_at"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Rating          *int            `json:"rating"`
	DifficultyFelt  *DifficultyFelt `gorm:"type:text" json:"difficulty_felt"`
	Notes           *string         `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
}

func (WorkoutCompletion) TableName() string { return "workout_completions" }
