package domain

import (
	"time"
)

type Program struct {
	ID                ProgramID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string     `gorm:"type:text;not null" json:"title"`
	Description       *string    `gorm:"type:text" json:"description"`
	ThumbnailURL      *string    `gorm:"type:text" json:"thumbnail_url"`
	Goal              Goal       `gorm:"type:text;not null;index" json:"goal"`
	Difficulty        Difficulty `gorm:"type:text;not null;index" json:"difficulty"`
	EquipmentNeeded   StringList `json:"equipment_needed"`
	DurationWeeks     int        `gorm:"not null" json:"duration_weeks"`
	DaysPerWeek       int        `gorm:"not null" json:"days_per_week"`
	MinutesPerSession int        `gorm:"not null" json:"minutes_per_session"`
	IsFeatured        bool       `gorm:"not null;default:false;index:ix_programs_featured,priority:1" json:"is_featured"`
	IsPublished       bool       `gorm:"not null;default:false;index:ix_programs_featured,priority:2" json:"is_published"`
	OrderIndex        int        `gorm:"not null;default:0" json:"order_index"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"not null" json:"updated_at"`
}

func (Program) TableName() string { return "programs" }

// Workout is one session of a program. DayNumber is the global position used for
// gating; WeekNumber only groups workouts for display.
type Workout struct {
	ID               WorkoutID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID        ProgramID  `gorm:"type:uuid;not null;uniqueIndex:ux_workouts_program_day,priority:1" json:"program_id"`
	WeekNumber       int        `gorm:"not null" json:"week_number"`
	DayNumber        int        `gorm:"not null;uniqueIndex:ux_workouts_program_day,priority:2" json:"day_number"`
	Title            string     `gorm:"type:text;not null" json:"title"`
	Description      *string    `gorm:"type:text" json:"description"`
	Intensity        Intensity  `gorm:"type:text;not null" json:"intensity"`
	DurationMinutes  int        `gorm:"not null" json:"duration_minutes"`
	VideoURL         string     `gorm:"type:text;not null" json:"video_url"`
	VideoTitle       *string    `gorm:"type:text" json:"video_title"`
	VideoThumbnail   *string    `gorm:"type:text" json:"video_thumbnail"`
	CaloriesEstimate *int       `json:"calories_estimate"`
	EquipmentNeeded  StringList `json:"equipment_needed"`
	Tags             StringList `json:"tags"`
	IsRestDay        bool       `gorm:"not null;default:false" json:"is_rest_day"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

func (Workout) TableName() string { return "workouts" }
