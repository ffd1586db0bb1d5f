package impl

import (
	"strings"
	"testing"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/service"

	"github.com/stretchr/testify/require"
)

func TestCheckRequestMessages(t *testing.T) {
	cases := []struct {
		name string
		req  any
		msg  string
	}{
		{"missing email", dto.EmailRequest{}, "email is required"},
		{"bad email", dto.EmailRequest{Email: "not-an-email"}, "email is not a valid email address"},
		{"short password", dto.SignupRequest{Email: "a@example.com", Password: "short"}, "password must be at least 8 characters"},
		{"signed code", dto.VerifyOTPRequest{Code: "+12345"}, "code must contain only digits"},
		{"short code", dto.VerifyOTPRequest{Code: "12345"}, "code must be 6 characters"},
		{"zero rating", dto.CompleteWorkoutRequest{Rating: ptr(0)}, "rating must be at least 1"},
		{"long notes", dto.CompleteWorkoutRequest{Notes: ptr(strings.Repeat("é", 501))}, "notes must be at most 500 characters"},
		{"age range", dto.OnboardingRequest{AgeRange: ptr("12-17")}, "age_range must be one of 18-29, 30-45, 46-65, 65+"},
		{"goal", dto.UpdateProfileRequest{PrimaryGoal: ptr("fame")}, "primary_goal is not a known goal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := checkRequest(tc.req)
			require.ErrorIs(t, err, service.ErrValidation)
			require.Equal(t, "validation failed: "+tc.msg, err.Error())
		})
	}
}

func TestCheckRequestAcceptsValidInput(t *testing.T) {
	require.NoError(t, checkRequest(dto.SignupRequest{Email: "a@example.com", Password: "hunter22!"}))
	require.NoError(t, checkRequest(dto.VerifyOTPRequest{Code: "012345"}))
	// nil fields are not validated
	require.NoError(t, checkRequest(dto.CompleteWorkoutRequest{}))
	require.NoError(t, checkRequest(dto.UpdateProfileRequest{}))
	// 100 multibyte runes fit in display_name
	require.NoError(t, checkRequest(dto.OnboardingRequest{DisplayName: ptr(strings.Repeat("é", 100))}))
}

func TestCheckCatalogReportsInvalidProgram(t *testing.T) {
	w := dto.WorkoutInput{
		WeekNumber:      1,
		DayNumber:       1,
		Title:           "Day 1",
		Intensity:       "medium",
		DurationMinutes: 20,
		VideoURL:        "https://videos.example.com/1",
	}
	require.NoError(t, checkCatalog(w))

	w.Title = "   "
	err := checkCatalog(w)
	require.Equal(t, "INVALID_PROGRAM", domain.CodeOf(err))
	require.Contains(t, err.Error(), "title is required")

	w.Title = "Day 1"
	w.CaloriesEstimate = ptr(-1)
	err = checkCatalog(w)
	require.Equal(t, "INVALID_PROGRAM", domain.CodeOf(err))
	require.Contains(t, err.Error(), "calories_estimate must be at least 0")
}
