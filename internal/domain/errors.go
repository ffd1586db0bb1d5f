package domain

import "errors"

// AuthError is returned by identity operations. Code is stable and safe to send
// to clients; Message is human readable.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string { return e.Code + ": " + e.Message }

// ProgramError is returned by catalog and progress operations.
type ProgramError struct {
	Code    string
	Message string
}

func (e *ProgramError) Error() string { return e.Code + ": " + e.Message }

func authErr(code, msg string) *AuthError       { return &AuthError{Code: code, Message: msg} }
func programErr(code, msg string) *ProgramError { return &ProgramError{Code: code, Message: msg} }

var (
	ErrEmailExists         = authErr("EMAIL_EXISTS", "Email already registered")
	ErrConsentRequired     = authErr("CONSENT_REQUIRED", "Privacy and data processing consent required")
	ErrOTPUnknownEmail     = authErr("INVALID_OTP", "Invalid email or code")
	ErrOTPInvalidOrExpired = authErr("INVALID_OTP", "Invalid or expired code")
	ErrOTPInvalidCode      = authErr("INVALID_OTP", "Invalid code")
	ErrOTPRateLimited      = authErr("OTP_RATE_LIMITED", "Too many OTP requests. Try again later.")
	ErrOTPMaxAttempts      = authErr("OTP_MAX_ATTEMPTS", "Too many failed attempts")
	ErrInvalidCredentials  = authErr("INVALID_CREDENTIALS", "Invalid email or password")
	ErrEmailNotVerified    = authErr("EMAIL_NOT_VERIFIED", "Email not verified")
	ErrAccountInactive     = authErr("ACCOUNT_INACTIVE", "Account is deactivated")
	ErrInvalidRefreshToken = authErr("INVALID_REFRESH_TOKEN", "Invalid or expired refresh token")
	ErrUserInactive        = authErr("USER_INACTIVE", "User not found or inactive")
	ErrInvalidPassword     = authErr("INVALID_PASSWORD", "Current password is incorrect")
	ErrSigninRateLimited   = authErr("SIGNIN_RATE_LIMITED", "Too many failed sign-in attempts. Try again later.")

	ErrConsentWithdrawal = authErr("CONSENT_WITHDRAWAL_REQUIRES_DELETION",
		"Withdrawing data processing consent requires account deletion")
	ErrConfirmationRequired = authErr("CONFIRMATION_REQUIRED", "Set confirm=true to proceed with account deletion")
	ErrOnboardingCompleted  = authErr("ONBOARDING_COMPLETED", "Onboarding already completed. Update the profile instead.")
	ErrHealthDisclaimer     = authErr("HEALTH_DISCLAIMER_REQUIRED", "Health disclaimer must be accepted")
	ErrProfileNotFound      = authErr("PROFILE_NOT_FOUND", "Profile not found. Complete onboarding first.")
)

var (
	ErrProgramNotFound      = programErr("PROGRAM_NOT_FOUND", "Program not found")
	ErrProgramNotPublished  = programErr("PROGRAM_NOT_PUBLISHED", "Program is not available")
	ErrAlreadyEnrolled      = programErr("ALREADY_ENROLLED", "Already enrolled in this program")
	ErrMaxEnrollments       = programErr("MAX_ENROLLMENTS_REACHED", "Maximum active programs reached")
	ErrNotEnrolled          = programErr("NOT_ENROLLED", "Not enrolled in this program")
	ErrWorkoutNotFound      = programErr("WORKOUT_NOT_FOUND", "Workout not found")
	ErrAlreadyCompleted     = programErr("ALREADY_COMPLETED", "Workout already completed")
	ErrPreviousNotCompleted = programErr("PREVIOUS_NOT_COMPLETED", "Complete the previous workout first")
	ErrDuplicateDay         = programErr("DUPLICATE_DAY", "A workout already exists for this day")
)

// InvalidProgram wraps a catalog validation failure.
func InvalidProgram(msg string) *ProgramError { return programErr("INVALID_PROGRAM", msg) }

// CodeOf returns the stable code of a domain error, or "" for anything else.
func CodeOf(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	var pe *ProgramError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
