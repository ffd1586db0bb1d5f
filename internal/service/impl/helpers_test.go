package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/ratelimit"
	"sfc/internal/store"
	"sfc/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// captureEmail remembers the last code sent to each address.
type captureEmail struct {
	mu     sync.Mutex
	otps   map[string]string
	resets map[string]string
	fail   bool
}

func newCaptureEmail() *captureEmail {
	return &captureEmail{otps: map[string]string{}, resets: map[string]string{}}
}

func (c *captureEmail) SendOTP(_ context.Context, to, code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.otps[to] = code
	return !c.fail
}

func (c *captureEmail) SendPasswordReset(_ context.Context, to, code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets[to] = code
	return !c.fail
}

func (c *captureEmail) lastOTP(to string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.otps[to]
}

func (c *captureEmail) lastReset(to string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resets[to]
}

var testTokenConfig = TokenConfig{
	Issuer:     "sfc-test",
	Audience:   "sfc-test-clients",
	AccessTTL:  15 * time.Minute,
	RefreshTTL: 30 * 24 * time.Hour,
	SigningKey: []byte("test-signing-key-0123456789abcdef"),
}

var testOTPConfig = OTPConfig{TTL: 10 * time.Minute, MaxRequestsPerHour: 3, MaxVerifyAttempts: 5}

type testEnv struct {
	st     *store.Store
	clock  *fakeClock
	pw     *PasswordServiceImpl
	tokens *TokenServiceImpl
	otps   *OTPServiceImpl
	mail   *captureEmail
	auth   *AuthServiceImpl
}

func newTestEnv(t *testing.T, limiter *ratelimit.SigninLimiter) *testEnv {
	t.Helper()
	st := storetest.New(t)
	clock := newFakeClock()

	pw := NewPasswordServiceArgon2id(testArgon2Params)
	tokens := NewTokenServiceHS256(testTokenConfig, st)
	tokens.now = clock.Now
	otps := NewOTPService(testOTPConfig)
	otps.now = clock.Now
	mail := newCaptureEmail()

	auth := NewAuthServiceImpl(st, pw, tokens, otps, mail, limiter)
	auth.now = clock.Now

	return &testEnv{st: st, clock: clock, pw: pw, tokens: tokens, otps: otps, mail: mail, auth: auth}
}

func signupReq(email, password string) dto.SignupRequest {
	return dto.SignupRequest{Email: email, Password: password, PrivacyConsent: true, DataProcessingConsent: true}
}

// verifiedUser signs up and verifies an account, returning its first token pair.
func (e *testEnv) verifiedUser(t *testing.T, email, password string) (*domain.User, *dto.TokenPair) {
	t.Helper()
	ctx := context.Background()
	_, err := e.auth.Signup(ctx, signupReq(email, password))
	require.NoError(t, err)
	pair, err := e.auth.VerifyOTP(ctx, dto.VerifyOTPRequest{Email: email, Code: e.mail.lastOTP(email)}, dto.Client{DeviceInfo: "test"})
	require.NoError(t, err)
	u, err := e.st.Users().GetByEmail(ctx, email)
	require.NoError(t, err)
	return u, pair
}

// memberUser inserts a verified member directly.
func memberUser(t *testing.T, st *store.Store, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID: uuid.New(), Email: email, Role: domain.RoleMember, IsActive: true, IsVerified: true,
		AuthProvider: domain.ProviderEmail, DataProcessingConsent: true, PrivacyConsentAt: &now,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return u
}

func ptr[T any](v T) *T { return &v }

// publishedProgram creates a published program with one workout per listed
// duration, on days 1..n.
func publishedProgram(t *testing.T, cat *CatalogServiceImpl, title string, durations ...int) *dto.ProgramDetail {
	t.Helper()
	ctx := context.Background()
	req := dto.CreateProgramRequest{
		Title: title, Goal: string(domain.GoalWeightLoss), Difficulty: string(domain.DifficultyBeginner),
		DurationWeeks: 1, DaysPerWeek: 3, MinutesPerSession: 30,
	}
	for i, d := range durations {
		req.Workouts = append(req.Workouts, dto.WorkoutInput{
			WeekNumber: 1, DayNumber: i + 1, Title: "Day", Intensity: string(domain.IntensityLow),
			DurationMinutes: d, VideoURL: "https://videos.example.com/w.mp4",
		})
	}
	d, err := cat.Create(ctx, req)
	require.NoError(t, err)
	_, err = cat.SetPublished(ctx, d.ID, true)
	require.NoError(t, err)
	d.IsPublished = true
	return d
}
