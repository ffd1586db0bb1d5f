package impl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/observability/logging"
	"sfc/internal/observability/metrics"
	"sfc/internal/ratelimit"
	"sfc/internal/service"
	"sfc/internal/store"

	"github.com/google/uuid"
)

const (
	msgSignupCreated     = "Account created. Please check your email for verification code."
	msgResendGeneric     = "If the email exists, a verification code has been sent."
	msgAlreadyVerified   = "Email is already verified."
	msgResendSent        = "Verification code sent to your email."
	msgForgotGeneric     = "If the email exists, a reset code has been sent."
	msgAccountDeleted    = "Account deleted successfully. Your data has been anonymized."
	accountDeletedReason = "user_request"
)

// AuthServiceImpl orchestrates the identity flows. Every flow runs in one
// transaction; email goes out only after commit.
type AuthServiceImpl struct {
	Store           *store.Store
	PasswordService service.PasswordService
	TService        service.TokenService
	OTPService      service.OTPService
	Email           service.EmailService
	Limiter         *ratelimit.SigninLimiter // nil disables sign-in throttling

	now func() time.Time

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthServiceImpl(
	st *store.Store,
	passwordService service.PasswordService,
	tokenService service.TokenService,
	otpService service.OTPService,
	email service.EmailService,
	limiter *ratelimit.SigninLimiter,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           st,
		PasswordService: passwordService,
		TService:        tokenService,
		OTPService:      otpService,
		Email:           email,
		Limiter:         limiter,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (a *AuthServiceImpl) Signup(ctx context.Context, r dto.SignupRequest) (out *dto.SignupResponse, err error) {
	defer func() { metrics.SignupsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	r.Email = store.NormalizeEmail(r.Email)
	if err := checkRequest(r); err != nil {
		return nil, err
	}
	email := r.Email
	// hash outside the transaction, it is the slow part
	hash, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	var (
		user *domain.User
		code string
	)
	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		existing, err := tx.Users().GetByEmail(ctx, email)
		switch {
		case err == nil:
			if existing.IsVerified {
				return domain.ErrEmailExists
			}
			// an unverified account never proved ownership, start over
			if _, err := tx.DeleteUserData(ctx, existing.ID); err != nil {
				return err
			}
		case !errors.Is(err, store.ErrRecordNotFound):
			return err
		}

		if !r.PrivacyConsent || !r.DataProcessingConsent {
			return domain.ErrConsentRequired
		}

		now := a.now()
		user = &domain.User{
			ID:                    uuid.New(),
			Email:                 email,
			HashedPassword:        &hash,
			Role:                  domain.RoleMember,
			IsActive:              true,
			IsVerified:            false, // flips only through a signup OTP
			AuthProvider:          domain.ProviderEmail,
			PrivacyConsentAt:      &now,
			DataProcessingConsent: true,
			MarketingConsent:      r.MarketingConsent,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		if err := tx.Audit().Record(ctx, user.ID, domain.AuditSignup, nil); err != nil {
			return err
		}
		code, err = a.OTPService.Issue(ctx, tx, user, domain.PurposeSignup)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("user created", "user_id", user.ID)
	sent := a.Email.SendOTP(ctx, user.Email, code)
	return &dto.SignupResponse{
		Message:   msgSignupCreated,
		UserID:    user.ID.String(),
		Email:     user.Email,
		EmailSent: sent,
	}, nil
}

func (a *AuthServiceImpl) VerifyOTP(ctx context.Context, r dto.VerifyOTPRequest, c dto.Client) (*dto.TokenPair, error) {
	if err := checkRequest(r); err != nil {
		return nil, err
	}

	var pair *dto.TokenPair
	verr, err := a.withOTP(ctx, r.Email, r.Code, domain.PurposeSignup, func(tx *store.Store, user *domain.User) error {
		if err := tx.Audit().Record(ctx, user.ID, domain.AuditEmailVerified, nil); err != nil {
			return err
		}
		var err error
		pair, err = a.TService.IssuePair(ctx, tx, user, c.DeviceInfo)
		return err
	})
	if err == nil {
		err = verr
	}
	metrics.TokensIssuedTotal.WithLabelValues("verify_otp", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// withOTP verifies a code and runs fn in the same transaction. A domain
// rejection from the OTP check is returned as verr after the transaction
// commits, so attempt counters and exhaustion persist.
func (a *AuthServiceImpl) withOTP(
	ctx context.Context,
	email, code string,
	purpose domain.OTPPurpose,
	fn func(tx *store.Store, user *domain.User) error,
) (verr error, err error) {
	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		user, err := a.OTPService.Verify(ctx, tx, email, code, purpose)
		if err != nil {
			var ae *domain.AuthError
			if errors.As(err, &ae) {
				verr = err
				return nil
			}
			return err
		}
		return fn(tx, user)
	})
	return verr, err
}

func (a *AuthServiceImpl) ResendOTP(ctx context.Context, rawEmail string) (*dto.MessageResponse, error) {
	email, err := cleanEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	msg := msgResendSent
	var code string
	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByEmail(ctx, email)
		if errors.Is(err, store.ErrRecordNotFound) {
			msg = msgResendGeneric
			return nil
		}
		if err != nil {
			return err
		}
		if user.IsVerified {
			msg = msgAlreadyVerified
			return nil
		}
		code, err = a.OTPService.Issue(ctx, tx, user, domain.PurposeSignup)
		return err
	})
	if err != nil {
		return nil, err
	}
	if code != "" {
		a.Email.SendOTP(ctx, email, code)
	}
	return &dto.MessageResponse{Message: msg}, nil
}

func (a *AuthServiceImpl) Signin(ctx context.Context, r dto.SigninRequest, c dto.Client) (pair *dto.TokenPair, err error) {
	defer func() { metrics.SigninsTotal.WithLabelValues(metrics.Result(err)).Inc() }()
	log := logging.FromContext(ctx)

	email := store.NormalizeEmail(r.Email)
	if email == "" || r.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := a.Limiter.Check(ctx, email, c.IP); err != nil {
		if errors.Is(err, ratelimit.ErrRateLimited) {
			return nil, domain.ErrSigninRateLimited
		}
		log.Warn("signin limiter unavailable, allowing", "error", err)
	}

	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		// unknown email, missing hash and wrong password look the same
		user, err := tx.Users().GetByEmail(ctx, email)
		if errors.Is(err, store.ErrRecordNotFound) {
			a.verifyDecoy(r.Password)
			return domain.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if user.HashedPassword == nil {
			a.verifyDecoy(r.Password)
			return domain.ErrInvalidCredentials
		}
		rehashNeeded, ok := a.PasswordService.Verify(r.Password, *user.HashedPassword)
		if !ok {
			return domain.ErrInvalidCredentials
		}
		if !user.IsVerified {
			return domain.ErrEmailNotVerified
		}
		if !user.IsActive {
			return domain.ErrAccountInactive
		}

		// transparent rehash (policy upgrade or legacy bcrypt)
		if rehashNeeded {
			hash, err := a.PasswordService.Hash(r.Password)
			if err != nil {
				return err
			}
			if err := tx.Users().SetPassword(ctx, user.ID, hash); err != nil {
				return err
			}
		}

		pair, err = a.TService.IssuePair(ctx, tx, user, c.DeviceInfo)
		return err
	})
	metrics.TokensIssuedTotal.WithLabelValues("signin", metrics.Result(err)).Inc()

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		if lerr := a.Limiter.RecordFailure(ctx, email, c.IP); lerr != nil {
			log.Warn("signin limiter record failure", "error", lerr)
		}
	case err == nil:
		if lerr := a.Limiter.Reset(ctx, email); lerr != nil {
			log.Warn("signin limiter reset", "error", lerr)
		}
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// verifyDecoy spends one password verification on a fixed hash, so a miss on
// the account lookup takes as long as a wrong password.
func (a *AuthServiceImpl) verifyDecoy(password string) {
	a.decoyOnce.Do(func() {
		h, err := a.PasswordService.Hash("decoy-password-for-unknown-accounts")
		if err == nil {
			a.decoyHash = h
		}
	})
	if a.decoyHash != "" {
		a.PasswordService.Verify(password, a.decoyHash)
	}
}

func (a *AuthServiceImpl) Refresh(ctx context.Context, rawRefresh string, c dto.Client) (*dto.TokenPair, error) {
	if rawRefresh == "" {
		return nil, domain.ErrInvalidRefreshToken
	}
	pair, _, err := a.TService.Rotate(ctx, rawRefresh, c.DeviceInfo)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, rawRefresh string) bool {
	return a.TService.Revoke(ctx, rawRefresh)
}

func (a *AuthServiceImpl) ChangePassword(ctx context.Context, userID domain.UserID, r dto.ChangePasswordRequest) error {
	if err := checkRequest(r); err != nil {
		return err
	}
	hash, err := a.PasswordService.Hash(r.NewPassword)
	if err != nil {
		return err
	}

	return a.Store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserInactive
		}
		if err != nil {
			return err
		}
		if user.HashedPassword == nil {
			return domain.ErrInvalidPassword
		}
		if _, ok := a.PasswordService.Verify(r.CurrentPassword, *user.HashedPassword); !ok {
			return domain.ErrInvalidPassword
		}
		if err := tx.Users().SetPassword(ctx, user.ID, hash); err != nil {
			return err
		}
		n, err := a.TService.RevokeAll(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		return tx.Audit().Record(ctx, user.ID, domain.AuditPasswordChanged, map[string]any{"tokens_revoked": n})
	})
}

// ForgotPassword answers the same way whether or not the account exists.
// Only the OTP rate limit surfaces as an error.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, rawEmail string) (*dto.MessageResponse, error) {
	email, err := cleanEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	var code string
	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByEmail(ctx, email)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !user.IsVerified || !user.IsActive {
			return nil
		}
		code, err = a.OTPService.Issue(ctx, tx, user, domain.PurposePasswordReset)
		return err
	})
	if err != nil {
		return nil, err
	}
	if code != "" {
		a.Email.SendPasswordReset(ctx, email, code)
	}
	return &dto.MessageResponse{Message: msgForgotGeneric}, nil
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, r dto.ResetPasswordRequest) error {
	if err := checkRequest(r); err != nil {
		return err
	}
	hash, err := a.PasswordService.Hash(r.NewPassword)
	if err != nil {
		return err
	}

	verr, err := a.withOTP(ctx, r.Email, r.Code, domain.PurposePasswordReset, func(tx *store.Store, user *domain.User) error {
		if err := tx.Users().SetPassword(ctx, user.ID, hash); err != nil {
			return err
		}
		n, err := a.TService.RevokeAll(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		return tx.Audit().Record(ctx, user.ID, domain.AuditPasswordReset, map[string]any{"tokens_revoked": n})
	})
	if err != nil {
		return err
	}
	return verr
}

// DeleteAccount anonymizes the account in place. It cannot be undone.
func (a *AuthServiceImpl) DeleteAccount(ctx context.Context, userID domain.UserID) (*dto.DeleteAccountResponse, error) {
	now := a.now()
	err := a.Store.WithTx(ctx, func(tx *store.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserInactive
		}
		if err != nil {
			return err
		}
		if user.IsDeleted() {
			return domain.ErrUserInactive
		}

		revoked, err := a.TService.RevokeAll(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.OTPs().DeleteForUser(ctx, userID); err != nil {
			return err
		}
		if _, err := tx.RefreshTokens().DeleteForUser(ctx, userID); err != nil {
			return err
		}
		if err := tx.Users().Anonymize(ctx, userID, now); err != nil {
			return err
		}

		profile, err := tx.Profiles().GetByUserID(ctx, userID)
		switch {
		case err == nil:
			profile.ClearPII()
			profile.UpdatedAt = now
			if err := tx.Profiles().Save(ctx, profile); err != nil {
				return err
			}
		case !errors.Is(err, store.ErrRecordNotFound):
			return err
		}

		return tx.Audit().Record(ctx, userID, domain.AuditAccountDeleted, map[string]any{
			"reason":         accountDeletedReason,
			"tokens_revoked": revoked,
		})
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("account deleted", "user_id", userID)
	return &dto.DeleteAccountResponse{Message: msgAccountDeleted, DeletedAt: now}, nil
}

func (a *AuthServiceImpl) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := a.TService.VerifyAccess(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccessJWT, err)
	}
	uid, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidAccessJWT
	}
	user, err := a.Store.Users().GetByID(ctx, uid)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrInvalidAccessJWT
	}
	if err != nil {
		return nil, err
	}
	if user.IsDeleted() || !user.IsActive {
		return nil, domain.ErrAccountInactive
	}
	return user, nil
}

func (a *AuthServiceImpl) Status(ctx context.Context, user *domain.User) (*dto.AuthStatusResponse, error) {
	out := &dto.AuthStatusResponse{User: dto.NewUserResponse(user)}
	profile, err := a.Store.Profiles().GetByUserID(ctx, user.ID)
	switch {
	case err == nil:
		out.HasProfile = true
		out.OnboardingCompleted = profile.OnboardingCompletedAt != nil
	case !errors.Is(err, store.ErrRecordNotFound):
		return nil, err
	}
	return out, nil
}

// EnsureAdmin creates a verified admin, or promotes the existing account with
// that email. created reports which happened.
func (a *AuthServiceImpl) EnsureAdmin(ctx context.Context, rawEmail, password string) (user *domain.User, created bool, err error) {
	email := store.NormalizeEmail(rawEmail)
	if err := checkRequest(dto.SignupRequest{Email: email, Password: password}); err != nil {
		return nil, false, err
	}
	hash, err := a.PasswordService.Hash(password)
	if err != nil {
		return nil, false, err
	}

	err = a.Store.WithTx(ctx, func(tx *store.Store) error {
		now := a.now()
		existing, err := tx.Users().GetByEmail(ctx, email)
		if err == nil {
			existing.Role = domain.RoleAdmin
			existing.IsVerified = true
			existing.IsActive = true
			existing.HashedPassword = &hash
			existing.UpdatedAt = now
			user = existing
			return tx.Users().Save(ctx, existing)
		}
		if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		user = &domain.User{
			ID:                    uuid.New(),
			Email:                 email,
			HashedPassword:        &hash,
			Role:                  domain.RoleAdmin,
			IsActive:              true,
			IsVerified:            true,
			AuthProvider:          domain.ProviderEmail,
			PrivacyConsentAt:      &now,
			DataProcessingConsent: true,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		created = true
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}
