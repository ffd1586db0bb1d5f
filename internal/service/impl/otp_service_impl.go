package impl

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"sfc/internal/domain"
	"sfc/internal/observability/logging"
	"sfc/internal/observability/metrics"
	"sfc/internal/store"

	"github.com/google/uuid"
)

type OTPConfig struct {
	TTL                time.Duration // 10m
	MaxRequestsPerHour int           // 3
	MaxVerifyAttempts  int           // 5
}

const otpDigits = 6

var otpSpace = big.NewInt(1_000_000)

// OTPServiceImpl issues and checks one-time codes bound to (user, purpose).
// Superseded and exhausted codes are marked used, never deleted.
type OTPServiceImpl struct {
	cfg OTPConfig
	now func() time.Time
}

func NewOTPService(cfg OTPConfig) *OTPServiceImpl {
	return &OTPServiceImpl{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

func (o *OTPServiceImpl) Issue(ctx context.Context, tx *store.Store, user *domain.User, purpose domain.OTPPurpose) (code string, err error) {
	defer func() {
		metrics.OTPsTotal.WithLabelValues("issue", string(purpose), metrics.Result(err)).Inc()
	}()
	now := o.now()

	// every code in the window counts, superseded ones included
	recent, err := tx.OTPs().CountCreatedSince(ctx, user.ID, purpose, now.Add(-time.Hour))
	if err != nil {
		return "", err
	}
	if recent >= int64(o.cfg.MaxRequestsPerHour) {
		return "", domain.ErrOTPRateLimited
	}

	if _, err := tx.OTPs().Supersede(ctx, user.ID, purpose, now); err != nil {
		return "", err
	}

	code, err = newOTPCode()
	if err != nil {
		return "", err
	}
	if err := tx.OTPs().Create(ctx, &domain.OTPCode{
		ID:        uuid.New(),
		UserID:    user.ID,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: now.Add(o.cfg.TTL),
		CreatedAt: now,
	}); err != nil {
		return "", err
	}
	logging.FromContext(ctx).Info("otp issued", "user_id", user.ID, "purpose", purpose)
	return code, nil
}

// Verify consumes the newest live code for (email, purpose). The attempt
// counter is bumped before the limit check, and the limit check runs before
// the comparison, so the call that trips the limit is never evaluated.
// Callers must commit tx even when Verify fails so the bookkeeping sticks.
func (o *OTPServiceImpl) Verify(ctx context.Context, tx *store.Store, email, code string, purpose domain.OTPPurpose) (user *domain.User, err error) {
	defer func() {
		metrics.OTPsTotal.WithLabelValues("verify", string(purpose), metrics.Result(err)).Inc()
	}()
	now := o.now()

	user, err = tx.Users().GetByEmail(ctx, email)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrOTPUnknownEmail
	}
	if err != nil {
		return nil, err
	}

	otp, err := tx.OTPs().LatestActiveForUpdate(ctx, user.ID, purpose, now)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrOTPInvalidOrExpired
	}
	if err != nil {
		return nil, err
	}

	otp.Attempts++
	if otp.Attempts > o.cfg.MaxVerifyAttempts {
		otp.UsedAt = &now
		if err := tx.OTPs().Save(ctx, otp); err != nil {
			return nil, err
		}
		return nil, domain.ErrOTPMaxAttempts
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		if err := tx.OTPs().Save(ctx, otp); err != nil {
			return nil, err
		}
		return nil, domain.ErrOTPInvalidCode
	}

	otp.UsedAt = &now
	if err := tx.OTPs().Save(ctx, otp); err != nil {
		return nil, err
	}
	if purpose == domain.PurposeSignup && !user.IsVerified {
		if err := tx.Users().SetVerified(ctx, user.ID); err != nil {
			return nil, err
		}
		user.IsVerified = true
	}
	return user, nil
}

// newOTPCode draws uniformly from 000000..999999.
func newOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
