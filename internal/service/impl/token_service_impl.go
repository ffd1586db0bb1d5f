package impl

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"sfc/internal/domain"
	"sfc/internal/dto"
	"sfc/internal/netutil"
	"sfc/internal/observability/logging"
	"sfc/internal/observability/metrics"
	"sfc/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer     string        // e.g. "sfc"
	Audience   string        // e.g. "sfc-clients"
	AccessTTL  time.Duration // e.g. 15 * time.Minute
	RefreshTTL time.Duration // e.g. 30 * 24h
	SigningKey []byte        // HS256 secret
}

const refreshTokenBytes = 32

// ====== Service ======

// TokenServiceImpl signs short-lived access JWTs and manages opaque refresh
// tokens. Only the sha256 of a refresh token is ever persisted.
type TokenServiceImpl struct {
	cfg   TokenConfig
	store *store.Store
	now   func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig, st *store.Store) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, store: st, now: func() time.Time { return time.Now().UTC() }}
}

// IssuePair stores a fresh refresh token through tx and signs an access token.
func (t *TokenServiceImpl) IssuePair(ctx context.Context, tx *store.Store, user *domain.User, deviceInfo string) (*dto.TokenPair, error) {
	now := t.now()

	raw, hash, err := newRefreshSecret()
	if err != nil {
		return nil, err
	}
	rt := &domain.RefreshToken{
		ID:         uuid.New(),
		UserID:     user.ID,
		TokenHash:  hash,
		ExpiresAt:  now.Add(t.cfg.RefreshTTL),
		DeviceInfo: netutil.DeviceInfo(deviceInfo),
		CreatedAt:  now,
	}
	if err := tx.RefreshTokens().Create(ctx, rt); err != nil {
		return nil, err
	}

	access, err := t.signAccess(user, now)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("issued tokens", "user_id", user.ID, "refresh_id", rt.ID)

	return &dto.TokenPair{
		AccessToken:  access,
		RefreshToken: raw,
		TokenType:    "bearer",
		ExpiresIn:    int64(t.cfg.AccessTTL.Seconds()),
	}, nil
}

// Rotate revokes the presented refresh token and issues a new pair in one
// transaction. Of two concurrent rotations of the same token only one commits.
func (t *TokenServiceImpl) Rotate(ctx context.Context, rawRefresh, deviceInfo string) (*dto.TokenPair, *domain.User, error) {
	var (
		pair *dto.TokenPair
		user *domain.User
	)
	err := t.store.WithTx(ctx, func(tx *store.Store) error {
		now := t.now()

		rt, err := tx.RefreshTokens().GetByHash(ctx, HashRefreshToken(rawRefresh))
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrInvalidRefreshToken
		}
		if err != nil {
			return err
		}
		if rt.RevokedAt != nil || !now.Before(rt.ExpiresAt) {
			return domain.ErrInvalidRefreshToken
		}

		u, err := tx.Users().GetByID(ctx, rt.UserID)
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserInactive
		}
		if err != nil {
			return err
		}
		if !u.IsActive || u.IsDeleted() {
			return domain.ErrUserInactive
		}

		n, err := tx.RefreshTokens().RevokeIfActive(ctx, rt.ID, now)
		if err != nil {
			return err
		}
		if n != 1 {
			return domain.ErrInvalidRefreshToken
		}

		pair, err = t.IssuePair(ctx, tx, u, deviceInfo)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	metrics.TokensIssuedTotal.WithLabelValues("refresh", metrics.Result(err)).Inc()
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Revoke marks exactly the presented token revoked. Unknown or already revoked
// tokens report false.
func (t *TokenServiceImpl) Revoke(ctx context.Context, rawRefresh string) bool {
	if rawRefresh == "" {
		return false
	}
	rt, err := t.store.RefreshTokens().GetByHash(ctx, HashRefreshToken(rawRefresh))
	if err != nil {
		return false
	}
	n, err := t.store.RefreshTokens().RevokeIfActive(ctx, rt.ID, t.now())
	if err != nil {
		logging.FromContext(ctx).Error("revoke refresh token", "error", err)
		return false
	}
	return n == 1
}

func (t *TokenServiceImpl) RevokeAll(ctx context.Context, tx *store.Store, userID domain.UserID) (int64, error) {
	n, err := tx.RefreshTokens().RevokeAllForUser(ctx, userID, t.now())
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("revoked refresh tokens", "user_id", userID, "count", n)
	if n > 0 {
		if err := tx.Audit().Record(ctx, userID, domain.AuditTokensRevoked, map[string]any{"count": n}); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// VerifyAccess returns the claims of a valid access token, or nil and the
// reason it was rejected.
func (t *TokenServiceImpl) VerifyAccess(token string) (*domain.AccessClaims, error) {
	claims := &domain.AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(t.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalidAccessJWT
	}
	if claims.Type != domain.AccessTokenType {
		return nil, fmt.Errorf("%w: token type %q", ErrInvalidAccessJWT, claims.Type)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidAccessJWT)
	}
	return claims, nil
}

// ====== Helpers ======

func (t *TokenServiceImpl) signAccess(user *domain.User, now time.Time) (string, error) {
	claims := domain.AccessClaims{
		Role: user.Role,
		Type: domain.AccessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

func newRefreshSecret() (raw, hash string, err error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = base64.RawURLEncoding.EncodeToString(buf)
	return raw, HashRefreshToken(raw), nil
}

// HashRefreshToken is the lookup key stored for a raw refresh token.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
