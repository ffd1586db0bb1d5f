package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"sfc/internal/domain"
	"sfc/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func issue(t *testing.T, e *testEnv, u *domain.User) (access, refresh string) {
	t.Helper()
	var a, r string
	err := e.st.WithTx(context.Background(), func(tx *store.Store) error {
		pair, err := e.tokens.IssuePair(context.Background(), tx, u, "curl/8.0")
		if err != nil {
			return err
		}
		a, r = pair.AccessToken, pair.RefreshToken
		return nil
	})
	require.NoError(t, err)
	return a, r
}

func TestAccessTokenClaims(t *testing.T) {
	e := newTestEnv(t, nil)
	u := memberUser(t, e.st, "claims@example.com")
	access, _ := issue(t, e, u)

	claims, err := e.tokens.VerifyAccess(access)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.Subject)
	require.Equal(t, domain.RoleMember, claims.Role)
	require.Equal(t, domain.AccessTokenType, claims.Type)
	require.Equal(t, testTokenConfig.Issuer, claims.Issuer)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, e.clock.Now().Add(testTokenConfig.AccessTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestAccessTokenRejections(t *testing.T) {
	e := newTestEnv(t, nil)
	u := memberUser(t, e.st, "reject@example.com")
	access, refresh := issue(t, e, u)

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := e.tokens.VerifyAccess(refresh)
		require.Error(t, err)
	})

	t.Run("wrong type claim", func(t *testing.T) {
		now := e.clock.Now()
		claims := domain.AccessClaims{
			Type: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer: testTokenConfig.Issuer, Subject: u.ID.String(),
				Audience:  jwt.ClaimStrings{testTokenConfig.Audience},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testTokenConfig.SigningKey)
		require.NoError(t, err)
		_, err = e.tokens.VerifyAccess(tok)
		require.ErrorIs(t, err, ErrInvalidAccessJWT)
	})

	t.Run("bad signature", func(t *testing.T) {
		other := NewTokenServiceHS256(TokenConfig{
			Issuer: testTokenConfig.Issuer, Audience: testTokenConfig.Audience,
			AccessTTL: time.Minute, SigningKey: []byte("another-key"),
		}, e.st)
		other.now = e.clock.Now
		forged, err := other.signAccess(u, e.clock.Now())
		require.NoError(t, err)
		_, err = e.tokens.VerifyAccess(forged)
		require.Error(t, err)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: u.ID.String(), ExpiresAt: jwt.NewNumericDate(e.clock.Now().Add(time.Minute))}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = e.tokens.VerifyAccess(tok)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		e.clock.Advance(testTokenConfig.AccessTTL + time.Second)
		_, err := e.tokens.VerifyAccess(access)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})
}

func TestRotateIsSingleUse(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	u := memberUser(t, e.st, "rotate@example.com")
	_, refresh := issue(t, e, u)

	pair, got, err := e.tokens.Rotate(ctx, refresh, "ua")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotEqual(t, refresh, pair.RefreshToken)

	_, _, err = e.tokens.Rotate(ctx, refresh, "ua")
	require.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	_, _, err = e.tokens.Rotate(ctx, pair.RefreshToken, "ua")
	require.NoError(t, err)
}

func TestRotateConcurrentOnlyOneWins(t *testing.T) {
	e := newTestEnv(t, nil)
	u := memberUser(t, e.st, "race@example.com")
	_, refresh := issue(t, e, u)

	const n = 4
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := e.tokens.Rotate(context.Background(), refresh, "ua"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestRotateExpiredAndInactive(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()

	u := memberUser(t, e.st, "old@example.com")
	_, refresh := issue(t, e, u)
	e.clock.Advance(testTokenConfig.RefreshTTL)
	_, _, err := e.tokens.Rotate(ctx, refresh, "ua")
	require.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	v := memberUser(t, e.st, "inactive@example.com")
	_, refresh = issue(t, e, v)
	v.IsActive = false
	require.NoError(t, e.st.Users().Save(ctx, v))
	_, _, err = e.tokens.Rotate(ctx, refresh, "ua")
	require.ErrorIs(t, err, domain.ErrUserInactive)

	_, _, err = e.tokens.Rotate(ctx, "not-a-token", "ua")
	require.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRevokeOnlyThePresentedToken(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	u := memberUser(t, e.st, "logout@example.com")
	_, phone := issue(t, e, u)
	_, laptop := issue(t, e, u)

	require.True(t, e.tokens.Revoke(ctx, phone))
	require.False(t, e.tokens.Revoke(ctx, phone), "second revoke reports nothing revoked")
	require.False(t, e.tokens.Revoke(ctx, "unknown"))

	_, _, err := e.tokens.Rotate(ctx, laptop, "ua")
	require.NoError(t, err)
}

func TestRefreshTokenStoredHashed(t *testing.T) {
	e := newTestEnv(t, nil)
	u := memberUser(t, e.st, "hash@example.com")
	_, refresh := issue(t, e, u)

	rt, err := e.st.RefreshTokens().GetByHash(context.Background(), HashRefreshToken(refresh))
	require.NoError(t, err)
	require.NotEqual(t, refresh, rt.TokenHash)
	require.Len(t, rt.TokenHash, 64)
}
