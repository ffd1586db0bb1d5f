package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sfc/internal/domain"
	"sfc/internal/observability/logging"
	"sfc/internal/service"
)

type userKey struct{}

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// currentUser is only valid behind requireUser.
func currentUser(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey{}).(*domain.User)
	return u
}

func bearerToken(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(raw[len("Bearer "):])
	return tok, tok != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, "Could not validate credentials", "")
}

// requireUser resolves the bearer access token to a live account.
func requireUser(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}
			user, err := auth.Authenticate(r.Context(), tok)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrAccountInactive):
				writeDetail(w, http.StatusForbidden, "User account is deactivated", "")
				return
			default:
				logging.FromContext(r.Context()).Debug("access token rejected", "error", err)
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), user)))
		})
	}
}

func requireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := currentUser(r.Context()); u == nil || !u.IsVerified {
			writeDetail(w, http.StatusForbidden, "Email not verified", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := currentUser(r.Context()); u == nil || u.Role != domain.RoleAdmin {
			writeDetail(w, http.StatusForbidden, "Admin access required", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
