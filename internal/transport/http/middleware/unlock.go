package middleware

import (
	"context"
	"net/http"
	"strings"

	"qbhouse/internal/domain/auth"
	"qbhouse/internal/transport/http/api"
)

type ctxKey string

const ctxKeyUnlock ctxKey = "manager_unlock"

// TokenVerifier is satisfied by *auth.Unlocker.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Unlock marks the request as manager-unlocked when it carries a valid bearer token.
// Requests without one pass through locked.
func Unlock(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil || claims.Scope != auth.ScopeManager {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyUnlock, *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func ManagerUnlocked(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKeyUnlock).(auth.Claims)
	return ok
}

// RequireUnlock rejects locked requests with 403.
func RequireUnlock(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ManagerUnlocked(r.Context()) {
			api.Fail(w, http.StatusForbidden, "manager_locked", "manager section is locked", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
