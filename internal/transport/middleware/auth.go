package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/heartmarshall/flipflop-backend/internal/auth"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Identity, error)
}

// Auth resolves a bearer token (JWT or extension session) into the caller's
// user, team and role. Requests without a token pass through anonymously;
// an invalid token is rejected with 401.
func Auth(a authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			id, err := a.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
				return
			}
			noteCaller(r.Context(), id.UserID, id.TeamID)
			ctx := ctxutil.WithUserID(r.Context(), id.UserID)
			ctx = ctxutil.WithTeam(ctx, id.TeamID, id.Role.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
