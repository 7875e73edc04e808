package middleware

import (
	"context"
	"net/http"
	"slices"

	"github.com/heartmarshall/flipflop-backend/internal/domain"
	"github.com/heartmarshall/flipflop-backend/pkg/ctxutil"
)

// CheckRole returns domain.ErrForbidden unless the caller's team role is
// one of roles.
func CheckRole(ctx context.Context, roles ...domain.Role) error {
	if !slices.Contains(roles, domain.Role(ctxutil.RoleFromCtx(ctx))) {
		return domain.ErrForbidden
	}
	return nil
}

// RequireRole rejects callers whose team role is not one of roles with 403.
// Anonymous callers get 401.
func RequireRole(roles ...domain.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := ctxutil.UserIDFromCtx(r.Context()); !ok {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
				return
			}
			if err := CheckRole(r.Context(), roles...); err != nil {
				writeError(w, http.StatusForbidden, codeForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
