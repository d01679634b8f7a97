package auth

import (
	"context"
	"net/http"
	"strings"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// Authenticate verifies the bearer token and stores the caller in the request
// context. fail writes the rejection; it receives an *apperr.Error of kind
// ErrUnauthorized.
func (m *TokenManager) Authenticate(fail func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				fail(w, r, apperr.Unauthorized("missing bearer token"))
				return
			}
			tokenString := strings.TrimSpace(header[len("Bearer "):])
			claims, err := m.Parse(tokenString)
			if err != nil {
				fail(w, r, apperr.Unauthorized("invalid token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Role)))
		})
	}
}

// RequireRole rejects callers whose token role is not in allowed. It must run
// after Authenticate.
func RequireRole(fail func(http.ResponseWriter, *http.Request, error), allowed ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				fail(w, r, apperr.Unauthorized("missing role"))
				return
			}
			for _, a := range allowed {
				if role == a {
					next.ServeHTTP(w, r)
					return
				}
			}
			fail(w, r, apperr.Forbidden("insufficient permissions"))
		})
	}
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxUserID).(int64)
	return id, ok
}

func RoleFromContext(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(ctxRole).(domain.Role)
	return role, ok
}

// WithUser returns a context carrying an authenticated caller.
func WithUser(ctx context.Context, userID int64, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}
