package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
)

func writeStatus(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
	default:
		w.WriteHeader(http.StatusUnauthorized)
	}
}

func adminOnly(m *TokenManager, reached *bool) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, *reached = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return m.Authenticate(writeStatus)(RequireRole(writeStatus, domain.RoleAdmin)(inner))
}

func TestAdminGate(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	adminToken, err := m.Generate(1, domain.RoleAdmin)
	require.NoError(t, err)
	employeeToken, err := m.Generate(2, domain.RoleEmployee)
	require.NoError(t, err)
	forged, err := NewTokenManager("other", time.Hour).Generate(1, domain.RoleAdmin)
	require.NoError(t, err)

	expiring := NewTokenManager("secret", time.Hour)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiring.Generate(1, domain.RoleAdmin)
	require.NoError(t, err)
	unknownRole, err := m.Generate(3, domain.Role("OWNER"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		status  int
		reached bool
	}{
		{name: "no header", header: "", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", status: http.StatusUnauthorized},
		{name: "wrong signature", header: "Bearer " + forged, status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "unknown role", header: "Bearer " + unknownRole, status: http.StatusUnauthorized},
		{name: "employee role", header: "Bearer " + employeeToken, status: http.StatusForbidden},
		{name: "admin", header: "Bearer " + adminToken, status: http.StatusOK, reached: true},
		{name: "lowercase scheme", header: "bearer " + adminToken, status: http.StatusOK, reached: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			adminOnly(m, &reached).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.reached, reached)
		})
	}
}

func TestParseRoundTripClaims(t *testing.T) {
	m := NewTokenManager("secret", 0)
	token, err := m.Generate(42, domain.RoleEmployee)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, domain.RoleEmployee, claims.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRequireRoleReadsContextCaller(t *testing.T) {
	reached := false
	handler := RequireRole(writeStatus, domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		role, _ := RoleFromContext(r.Context())
		reached = id == 7 && role == domain.RoleAdmin
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req.WithContext(WithUser(req.Context(), 7, domain.RoleAdmin)))
	assert.True(t, reached)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), 8, domain.RoleEmployee)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, domain.RoleAdmin.Valid())
	assert.True(t, domain.RoleEmployee.Valid())
	assert.False(t, domain.Role("admin").Valid())
	assert.False(t, domain.Role("").Valid())
}
