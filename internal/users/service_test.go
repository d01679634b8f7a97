package users

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
	"printshop/m/internal/auth"
	"printshop/m/internal/database"
	"printshop/m/internal/migrations"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Connect("sqlite", filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	svc := NewService(NewStore(db), auth.NewTokenManager("secret", time.Hour))
	svc.cost = bcrypt.MinCost
	return svc
}

func str(s string) *string { return &s }

func registerCompany(t *testing.T, svc *Service, email string) domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		Email:            email,
		Password:         "password123",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		IsCompany:        true,
		CompanyName:      str("Analytical Engines Ltd"),
		CompanyTaxNumber: str("GB123"),
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	company := registerCompany(t, svc, "Ada@Example.com")
	assert.Equal(t, "ada@example.com", company.Email)
	assert.Equal(t, domain.RoleEmployee, company.Role)
	assert.Equal(t, domain.ApprovalPending, company.ApprovalStatus)
	assert.True(t, company.IsCompany)

	person, err := svc.Register(ctx, RegisterRequest{
		Email: "bob@example.com", Password: "password123", FirstName: "Bob", LastName: "Builder",
		CompanyName: str("ignored"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalAccepted, person.ApprovalStatus)
	assert.Nil(t, person.CompanyName)

	_, err = svc.Register(ctx, RegisterRequest{Email: "ada@example.com", Password: "password123", FirstName: "A", LastName: "L"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = svc.Register(ctx, RegisterRequest{Email: "c@example.com", Password: "password123", FirstName: "C", LastName: "D", IsCompany: true})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = svc.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "short"})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestLoginRequiresAcceptedCompany(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	company := registerCompany(t, svc, "ada@example.com")

	_, err := svc.Login(ctx, "ada@example.com", "password123")
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	require.NoError(t, svc.SetApproval(ctx, company.ID, "accepted"))
	res, err := svc.Login(ctx, "ADA@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, company.ID, res.User.ID)

	_, err = svc.Login(ctx, "ada@example.com", "wrong-password")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestSetApproval(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	company := registerCompany(t, svc, "ada@example.com")

	err := svc.SetApproval(ctx, company.ID, "maybe")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	companies, err := svc.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, domain.ApprovalPending, companies[0].ApprovalStatus)

	require.NoError(t, svc.SetApproval(ctx, company.ID, "denied"))
	companies, err = svc.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalDenied, companies[0].ApprovalStatus)

	assert.True(t, errors.Is(svc.SetApproval(ctx, 999, "accepted"), apperr.ErrNotFound))
	assert.True(t, errors.Is(svc.SetApproval(ctx, 0, "accepted"), apperr.ErrInvalid))
}

func TestEmployees(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	admin, err := svc.EnsureAdmin(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)
	company := registerCompany(t, svc, "ada@example.com")

	employees, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, company.ID, employees[0].ID)

	assert.True(t, errors.Is(svc.DeleteEmployee(ctx, admin.ID), apperr.ErrNotFound), "admins are not employee records")
	require.NoError(t, svc.DeleteEmployee(ctx, company.ID))
	assert.True(t, errors.Is(svc.DeleteEmployee(ctx, company.ID), apperr.ErrNotFound))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second, err := svc.EnsureAdmin(ctx, "admin@example.com", "anothersecret")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	res, err := svc.Login(ctx, "admin@example.com", "anothersecret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	registerCompany(t, svc, "ada@example.com")
	_, err = svc.EnsureAdmin(ctx, "ada@example.com", "supersecret")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}
