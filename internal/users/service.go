package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
	"printshop/m/internal/validate"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Generate(userID int64, role domain.Role) (string, error)
}

type Service struct {
	store  *Store
	tokens TokenIssuer
	cost   int
}

func NewService(store *Store, tokens TokenIssuer) *Service {
	return &Service{store: store, tokens: tokens, cost: bcrypt.DefaultCost}
}

type RegisterRequest struct {
	Email            string  `json:"email" validate:"required,email"`
	Password         string  `json:"password" validate:"required,min=8"`
	FirstName        string  `json:"first_name" validate:"required"`
	LastName         string  `json:"last_name" validate:"required"`
	IsCompany        bool    `json:"is_company"`
	CompanyName      *string `json:"company_name" validate:"required_if=IsCompany true"`
	CompanyTaxNumber *string `json:"company_tax_number" validate:"required_if=IsCompany true"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Register creates an employee account. Company accounts wait for approval.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return domain.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domain.User{}, err
	}

	status := domain.ApprovalAccepted
	if req.IsCompany {
		status = domain.ApprovalPending
	} else {
		req.CompanyName, req.CompanyTaxNumber = nil, nil
	}
	return s.store.Create(ctx, domain.User{
		Email:            req.Email,
		Password:         string(hashed),
		Role:             domain.RoleEmployee,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		IsCompany:        req.IsCompany,
		CompanyName:      req.CompanyName,
		CompanyTaxNumber: req.CompanyTaxNumber,
		ApprovalStatus:   status,
	})
}

// Login checks credentials and issues a token. Company accounts must be
// accepted first.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, apperr.ErrNotFound) {
		return AuthResult{}, apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return AuthResult{}, apperr.Unauthorized("invalid credentials")
	}
	if user.IsCompany && user.ApprovalStatus != domain.ApprovalAccepted {
		return AuthResult{}, apperr.Forbidden("company account is %s", user.ApprovalStatus)
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: user}, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]domain.User, error) {
	return s.store.ListCompanies(ctx)
}

func (s *Service) SetApproval(ctx context.Context, userID int64, status string) error {
	if userID <= 0 || status == "" {
		return apperr.Invalid("user_id and approval_status are required")
	}
	st := domain.ApprovalStatus(status)
	if !st.Valid() {
		return apperr.Invalid("approval_status must be one of pending, accepted, denied")
	}
	return s.store.SetApprovalStatus(ctx, userID, st)
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.User, error) {
	return s.store.ListByRole(ctx, domain.RoleEmployee)
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.store.DeleteWithRole(ctx, id, domain.RoleEmployee)
}

// EnsureAdmin creates the admin account, or resets its password when the
// email is already registered as an admin.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 {
		return domain.User{}, apperr.Invalid("admin email and a password of at least 8 characters are required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, err
	}

	existing, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return domain.User{}, apperr.Conflict("%s is registered with role %s", email, existing.Role)
		}
		if err := s.store.UpdatePassword(ctx, existing.ID, string(hashed)); err != nil {
			return domain.User{}, err
		}
		return existing, nil
	case !errors.Is(err, apperr.ErrNotFound):
		return domain.User{}, err
	}

	return s.store.Create(ctx, domain.User{
		Email:          email,
		Password:       string(hashed),
		Role:           domain.RoleAdmin,
		FirstName:      "Admin",
		ApprovalStatus: domain.ApprovalAccepted,
	})
}
