package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"printshop/m/domain"
	"printshop/m/internal/apperr"
)

const userColumns = `id, email, password, role, first_name, last_name, is_company, company_name, company_tax_number, approval_status, created_at`

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u domain.User) (domain.User, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, password, role, first_name, last_name, is_company, company_name, company_tax_number, approval_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		u.Email, u.Password, u.Role, u.FirstName, u.LastName, u.IsCompany, u.CompanyName, u.CompanyTaxNumber, u.ApprovalStatus).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return u, apperr.Conflict("email already exists")
		}
		return u, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *Store) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return u, apperr.NotFound("user %d not found", id)
	}
	if err != nil {
		return u, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return u, apperr.NotFound("user not found")
	}
	if err != nil {
		return u, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]domain.User, error) {
	companies := []domain.User{}
	err := s.db.SelectContext(ctx, &companies,
		`SELECT `+userColumns+` FROM users WHERE is_company = $1 ORDER BY created_at DESC, id DESC`, true)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

func (s *Store) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	users := []domain.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY last_name, first_name, id`, role)
	if err != nil {
		return nil, fmt.Errorf("list users with role %s: %w", role, err)
	}
	return users, nil
}

// SetApprovalStatus checks that the company account exists and updates it in
// one transaction.
func (s *Store) SetApprovalStatus(ctx context.Context, userID int64, status domain.ApprovalStatus) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin approval update: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND is_company = $2)`, userID, true); err != nil {
		return fmt.Errorf("check company %d: %w", userID, err)
	}
	if !exists {
		return apperr.NotFound("company account %d not found", userID)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET approval_status = $1 WHERE id = $2`, status, userID); err != nil {
		return fmt.Errorf("update approval of %d: %w", userID, err)
	}
	return tx.Commit()
}

func (s *Store) DeleteWithRole(ctx context.Context, id int64, role domain.Role) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role = $2`, id, role)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("employee %d not found", id)
	}
	return nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET password = $1 WHERE id = $2`, hashed, id); err != nil {
		return fmt.Errorf("update password of %d: %w", id, err)
	}
	return nil
}

// isUniqueViolation matches both the SQLite and the Postgres wording.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
