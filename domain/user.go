package domain

// Role is the account role embedded in issued tokens.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// ApprovalStatus tracks the confirmation workflow for company accounts.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalAccepted ApprovalStatus = "accepted"
	ApprovalDenied   ApprovalStatus = "denied"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalAccepted, ApprovalDenied:
		return true
	}
	return false
}

type User struct {
	ID               int64          `json:"id" db:"id"`
	Email            string         `json:"email" db:"email"`
	Password         string         `json:"-" db:"password"`
	Role             Role           `json:"role" db:"role"`
	FirstName        string         `json:"first_name" db:"first_name"`
	LastName         string         `json:"last_name" db:"last_name"`
	IsCompany        bool           `json:"is_company" db:"is_company"`
	CompanyName      *string        `json:"company_name,omitempty" db:"company_name"`
	CompanyTaxNumber *string        `json:"company_tax_number,omitempty" db:"company_tax_number"`
	ApprovalStatus   ApprovalStatus `json:"approval_status" db:"approval_status"`
	CreatedAt        string         `json:"created_at,omitempty" db:"created_at"`
}
