package domain

// Role tags a user can carry
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Loan statuses
const (
	LoanStatusPending  = "PENDING"
	LoanStatusApproved = "APPROVED"
	LoanStatusRejected = "REJECTED"
)

// Loan validation limits
const (
	MinLoanAmount = 100.0
	MinLoanTerm   = 1
)

// LoanStatusDisplay returns the human-readable label for a loan status
func LoanStatusDisplay(status string) string {
	switch status {
	case LoanStatusPending:
		return "Pending"
	case LoanStatusApproved:
		return "Approved"
	case LoanStatusRejected:
		return "Rejected"
	default:
		return status
	}
}

// Principal represents the authenticated identity performing an operation
type Principal struct {
	UserID   uint
	Username string
	Roles    []string
}

// HasRole checks whether the principal carries the given role tag
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks whether the principal carries the ADMIN role
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
