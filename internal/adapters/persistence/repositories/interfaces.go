package repositories

import (
	"context"

	"loandesk/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id uint) (*models.Loan, error)
	ListByUserID(ctx context.Context, userID uint) ([]*models.Loan, error)
	ListAll(ctx context.Context) ([]*models.Loan, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Loan, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByUsername(ctx context.Context, username string) (int64, error)
	CountByUsernameAndStatus(ctx context.Context, username, status string) (int64, error)
	// ReviewUpdate applies a review atomically: the write is guarded by a
	// PENDING-status precondition and reports false when another reviewer
	// already won the transition.
	ReviewUpdate(ctx context.Context, loan *models.Loan) (bool, error)
}
