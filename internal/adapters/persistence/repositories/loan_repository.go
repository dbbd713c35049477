package repositories

import (
	"context"

	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/core/domain"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create creates a new loan
func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with its owner and reviewer
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Where("id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByUserID lists loans owned by a user
func (r *loanRepository) ListByUserID(ctx context.Context, userID uint) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Where("user_id = ?", userID).
		Find(&loans).Error
	return loans, err
}

// ListAll lists all loans
func (r *loanRepository) ListAll(ctx context.Context) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Find(&loans).Error
	return loans, err
}

// ListByStatus lists loans with the given status
func (r *loanRepository) ListByStatus(ctx context.Context, status string) ([]*models.Loan, error) {
	var loans []*models.Loan
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Reviewer").
		Where("status = ?", status).
		Find(&loans).Error
	return loans, err
}

// Count counts all loans
func (r *loanRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Count(&count).Error
	return count, err
}

// CountByStatus counts loans with the given status
func (r *loanRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountByUsername counts loans owned by the given username
func (r *loanRepository) CountByUsername(ctx context.Context, username string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Joins("JOIN users ON users.id = loans.user_id").
		Where("users.username = ?", username).
		Count(&count).Error
	return count, err
}

// CountByUsernameAndStatus counts the user's loans with the given status
func (r *loanRepository) CountByUsernameAndStatus(ctx context.Context, username, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Loan{}).
		Joins("JOIN users ON users.id = loans.user_id").
		Where("users.username = ? AND loans.status = ?", username, status).
		Count(&count).Error
	return count, err
}

// ReviewUpdate persists a review transition. The UPDATE is guarded by the
// PENDING precondition so two concurrent reviewers cannot both win: the
// loser affects zero rows and gets false back.
func (r *loanRepository) ReviewUpdate(ctx context.Context, loan *models.Loan) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Loan{}).
		Where("id = ? AND status = ?", loan.ID, domain.LoanStatusPending).
		Updates(map[string]interface{}{
			"status":           loan.Status,
			"rejection_reason": loan.RejectionReason,
			"reviewed_at":      loan.ReviewedAt,
			"reviewed_by":      loan.ReviewedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
