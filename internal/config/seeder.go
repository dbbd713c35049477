package config

import (
	"log"
	"time"

	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/core/domain"
	"loandesk/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run seeds demo users and loans when the users table is empty.
// This is for development/testing only.
func (s *Seeder) Run() error {
	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding demo data...")

	adminPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}
	userPassword, err := password.Hash("user123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@loandesk.local",
		Password: adminPassword,
		FullName: "System Administrator",
		Roles:    models.JoinRoles([]string{domain.RoleAdmin, domain.RoleUser}),
		Enabled:  true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	user := &models.User{
		Username: "demo",
		Email:    "demo@loandesk.local",
		Password: userPassword,
		FullName: "Demo User",
		Roles:    domain.RoleUser,
		Enabled:  true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return err
	}

	now := time.Now()
	rejectionReason := "Amount exceeds the allowed limit"
	approvedAt := now.AddDate(0, 0, -2)
	rejectedAt := now.AddDate(0, 0, -1)

	loans := []*models.Loan{
		{
			Amount:      5000,
			Term:        12,
			Purpose:     "Home improvement",
			UserID:      user.ID,
			Status:      domain.LoanStatusPending,
			RequestedAt: now.AddDate(0, 0, -5),
		},
		{
			Amount:      10000,
			Term:        24,
			Purpose:     "Business investment",
			UserID:      user.ID,
			Status:      domain.LoanStatusApproved,
			RequestedAt: now.AddDate(0, 0, -10),
			ReviewedAt:  &approvedAt,
			ReviewedBy:  &admin.ID,
		},
		{
			Amount:      3000,
			Term:        6,
			Purpose:     "Medical expenses",
			UserID:      user.ID,
			Status:      domain.LoanStatusPending,
			RequestedAt: now.AddDate(0, 0, -3),
		},
		{
			Amount:          15000,
			Term:            36,
			Purpose:         "Vehicle purchase",
			UserID:          user.ID,
			Status:          domain.LoanStatusRejected,
			RejectionReason: &rejectionReason,
			RequestedAt:     now.AddDate(0, 0, -7),
			ReviewedAt:      &rejectedAt,
			ReviewedBy:      &admin.ID,
		},
	}

	for _, loan := range loans {
		if err := s.db.Create(loan).Error; err != nil {
			return err
		}
	}

	log.Println("Demo data seeded: admin@loandesk.local / demo@loandesk.local")
	return nil
}
