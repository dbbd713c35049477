package models

import (
	"strings"
	"time"

	"loandesk/internal/core/domain"

	"gorm.io/gorm"
)

// User represents users table
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FullName  string    `gorm:"size:100" json:"full_name"`
	Roles     string    `gorm:"size:100;not null;default:'USER'" json:"roles"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// RoleList returns the user's role tags as a slice
func (u *User) RoleList() []string {
	if u.Roles == "" {
		return nil
	}
	return strings.Split(u.Roles, ",")
}

// HasRole checks whether the user carries the given role tag
func (u *User) HasRole(role string) bool {
	for _, r := range u.RoleList() {
		if r == role {
			return true
		}
	}
	return false
}

// JoinRoles builds the stored representation of a role set
func JoinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// ToPrincipal converts the user to the identity used by the services
func (u *User) ToPrincipal() domain.Principal {
	return domain.Principal{
		UserID:   u.ID,
		Username: u.Username,
		Roles:    u.RoleList(),
	}
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Roles     []string  `json:"roles"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Roles:     u.RoleList(),
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}

// Loan represents loans table
type Loan struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Amount          float64    `gorm:"type:decimal(19,2);not null" json:"amount"`
	Term            int        `gorm:"not null" json:"term"`
	Purpose         string     `gorm:"size:1000" json:"purpose"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Status          string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	RejectionReason *string    `gorm:"size:500" json:"rejection_reason"`
	RequestedAt     time.Time  `gorm:"not null" json:"requested_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewedBy      *uint      `json:"reviewed_by"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User     *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// LoanResponse DTO
type LoanResponse struct {
	ID              uint       `json:"id"`
	Amount          float64    `json:"amount"`
	Term            int        `json:"term"`
	Purpose         string     `json:"purpose"`
	Status          string     `json:"status"`
	StatusDisplay   string     `json:"status_display"`
	RejectionReason *string    `json:"rejection_reason"`
	RequestedAt     time.Time  `json:"requested_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	ReviewerName    *string    `json:"reviewer_name"`
	UserID          uint       `json:"user_id"`
	Username        string     `json:"username"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:              l.ID,
		Amount:          l.Amount,
		Term:            l.Term,
		Purpose:         l.Purpose,
		Status:          l.Status,
		StatusDisplay:   domain.LoanStatusDisplay(l.Status),
		RejectionReason: l.RejectionReason,
		RequestedAt:     l.RequestedAt,
		ReviewedAt:      l.ReviewedAt,
		UserID:          l.UserID,
	}

	if l.User != nil {
		resp.Username = l.User.Username
	}
	if l.Reviewer != nil {
		resp.ReviewerName = &l.Reviewer.Username
	}

	return resp
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Loan{},
	)
}
