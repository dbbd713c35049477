package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"loandesk/internal/adapters/cache"
	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/adapters/persistence/repositories"
	"loandesk/internal/config"
	"loandesk/internal/core/domain"

	"gorm.io/gorm"
)

// LoanService handles the loan lifecycle: creation, cached read views and
// the single-shot review transition. Every mutation evicts the loans and
// statistics namespaces in full before it returns, so readers never see a
// cached pre-mutation view once the mutation has been acknowledged.
type LoanService struct {
	loanRepo repositories.LoanRepository
	userRepo repositories.UserRepository
	cache    cache.Store
	cacheCfg config.CacheConfig
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	userRepo repositories.UserRepository,
	store cache.Store,
	cacheCfg config.CacheConfig,
) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		userRepo: userRepo,
		cache:    store,
		cacheCfg: cacheCfg,
	}
}

// RequestLoanInput represents loan request input
type RequestLoanInput struct {
	Amount  float64 `json:"amount" validate:"required,gte=100"`
	Term    int     `json:"term" validate:"required,gte=1"`
	Purpose string  `json:"purpose,omitempty"`
}

// ReviewLoanInput represents loan review input
type ReviewLoanInput struct {
	Action          string  `json:"action" validate:"required"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// RequestLoan creates a new PENDING loan for the principal
func (s *LoanService) RequestLoan(ctx context.Context, input *RequestLoanInput, principal domain.Principal) (*models.LoanResponse, error) {
	if input.Amount < domain.MinLoanAmount || input.Term < domain.MinLoanTerm {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByUsername(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if !user.Enabled {
		return nil, domain.ErrForbidden
	}

	// Administrators are barred from requesting loans
	if user.HasRole(domain.RoleAdmin) {
		log.Printf("Loan request attempt by administrator: %s", user.Username)
		return nil, domain.ErrForbidden
	}

	loan := &models.Loan{
		Amount:      input.Amount,
		Term:        input.Term,
		Purpose:     input.Purpose,
		UserID:      user.ID,
		Status:      domain.LoanStatusPending,
		RequestedAt: time.Now(),
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	loan.User = user

	// Every cached list and aggregate is now stale
	if err := s.evictAfterMutation(); err != nil {
		return nil, err
	}

	log.Printf("Loan requested: ID=%d, User=%s, Amount=%.2f", loan.ID, user.Username, loan.Amount)
	return loan.ToResponse(), nil
}

// GetUserLoans lists the given user's loans, cache-aside under loans:<username>
func (s *LoanService) GetUserLoans(ctx context.Context, username string) ([]*models.LoanResponse, error) {
	key := cache.Key(cache.NamespaceLoans, username)

	var cached []*models.LoanResponse
	if hit := s.cacheGet(key, &cached); hit {
		return cached, nil
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	loans, err := s.loanRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	views := toResponses(loans)
	s.cacheSet(key, views, s.cacheCfg.LoansTTL)
	return views, nil
}

// GetAllLoans lists every loan, cache-aside under loans:all
func (s *LoanService) GetAllLoans(ctx context.Context) ([]*models.LoanResponse, error) {
	key := cache.Key(cache.NamespaceLoans, "all")

	var cached []*models.LoanResponse
	if hit := s.cacheGet(key, &cached); hit {
		return cached, nil
	}

	loans, err := s.loanRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := toResponses(loans)
	s.cacheSet(key, views, s.cacheCfg.LoansTTL)
	return views, nil
}

// GetPendingLoans lists loans awaiting review, cache-aside under loans:pending
func (s *LoanService) GetPendingLoans(ctx context.Context) ([]*models.LoanResponse, error) {
	key := cache.Key(cache.NamespaceLoans, "pending")

	var cached []*models.LoanResponse
	if hit := s.cacheGet(key, &cached); hit {
		return cached, nil
	}

	loans, err := s.loanRepo.ListByStatus(ctx, domain.LoanStatusPending)
	if err != nil {
		return nil, err
	}

	views := toResponses(loans)
	s.cacheSet(key, views, s.cacheCfg.LoansTTL)
	return views, nil
}

// GetLoanByID returns a single loan view. Only the loan's owner and
// administrators may see it; the permission check runs on every call,
// never from the cache.
func (s *LoanService) GetLoanByID(ctx context.Context, id uint, principal domain.Principal) (*models.LoanResponse, error) {
	key := cache.Key(cache.NamespaceLoans, strconv.FormatUint(uint64(id), 10))

	var view models.LoanResponse
	if hit := s.cacheGet(key, &view); !hit {
		loan, err := s.loanRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
		view = *loan.ToResponse()
		s.cacheSet(key, view, s.cacheCfg.LoansTTL)
	}

	if view.Username != principal.Username && !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	return &view, nil
}

// ReviewLoan transitions a PENDING loan to APPROVED or REJECTED, exactly
// once. The role check is enforced here as well as at the transport layer.
func (s *LoanService) ReviewLoan(ctx context.Context, id uint, input *ReviewLoanInput, principal domain.Principal) (*models.LoanResponse, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	admin, err := s.userRepo.GetByUsername(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if loan.Status != domain.LoanStatusPending {
		return nil, domain.ErrInvalidState
	}

	switch strings.ToUpper(input.Action) {
	case domain.LoanStatusApproved:
		loan.Status = domain.LoanStatusApproved
		loan.RejectionReason = nil
		log.Printf("Loan approved: ID=%d, Admin=%s", id, admin.Username)
	case domain.LoanStatusRejected:
		loan.Status = domain.LoanStatusRejected
		loan.RejectionReason = input.RejectionReason
		log.Printf("Loan rejected: ID=%d, Admin=%s", id, admin.Username)
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	loan.ReviewedAt = &now
	loan.ReviewedBy = &admin.ID

	// Guarded write: a concurrent reviewer that lost the race affects
	// zero rows and surfaces as InvalidState, never a double review.
	updated, err := s.loanRepo.ReviewUpdate(ctx, loan)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrInvalidState
	}
	loan.Reviewer = admin

	if err := s.evictAfterMutation(); err != nil {
		return nil, err
	}

	return loan.ToResponse(), nil
}

// evictAfterMutation drops every cached loan list and aggregate. Review and
// request share the same invalidation scope because both change aggregate
// counts and per-status/per-user lists.
func (s *LoanService) evictAfterMutation() error {
	if err := s.cache.InvalidateNamespace(cache.NamespaceLoans); err != nil {
		return err
	}
	return s.cache.InvalidateNamespace(cache.NamespaceStatistics)
}

// cacheGet treats cache errors as misses so a degraded cache never fails reads
func (s *LoanService) cacheGet(key string, result any) bool {
	hit, err := s.cache.Get(key, result)
	if err != nil {
		log.Printf("Cache get failed for %s: %v", key, err)
		return false
	}
	return hit
}

func (s *LoanService) cacheSet(key string, value any, ttl time.Duration) {
	if err := s.cache.Set(key, value, ttl); err != nil {
		log.Printf("Cache set failed for %s: %v", key, err)
	}
}

func toResponses(loans []*models.Loan) []*models.LoanResponse {
	views := make([]*models.LoanResponse, len(loans))
	for i, loan := range loans {
		views[i] = loan.ToResponse()
	}
	return views
}
