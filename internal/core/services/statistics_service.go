package services

import (
	"context"
	"log"

	"loandesk/internal/adapters/cache"
	"loandesk/internal/adapters/persistence/repositories"
	"loandesk/internal/config"
	"loandesk/internal/core/domain"
)

// StatisticsService derives loan counters and rates from the record store.
// Results are cached under the statistics namespace and evicted whenever
// any loan mutation happens.
type StatisticsService struct {
	loanRepo repositories.LoanRepository
	cache    cache.Store
	cacheCfg config.CacheConfig
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(
	loanRepo repositories.LoanRepository,
	store cache.Store,
	cacheCfg config.CacheConfig,
) *StatisticsService {
	return &StatisticsService{
		loanRepo: loanRepo,
		cache:    store,
		cacheCfg: cacheCfg,
	}
}

// GlobalStatistics represents ledger-wide loan counters and rates
type GlobalStatistics struct {
	TotalLoans    int64   `json:"totalLoans"`
	ApprovedLoans int64   `json:"approvedLoans"`
	PendingLoans  int64   `json:"pendingLoans"`
	RejectedLoans int64   `json:"rejectedLoans"`
	ApprovalRate  float64 `json:"approvalRate"`
	RejectionRate float64 `json:"rejectionRate"`
}

// UserStatistics represents loan counters scoped to one user
type UserStatistics struct {
	TotalLoans    int64 `json:"totalLoans"`
	ApprovedLoans int64 `json:"approvedLoans"`
	PendingLoans  int64 `json:"pendingLoans"`
	RejectedLoans int64 `json:"rejectedLoans"`
}

// GetGlobalStatistics computes ledger-wide counters, cached under statistics:global
func (s *StatisticsService) GetGlobalStatistics(ctx context.Context) (*GlobalStatistics, error) {
	key := cache.Key(cache.NamespaceStatistics, "global")

	var cached GlobalStatistics
	if hit, err := s.cache.Get(key, &cached); err == nil && hit {
		return &cached, nil
	}

	log.Println("Computing global statistics from the record store")

	total, err := s.loanRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := s.loanRepo.CountByStatus(ctx, domain.LoanStatusApproved)
	if err != nil {
		return nil, err
	}
	pending, err := s.loanRepo.CountByStatus(ctx, domain.LoanStatusPending)
	if err != nil {
		return nil, err
	}
	rejected, err := s.loanRepo.CountByStatus(ctx, domain.LoanStatusRejected)
	if err != nil {
		return nil, err
	}

	stats := &GlobalStatistics{
		TotalLoans:    total,
		ApprovedLoans: approved,
		PendingLoans:  pending,
		RejectedLoans: rejected,
	}

	// Rates are 0.0 on an empty ledger, never a division by zero
	if total > 0 {
		stats.ApprovalRate = float64(approved) * 100.0 / float64(total)
		stats.RejectionRate = float64(rejected) * 100.0 / float64(total)
	}

	if err := s.cache.Set(key, stats, s.cacheCfg.StatisticsTTL); err != nil {
		log.Printf("Cache set failed for %s: %v", key, err)
	}
	return stats, nil
}

// GetUserStatistics computes per-user counters, cached under statistics:user:<username>
func (s *StatisticsService) GetUserStatistics(ctx context.Context, username string) (*UserStatistics, error) {
	key := cache.Key(cache.NamespaceStatistics, "user", username)

	var cached UserStatistics
	if hit, err := s.cache.Get(key, &cached); err == nil && hit {
		return &cached, nil
	}

	log.Printf("Computing statistics for user: %s", username)

	total, err := s.loanRepo.CountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	approved, err := s.loanRepo.CountByUsernameAndStatus(ctx, username, domain.LoanStatusApproved)
	if err != nil {
		return nil, err
	}
	pending, err := s.loanRepo.CountByUsernameAndStatus(ctx, username, domain.LoanStatusPending)
	if err != nil {
		return nil, err
	}
	rejected, err := s.loanRepo.CountByUsernameAndStatus(ctx, username, domain.LoanStatusRejected)
	if err != nil {
		return nil, err
	}

	stats := &UserStatistics{
		TotalLoans:    total,
		ApprovedLoans: approved,
		PendingLoans:  pending,
		RejectedLoans: rejected,
	}

	if err := s.cache.Set(key, stats, s.cacheCfg.StatisticsTTL); err != nil {
		log.Printf("Cache set failed for %s: %v", key, err)
	}
	return stats, nil
}
