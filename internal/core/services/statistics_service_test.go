package services

import (
	"context"
	"testing"

	"loandesk/internal/adapters/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStatisticsService() (*StatisticsService, *LoanRepoMock, *cache.MemoryStore) {
	loanRepo := new(LoanRepoMock)
	store := cache.NewMemoryStore()
	return NewStatisticsService(loanRepo, store, testCacheConfig()), loanRepo, store
}

func TestStatisticsService_GetGlobalStatistics(t *testing.T) {
	ctx := context.Background()
	svc, loanRepo, _ := newStatisticsService()

	loanRepo.On("Count", mock.Anything).Return(int64(4), nil).Once()
	loanRepo.On("CountByStatus", mock.Anything, "APPROVED").Return(int64(1), nil).Once()
	loanRepo.On("CountByStatus", mock.Anything, "PENDING").Return(int64(2), nil).Once()
	loanRepo.On("CountByStatus", mock.Anything, "REJECTED").Return(int64(1), nil).Once()

	stats, err := svc.GetGlobalStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalLoans)
	assert.Equal(t, int64(1), stats.ApprovedLoans)
	assert.Equal(t, int64(2), stats.PendingLoans)
	assert.Equal(t, int64(1), stats.RejectedLoans)
	assert.InDelta(t, 25.0, stats.ApprovalRate, 0.001)
	assert.InDelta(t, 25.0, stats.RejectionRate, 0.001)

	// Counters are served from the cache on the second call
	again, err := svc.GetGlobalStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.TotalLoans, again.TotalLoans)
	loanRepo.AssertExpectations(t)
}

func TestStatisticsService_GetGlobalStatisticsEmptyLedger(t *testing.T) {
	ctx := context.Background()
	svc, loanRepo, _ := newStatisticsService()

	loanRepo.On("Count", mock.Anything).Return(int64(0), nil).Once()
	loanRepo.On("CountByStatus", mock.Anything, mock.Anything).Return(int64(0), nil).Times(3)

	stats, err := svc.GetGlobalStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalLoans)
	assert.Equal(t, 0.0, stats.ApprovalRate)
	assert.Equal(t, 0.0, stats.RejectionRate)
}

func TestStatisticsService_GetUserStatistics(t *testing.T) {
	ctx := context.Background()
	svc, loanRepo, store := newStatisticsService()

	loanRepo.On("CountByUsername", mock.Anything, "demo").Return(int64(4), nil).Once()
	loanRepo.On("CountByUsernameAndStatus", mock.Anything, "demo", "APPROVED").Return(int64(1), nil).Once()
	loanRepo.On("CountByUsernameAndStatus", mock.Anything, "demo", "PENDING").Return(int64(2), nil).Once()
	loanRepo.On("CountByUsernameAndStatus", mock.Anything, "demo", "REJECTED").Return(int64(1), nil).Once()

	stats, err := svc.GetUserStatistics(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalLoans)
	assert.Equal(t, int64(2), stats.PendingLoans)

	var cached UserStatistics
	hit, err := store.Get(cache.Key(cache.NamespaceStatistics, "user", "demo"), &cached)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(4), cached.TotalLoans)

	// Second read never touches the repo
	_, err = svc.GetUserStatistics(ctx, "demo")
	require.NoError(t, err)
	loanRepo.AssertExpectations(t)
}
