package services

import (
	"context"
	"testing"
	"time"

	"loandesk/internal/adapters/cache"
	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/config"
	"loandesk/internal/core/domain"
	"loandesk/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService() (*AuthService, *UserRepoMock, *cache.MemoryStore) {
	userRepo := new(UserRepoMock)
	store := cache.NewMemoryStore()
	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Cache: testCacheConfig(),
	}
	return NewAuthService(userRepo, store, cfg), userRepo, store
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, userRepo, store := newAuthService()

		// A stale cached identity view must not survive registration
		require.NoError(t, store.Set(cache.Key(cache.NamespaceUsers, "newuser"), "stale", time.Minute))

		userRepo.On("ExistsByUsername", mock.Anything, "newuser").Return(false, nil).Once()
		userRepo.On("ExistsByEmail", mock.Anything, "new@loandesk.local").Return(false, nil).Once()
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

		resp, err := svc.Register(ctx, &RegisterInput{
			Username: "newuser",
			Email:    "new@loandesk.local",
			Password: "password123",
			FullName: "New User",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "newuser", resp.User.Username)
		assert.Equal(t, []string{domain.RoleUser}, resp.User.Roles)

		var out string
		hit, _ := store.Get(cache.Key(cache.NamespaceUsers, "newuser"), &out)
		assert.False(t, hit)
		userRepo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, userRepo, _ := newAuthService()
		userRepo.On("ExistsByUsername", mock.Anything, "taken").Return(true, nil).Once()

		_, err := svc.Register(ctx, &RegisterInput{
			Username: "taken",
			Email:    "taken@loandesk.local",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, userRepo, _ := newAuthService()
		userRepo.On("ExistsByUsername", mock.Anything, "newuser").Return(false, nil).Once()
		userRepo.On("ExistsByEmail", mock.Anything, "taken@loandesk.local").Return(true, nil).Once()

		_, err := svc.Register(ctx, &RegisterInput{
			Username: "newuser",
			Email:    "taken@loandesk.local",
			Password: "password123",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	account := func() *models.User {
		return &models.User{
			ID:       7,
			Username: "demo",
			Email:    "demo@loandesk.local",
			Password: hashed,
			Roles:    "USER",
			Enabled:  true,
		}
	}

	t.Run("success", func(t *testing.T) {
		svc, userRepo, _ := newAuthService()
		userRepo.On("GetByEmail", mock.Anything, "demo@loandesk.local").Return(account(), nil).Once()

		resp, err := svc.Login(ctx, &LoginInput{Email: "demo@loandesk.local", Password: "password123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "demo", resp.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, userRepo, _ := newAuthService()
		userRepo.On("GetByEmail", mock.Anything, "demo@loandesk.local").Return(account(), nil).Once()

		_, err := svc.Login(ctx, &LoginInput{Email: "demo@loandesk.local", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, userRepo, _ := newAuthService()
		userRepo.On("GetByEmail", mock.Anything, "ghost@loandesk.local").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.Login(ctx, &LoginInput{Email: "ghost@loandesk.local", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		svc, userRepo, _ := newAuthService()
		disabled := account()
		disabled.Enabled = false
		userRepo.On("GetByEmail", mock.Anything, "demo@loandesk.local").Return(disabled, nil).Once()

		_, err := svc.Login(ctx, &LoginInput{Email: "demo@loandesk.local", Password: "password123"})
		assert.ErrorIs(t, err, domain.ErrUserDisabled)
	})
}

func TestAuthService_GetUserByUsername(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newAuthService()

	userRepo.On("GetByUsername", mock.Anything, "demo").Return(&models.User{
		ID:       7,
		Username: "demo",
		Email:    "demo@loandesk.local",
		Roles:    "USER",
		Enabled:  true,
	}, nil).Once()

	first, err := svc.GetUserByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", first.Username)

	// Served from the cache, repo hit exactly once
	second, err := svc.GetUserByUsername(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	userRepo.AssertExpectations(t)
}

func TestAuthService_GetUserByUsernameNotFound(t *testing.T) {
	ctx := context.Background()
	svc, userRepo, _ := newAuthService()

	userRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound).Once()

	_, err := svc.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
