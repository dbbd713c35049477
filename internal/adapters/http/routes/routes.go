package routes

import (
	"loandesk/internal/adapters/cache"
	"loandesk/internal/adapters/http/handlers"
	"loandesk/internal/adapters/http/middleware"
	"loandesk/internal/adapters/persistence/repositories"
	"loandesk/internal/config"
	"loandesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, store cache.Store, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, store, cfg)
	loanService := services.NewLoanService(loanRepo, userRepo, store, cfg.Cache)
	statisticsService := services.NewStatisticsService(loanRepo, store, cfg.Cache)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	loanHandler := handlers.NewLoanHandler(loanService)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Auth routes (public, stricter rate limit)
	auth := api.Group("/auth", middleware.AuthRateLimiter())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Loan routes (authenticated)
	loans := api.Group("/loans", middleware.AuthMiddleware(cfg))
	loans.Post("/", loanHandler.Request)
	loans.Get("/my", loanHandler.MyLoans)
	loans.Get("/pending", middleware.AdminOnly(), loanHandler.Pending)
	loans.Get("/", middleware.AdminOnly(), loanHandler.List)
	loans.Get("/:id", loanHandler.GetByID)
	loans.Put("/:id/review", middleware.AdminOnly(), loanHandler.Review)

	// Statistics routes (authenticated)
	statistics := api.Group("/statistics", middleware.AuthMiddleware(cfg))
	statistics.Get("/", middleware.AdminOnly(), statisticsHandler.Global)
	statistics.Get("/user/:username", statisticsHandler.User)
}
