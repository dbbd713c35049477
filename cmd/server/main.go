package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"loandesk/internal/adapters/cache"
	"loandesk/internal/adapters/http/middleware"
	"loandesk/internal/adapters/http/routes"
	"loandesk/internal/adapters/persistence/models"
	"loandesk/internal/config"
	"loandesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo data when the database is empty
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
	}

	// Build the cache store
	store, err := buildCacheStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize cache: %v", err)
	}
	log.Printf("✅ Cache initialized [DRIVER: %s]", cfg.Cache.Driver)

	// Start cron service for expired cache entry sweeping
	cronService := services.NewCronService(store)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LoanDesk API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, cache and cfg for dependency injection)
	routes.Setup(app, db, store, cfg)

	// Graceful shutdown
	go gracefulShutdown(app, store)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// buildCacheStore selects the cache driver from configuration
func buildCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Driver {
	case "redis":
		return cache.NewRedisStore(context.Background(), cfg.Cache.Redis)
	default:
		return cache.NewMemoryStore(), nil
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, store cache.Store) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("❌ Error closing cache: %v", err)
		}
	}
	log.Println("✅ Server stopped gracefully")
}
