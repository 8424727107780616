package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"messpay/internal/adapters/http/middleware"
	"messpay/internal/adapters/http/routes"
	"messpay/internal/config"
	"messpay/internal/core/domain"
	"messpay/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "messpay/docs" // Swagger docs
)

// @title MessPay API
// @version 1.0
// @description Campus mess token wallet and order settlement API

// @contact.name API Support

// @host localhost:3000
// @BasePath /api/v1
// @schemes http

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open the persistent store (database, redis or memory)
	store, err := config.OpenStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer config.CloseStore()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "MessPay API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	deps := routes.Setup(app, store, cfg)

	// Seed the mess catalog
	ctx := context.Background()
	if err := config.NewSeeder(deps.Catalog).Run(ctx); err != nil {
		log.Printf("⚠️ Warning: Failed to seed catalog: %v", err)
	}

	// Resume the session of the user logged in before the restart
	sess, err := deps.Sessions.Restore(ctx)
	switch {
	case err == nil:
		deps.Active.Set(sess)
	case errors.Is(err, domain.ErrNoActiveSession):
		log.Println("ℹ️ No saved session, waiting for login")
	default:
		log.Printf("⚠️ Warning: Failed to restore session: %v", err)
	}

	// Start the student token recharge job
	if cfg.Recharge.Enabled {
		recharge := services.NewRechargeService(deps.Active, deps.Wallet, services.RechargeSettings{
			Schedule:    cfg.Recharge.Schedule,
			Amount:      cfg.Recharge.Amount,
			Description: cfg.Recharge.Description,
		})
		if err := recharge.Start(); err != nil {
			log.Fatalf("❌ Failed to start recharge job: %v", err)
		}
		defer recharge.Stop()
	}

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
