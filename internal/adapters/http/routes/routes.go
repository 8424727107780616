package routes

import (
	"time"

	"messpay/internal/adapters/http/handlers"
	"messpay/internal/adapters/http/middleware"
	"messpay/internal/adapters/persistence/repositories"
	"messpay/internal/config"
	"messpay/internal/core/services"
	"messpay/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
)

// Dependencies are the services built by Setup that the process entry also needs
type Dependencies struct {
	Active   *services.ActiveSession
	Wallet   *services.WalletService
	Orders   *services.OrderService
	Sessions *services.SessionService
	Catalog  repositories.CatalogRepository
}

// Setup configures all routes for the application
func Setup(app *fiber.App, store repositories.Store, cfg *config.Config) *Dependencies {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(store)
	walletRepo := repositories.NewWalletRepository(store)
	orderRepo := repositories.NewOrderRepository(store)
	catalogRepo := repositories.NewCatalogRepository(store)

	// Initialize services
	walletService := services.NewWalletService(walletRepo, services.WalletSeeds{
		Student:            cfg.Wallet.SeedStudent,
		MessOwner:          cfg.Wallet.SeedMessOwner,
		Provider:           cfg.Wallet.SeedProvider,
		WelcomeDescription: cfg.Wallet.WelcomeDescription,
	})
	orderService := services.NewOrderService(orderRepo, catalogRepo, walletService, cfg.Order.StrictTransitions)
	sessionService := services.NewSessionService(userRepo, walletService, orderService)
	dashboardService := services.NewDashboardService(orderService)
	active := services.NewActiveSession()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	sessionHandler := handlers.NewSessionHandler(sessionService, active)
	walletHandler := handlers.NewWalletHandler(walletService)
	orderHandler := handlers.NewOrderHandler(orderService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, active, healthHandler, sessionHandler, walletHandler, orderHandler, dashboardHandler)

	return &Dependencies{
		Active:   active,
		Wallet:   walletService,
		Orders:   orderService,
		Sessions: sessionService,
		Catalog:  catalogRepo,
	}
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	active *services.ActiveSession,
	healthHandler *handlers.HealthHandler,
	sessionHandler *handlers.SessionHandler,
	walletHandler *handlers.WalletHandler,
	orderHandler *handlers.OrderHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	requireSession := middleware.RequireSession(active)

	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Session routes
	sessionRoutes := router.Group("/session")
	setupSessionRoutes(sessionRoutes, sessionHandler, requireSession)

	// Wallet routes (balances must never be served from a cache)
	walletRoutes := router.Group("/wallet")
	walletRoutes.Use(requireSession, middleware.NoCacheHeaders())
	setupWalletRoutes(walletRoutes, walletHandler)

	// Order routes
	orderRoutes := router.Group("/orders")
	orderRoutes.Use(requireSession)
	setupOrderRoutes(orderRoutes, orderHandler)

	// Dashboard routes (mess owner / provider)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(requireSession, middleware.OwnerOrProvider())
	dashboardRoutes.Get("/owner", dashboardHandler.GetOwnerDashboard)
}

// setupSessionRoutes configures session routes
func setupSessionRoutes(router fiber.Router, handler *handlers.SessionHandler, requireSession fiber.Handler) {
	// Public routes
	router.Post("/login", middleware.LoginRateLimiter(), handler.Login)
	router.Post("/reset", middleware.StrictRateLimiter(), requireSession, handler.Reset)

	// Protected routes
	router.Get("/", requireSession, handler.Me)
	router.Put("/role", requireSession, handler.SetRole)
	router.Post("/logout", requireSession, handler.Logout)
}

// setupWalletRoutes configures wallet routes
func setupWalletRoutes(router fiber.Router, handler *handlers.WalletHandler) {
	router.Get("/", handler.GetWallet)
	router.Get("/transactions", handler.ListTransactions)
	router.Post("/credit", handler.Credit)
	router.Post("/transfer", handler.Transfer)
}

// setupOrderRoutes configures order routes
func setupOrderRoutes(router fiber.Router, handler *handlers.OrderHandler) {
	router.Get("/", middleware.PrivateCacheHeaders(5*time.Second), handler.ListOrders)

	// Students place and cancel their own orders
	router.Post("/", middleware.StudentOnly(), handler.PlaceOrder)
	router.Post("/:id/cancel", middleware.StudentOnly(), handler.CancelOrder)

	// Owners and providers advance the lifecycle
	router.Patch("/:id/status", middleware.OwnerOrProvider(), handler.UpdateStatus)
}
