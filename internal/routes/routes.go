// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"finbridge/internal/handlers"
	"finbridge/internal/middleware"
	"finbridge/internal/models"
	"finbridge/internal/repositories"
	"finbridge/internal/services/auth"
	"finbridge/internal/services/catalog"
	"finbridge/internal/services/receipt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	issuerRepo := repositories.NewIssuerRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	receiptRepo := repositories.NewReceiptRepository(db)

	// Initialize services
	authService := auth.NewService(userRepo)
	catalogService := catalog.NewService(issuerRepo, repositories.CacheService, receiptRepo)
	receiptService := receipt.NewService(receiptRepo, customerRepo, catalogService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	issuerHandler := handlers.NewIssuerHandler(catalogService)
	quoteHandler := handlers.NewQuoteHandler(catalogService)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	healthHandler := handlers.NewHealthHandler(db)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	app.Get("/health", healthHandler.Check)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	// The catalog is public read: distributors embed it in comparison pages.
	api.Get("/issuers", issuerHandler.List)
	api.Get("/issuers/:code", issuerHandler.Get)
	api.Get("/issuers/:code/schemes/:schemeId", issuerHandler.GetScheme)
	api.Post("/quotes", quoteHandler.Quote)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Finbridge API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Protected routes with auth middleware
	protected := api.Use(authMiddleware.Handler)

	setupAccountRoutes(protected, authHandler)
	setupBranchRoutes(protected, customerHandler, receiptHandler)
	setupAdminRoutes(protected, issuerHandler)
}

func setupAccountRoutes(router fiber.Router, authHandler *handlers.AuthHandler) {
	router.Get("/me", authHandler.Me)
	router.Post("/logout", authHandler.Logout)
	router.Post("/change-password", authHandler.ChangePassword)
}

// setupBranchRoutes wires the endpoints branch staff use day to day:
// depositor management and deposit booking.
func setupBranchRoutes(router fiber.Router, customerHandler *handlers.CustomerHandler, receiptHandler *handlers.ReceiptHandler) {
	customers := router.Group("/customers")
	customers.Get("/", middleware.HasPermission(models.PermissionCustomerRead), customerHandler.List)
	customers.Post("/", middleware.HasPermission(models.PermissionCustomerWrite), customerHandler.Create)
	customers.Get("/:id", middleware.HasPermission(models.PermissionCustomerRead), customerHandler.Get)
	customers.Put("/:id", middleware.HasPermission(models.PermissionCustomerWrite), customerHandler.Update)
	customers.Delete("/:id", middleware.HasPermission(models.PermissionCustomerWrite), customerHandler.Delete)

	receipts := router.Group("/receipts")
	receipts.Get("/", middleware.HasPermission(models.PermissionReceiptRead), receiptHandler.List)
	receipts.Post("/", middleware.HasPermission(models.PermissionReceiptWrite), receiptHandler.Book)
	receipts.Get("/export", middleware.HasPermission(models.PermissionReceiptRead), receiptHandler.Export)
	receipts.Get("/stats", middleware.HasPermission(models.PermissionReceiptRead), receiptHandler.Stats)
	receipts.Get("/:number", middleware.HasPermission(models.PermissionReceiptRead), receiptHandler.Get)
}

// setupAdminRoutes wires catalog maintenance.
func setupAdminRoutes(router fiber.Router, issuerHandler *handlers.IssuerHandler) {
	admin := router.Group("/admin", middleware.AdminOnly)

	issuers := admin.Group("/issuers")
	issuers.Post("/", issuerHandler.Create)
	issuers.Put("/:code", issuerHandler.Replace)
	issuers.Delete("/:code", issuerHandler.Delete)

	// Upserts without an id in the path create a new scheme/slab.
	issuers.Put("/:code/schemes", issuerHandler.UpsertScheme)
	issuers.Put("/:code/schemes/:schemeId", issuerHandler.UpsertScheme)
	issuers.Delete("/:code/schemes/:schemeId", issuerHandler.DeleteScheme)
	issuers.Put("/:code/schemes/:schemeId/slabs", issuerHandler.UpsertSlab)
	issuers.Put("/:code/schemes/:schemeId/slabs/:slabId", issuerHandler.UpsertSlab)
	issuers.Delete("/:code/schemes/:schemeId/slabs/:slabId", issuerHandler.DeleteSlab)
}
