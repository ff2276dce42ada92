package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retailops/backoffice-api/internal/config"
	"github.com/retailops/backoffice-api/internal/domain/entity"
	domainRepo "github.com/retailops/backoffice-api/internal/domain/repository"
	"github.com/retailops/backoffice-api/internal/presentation/http/handler"
	"github.com/retailops/backoffice-api/internal/presentation/http/middleware"
	"github.com/retailops/backoffice-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	POS      *handler.POSHandler
	Invoice  *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-company rate limiter
		rateLimiter := middleware.NewCompanyRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())
		protected.Use(middleware.CompanyMiddleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.GetProfile)

	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	// Products
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", middleware.RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), h.Product.Create)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", middleware.RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), h.Product.Update)
		products.DELETE("/:id", middleware.RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), h.Product.Delete)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), h.Customer.Delete)
	}

	// POS transactions
	pos := protected.Group("/pos")
	{
		pos.POST("/transactions", idempotency, h.POS.RecordSale)
		pos.GET("/transactions", h.POS.List)
		pos.GET("/transactions/:id", h.POS.Get)
		pos.POST("/transactions/:id/invoice", idempotency, h.Invoice.CreateFromTransaction)
	}

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.GET("", h.Invoice.List)
		invoices.POST("", idempotency, h.Invoice.Create)
		invoices.POST("/from-transaction/:id", idempotency, h.Invoice.CreateFromTransaction)
		invoices.GET("/stats", h.Invoice.Stats)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PUT("/:id/status", h.Invoice.UpdateStatus)
		// PATCH kept as an alias for older clients
		invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
		invoices.DELETE("/:id", middleware.RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin), h.Invoice.Delete)
	}
}
