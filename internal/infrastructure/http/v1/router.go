// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"procura/internal/core/numerator"
	"procura/internal/domain/audit"
	"procura/internal/domain/auth"
	"procura/internal/domain/billing"
	"procura/internal/domain/catalogs/product"
	"procura/internal/domain/catalogs/vendor"
	"procura/internal/domain/documents/purchase_order"
	"procura/internal/domain/documents/purchase_receive"
	"procura/internal/infrastructure/http/v1/handlers"
	"procura/internal/infrastructure/http/v1/middleware"
	"procura/internal/infrastructure/storage/postgres"
	"procura/internal/infrastructure/storage/postgres/catalog_repo"
	"procura/internal/infrastructure/storage/postgres/document_repo"
	"procura/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager manages database transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// Auditor records document lifecycle events
	Auditor audit.Recorder

	// History reads back the audit trail for document history endpoints
	History audit.HistoryReader
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
	authHandler.RegisterRoutes(rg.Group("/auth"))
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- VENDORS ---
	{
		repo := catalog_repo.NewVendorRepo(cfg.TxManager)
		service := vendor.NewService(repo, cfg.Numerator)
		handler := handlers.NewVendorHandler(baseHandler, service)
		handler.RegisterRoutes(catalogs.Group("/vendors"))
	}

	// --- PRODUCTS ---
	{
		repo := catalog_repo.NewProductRepo(cfg.TxManager)
		service := product.NewService(repo, cfg.Numerator)
		handler := handlers.NewProductHandler(baseHandler, service)
		handler.RegisterRoutes(catalogs.Group("/products"))
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	orderRepo := document_repo.NewPurchaseOrderRepo(cfg.TxManager)
	receiveRepo := document_repo.NewPurchaseReceiveRepo(cfg.TxManager)
	vendorRepo := catalog_repo.NewVendorRepo(cfg.TxManager)

	// --- PURCHASE ORDERS ---
	{
		service := purchase_order.NewService(orderRepo, receiveRepo, cfg.Numerator, cfg.TxManager)
		handler := handlers.NewPurchaseOrderHandler(baseHandler, service)
		handler.RegisterRoutes(docsGroup.Group("/purchase-orders"))
	}

	// --- PURCHASE RECEIVES ---
	{
		vendorService := vendor.NewService(vendorRepo, cfg.Numerator)
		service := purchase_receive.NewService(
			receiveRepo, orderRepo, vendorService,
			cfg.Numerator, cfg.TxManager, cfg.Auditor,
		)
		billingService := billing.NewService(receiveRepo, cfg.TxManager)
		handler := handlers.NewPurchaseReceiveHandler(baseHandler, service, billingService, cfg.History)
		handler.RegisterRoutes(docsGroup.Group("/purchase-receives"))
	}
}
