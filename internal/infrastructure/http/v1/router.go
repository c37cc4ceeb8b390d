// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"quotedesk/internal/core/security"
	"quotedesk/internal/domain/auth"
	"quotedesk/internal/domain/catalogs/customer"
	"quotedesk/internal/domain/catalogs/product"
	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/domain/recyclebin"
	"quotedesk/internal/infrastructure/http/v1/handlers"
	"quotedesk/internal/infrastructure/http/v1/middleware"
	"quotedesk/internal/infrastructure/storage/postgres"
	"quotedesk/pkg/logger"
)

// RouterConfig holds the assembled services the API exposes.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks).
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthService for the login endpoint.
	AuthService *auth.Service

	QuotationService  *quotation.Service
	RecycleBinService *recyclebin.Service
	CustomerService   *customer.Service
	ProductService    *product.Service

	// AuditStore backs the admin-only mutation trail endpoint; nil disables it.
	AuditStore *postgres.AuditStore
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

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Public auth endpoints
		if cfg.AuthService != nil {
			authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
			v1.POST("/auth/login", authHandler.Login)
		}

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator)) // 1. Validate JWT
		protected.Use(middleware.UserContext())          // 2. Add UserID to context for domain layer

		registerQuotationRoutes(protected, baseHandler, cfg)
		registerCatalogRoutes(protected, baseHandler, cfg)
	}

	return router
}

// registerQuotationRoutes wires the quotation document, its recycle bin
// and the export endpoints.
func registerQuotationRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	quotationHandler := handlers.NewQuotationHandler(base, cfg.QuotationService)
	binHandler := handlers.NewRecycleBinHandler(base, cfg.RecycleBinService)
	exportHandler := handlers.NewExportHandler(base, cfg.QuotationService)

	read := middleware.RequirePermission(security.ResourceQuotation, "read")
	create := middleware.RequirePermission(security.ResourceQuotation, "create")
	update := middleware.RequirePermission(security.ResourceQuotation, "update")
	del := middleware.RequirePermission(security.ResourceQuotation, "delete")

	q := rg.Group("/quotations")
	{
		q.GET("", read, quotationHandler.List)
		q.POST("", create, quotationHandler.Create)

		// Recycle bin (registered before the :id routes for readability;
		// gin resolves the static "deleted" segment over the parameter).
		q.GET("/deleted", read, binHandler.List)
		q.DELETE("/deleted", del, binHandler.PurgeAll)

		q.GET("/:id", read, quotationHandler.Get)
		q.PUT("/:id", update, quotationHandler.Update)
		q.DELETE("/:id", del, quotationHandler.Delete)

		q.PUT("/:id/status", update, quotationHandler.ChangeStatus)
		q.GET("/:id/history", read, quotationHandler.History)

		q.PUT("/:id/restore", update, binHandler.Restore)
		q.DELETE("/:id/permanent", del, binHandler.Purge)

		q.GET("/:id/export.csv", read, exportHandler.CSV)
		q.GET("/:id/export.pdf", read, exportHandler.PDF)

		if cfg.AuditStore != nil {
			auditHandler := handlers.NewAuditHandler(base, cfg.AuditStore)
			q.GET("/:id/audit", middleware.RequireRole(security.RoleAdmin), auditHandler.Trail)
		}
	}
}

// registerCatalogRoutes wires the customer and product catalogs.
func registerCatalogRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	customerHandler := handlers.NewCustomerHandler(base, cfg.CustomerService)
	RegisterCatalogRoutes(rg.Group("/customers"), customerHandler, security.ResourceCustomer)

	productHandler := handlers.NewProductHandler(base, cfg.ProductService)
	RegisterCatalogRoutes(rg.Group("/products"), productHandler, security.ResourceProduct)
}
