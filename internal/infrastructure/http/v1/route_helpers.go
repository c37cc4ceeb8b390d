// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"quotedesk/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	handler := handlers.NewCustomerHandler(baseHandler, service)
//	RegisterCatalogRoutes(protected.Group("/customers"), handler, security.ResourceCustomer)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, resource string) {
	group.GET("", middleware.RequirePermission(resource, "read"), handler.List)
	group.POST("", middleware.RequirePermission(resource, "create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(resource, "read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(resource, "update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(resource, "delete"), handler.Delete)
}
