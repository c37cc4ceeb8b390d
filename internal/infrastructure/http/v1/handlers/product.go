package handlers

import (
	"github.com/gin-gonic/gin"

	"quotedesk/internal/core/security"
	"quotedesk/internal/domain/catalogs/product"
	"quotedesk/internal/infrastructure/http/v1/dto"
)

// ProductHTTPHandler is the catalog handler instantiated for products.
type ProductHTTPHandler = CatalogHandler[
	*product.Product,
	dto.CreateProductRequest,
	dto.UpdateProductRequest,
]

// NewProductHandler wires the generic catalog handler for products.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHTTPHandler {
	config := CatalogHandlerConfig[
		*product.Product,
		dto.CreateProductRequest,
		dto.UpdateProductRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "product",

		MapCreateDTO: func(c *gin.Context, req dto.CreateProductRequest) (*product.Product, error) {
			scope := security.NewAccessScope(c.Request.Context())
			return req.ToEntity(scope.CompanyID), nil
		},

		MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
			req.ApplyTo(existing)
			return existing
		},
	}

	return NewCatalogHandler(base, config)
}
