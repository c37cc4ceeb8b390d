package handlers

import (
	"github.com/gin-gonic/gin"

	"quotedesk/internal/core/security"
	"quotedesk/internal/domain/catalogs/customer"
	"quotedesk/internal/infrastructure/http/v1/dto"
)

// CustomerHTTPHandler is the catalog handler instantiated for customers.
type CustomerHTTPHandler = CatalogHandler[
	*customer.Customer,
	dto.CreateCustomerRequest,
	dto.UpdateCustomerRequest,
]

// NewCustomerHandler wires the generic catalog handler for customers.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHTTPHandler {
	config := CatalogHandlerConfig[
		*customer.Customer,
		dto.CreateCustomerRequest,
		dto.UpdateCustomerRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "customer",

		MapCreateDTO: func(c *gin.Context, req dto.CreateCustomerRequest) (*customer.Customer, error) {
			scope := security.NewAccessScope(c.Request.Context())
			return req.ToEntity(scope.CompanyID), nil
		},

		MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) *customer.Customer {
			req.ApplyTo(existing)
			return existing
		},
	}

	return NewCatalogHandler(base, config)
}
