package dto

import (
	"quotedesk/internal/core/id"
	"quotedesk/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	CompanyName     string `json:"companyName"`
	ShippingDetails string `json:"shippingDetails"`
}

// ToEntity converts the DTO to a domain entity owned by the company.
func (r *CreateCustomerRequest) ToEntity(companyID id.ID) *customer.Customer {
	c := customer.New(companyID, r.Name, r.Email)
	c.Phone = r.Phone
	c.Address = r.Address
	c.CompanyName = r.CompanyName
	c.ShippingDetails = r.ShippingDetails
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	CompanyName     string `json:"companyName"`
	ShippingDetails string `json:"shippingDetails"`
	Version         int    `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Name = r.Name
	c.Email = r.Email
	c.Phone = r.Phone
	c.Address = r.Address
	c.CompanyName = r.CompanyName
	c.ShippingDetails = r.ShippingDetails
	c.Version = r.Version
}

// CatalogListQuery holds list filter query parameters shared by catalogs.
type CatalogListQuery struct {
	PaginationRequest
	Search  string `form:"search"`
	OrderBy string `form:"orderBy"`
}
