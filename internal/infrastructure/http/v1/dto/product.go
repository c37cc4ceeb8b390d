package dto

import (
	"github.com/shopspring/decimal"

	"quotedesk/internal/core/id"
	"quotedesk/internal/domain/catalogs/product"
)

// --- Request DTOs ---

// CreateProductRequest is the request body for creating a product.
type CreateProductRequest struct {
	Name          string             `json:"productName" binding:"required"`
	Description   string             `json:"description"`
	Price         decimal.Decimal    `json:"price"`
	Tax           decimal.Decimal    `json:"tax"`
	UnitOfMeasure string             `json:"unitOfMeasure"`
	Parameters    []ParameterRequest `json:"parameters"`
}

// ToEntity converts the DTO to a domain entity owned by the company.
func (r *CreateProductRequest) ToEntity(companyID id.ID) *product.Product {
	p := product.New(companyID, r.Name, r.Price)
	p.Description = r.Description
	p.TaxPercent = r.Tax
	p.UnitOfMeasure = r.UnitOfMeasure
	p.Parameters = toParameters(r.Parameters)
	return p
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Name          string             `json:"productName" binding:"required"`
	Description   string             `json:"description"`
	Price         decimal.Decimal    `json:"price"`
	Tax           decimal.Decimal    `json:"tax"`
	UnitOfMeasure string             `json:"unitOfMeasure"`
	Parameters    []ParameterRequest `json:"parameters"`
	Version       int                `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Name = r.Name
	p.Description = r.Description
	p.Price = r.Price
	p.TaxPercent = r.Tax
	p.UnitOfMeasure = r.UnitOfMeasure
	p.Parameters = toParameters(r.Parameters)
	p.Version = r.Version
}
