// Package product provides the product catalog. Selecting a product on a
// quotation line copies its price, tax and parameters into the line; the
// copies are independently editable afterwards.
package product

import (
	"context"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/entity"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/types"
	"quotedesk/internal/domain/quotation"
)

// Product is a sellable catalog item.
type Product struct {
	entity.BaseRecord

	Name        string `db:"name" json:"productName"`
	Description string `db:"description" json:"description,omitempty"`

	// Price is the default unit rate seeded into quotation lines.
	Price types.Money `db:"price" json:"price"`

	// TaxPercent is the default per-item tax rate.
	TaxPercent types.Percent `db:"tax_percent" json:"tax"`

	UnitOfMeasure string `db:"unit_of_measure" json:"unitOfMeasure,omitempty"`

	// Parameters holds titled spec groups (JSONB). They share the line item
	// shape because selection copies them verbatim onto the line.
	Parameters []quotation.Parameter `db:"parameters" json:"parameters,omitempty"`
}

// New creates a product owned by the given company.
func New(companyID id.ID, name string, price types.Money) *Product {
	return &Product{
		BaseRecord: entity.NewBaseRecord(companyID),
		Name:       name,
		Price:      price,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if id.IsNil(p.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if p.Name == "" {
		return apperror.NewValidation("product name is required").
			WithDetail("field", "productName")
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}

	if !types.ValidPercent(p.TaxPercent) {
		return apperror.NewValidation("tax percentage must be between 0 and 100").
			WithDetail("field", "tax")
	}

	for _, param := range p.Parameters {
		if param.Title == "" {
			return apperror.NewValidation("parameter title is required").
				WithDetail("field", "parameters")
		}
	}

	return nil
}
