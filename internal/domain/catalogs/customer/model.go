// Package customer provides the customer catalog. Customers are the
// counterparties quotations are issued to; quotations copy a snapshot of
// their contact fields and stay stable if the record changes later.
package customer

import (
	"context"
	"regexp"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/entity"
	"quotedesk/internal/core/id"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Customer represents a business partner quotations are issued to.
type Customer struct {
	entity.BaseRecord

	// Name is the contact person's name.
	Name string `db:"name" json:"name"`

	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone,omitempty"`

	// Address is the billing address.
	Address string `db:"address" json:"address,omitempty"`

	// CompanyName is the customer's organization.
	CompanyName string `db:"company_name" json:"companyName,omitempty"`

	// ShippingDetails is free-form delivery information.
	ShippingDetails string `db:"shipping_details" json:"shippingDetails,omitempty"`
}

// New creates a customer owned by the given company.
func New(companyID id.ID, name, email string) *Customer {
	return &Customer{
		BaseRecord: entity.NewBaseRecord(companyID),
		Name:       name,
		Email:      email,
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if id.IsNil(c.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if c.Name == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "name")
	}

	if c.Email == "" {
		return apperror.NewValidation("customer email is required").
			WithDetail("field", "email")
	}
	if !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}
