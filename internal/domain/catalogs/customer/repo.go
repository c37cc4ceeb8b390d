package customer

import (
	"context"

	"quotedesk/internal/core/id"
	"quotedesk/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByEmail retrieves a customer by email (unique within a company).
	FindByEmail(ctx context.Context, companyID id.ID, email string) (*Customer, error)
}
