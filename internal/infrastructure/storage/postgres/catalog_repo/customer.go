package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"quotedesk/internal/core/id"
	"quotedesk/internal/domain/catalogs/customer"
	"quotedesk/internal/infrastructure/storage/postgres"
)

const customersTable = "cat_customers"

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			customersTable,
			postgres.ExtractDBColumns[customer.Customer](),
			[]string{"name", "email", "company_name"},
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

// FindByEmail retrieves a customer by email within the company.
func (r *CustomerRepo) FindByEmail(ctx context.Context, companyID id.ID, email string) (*customer.Customer, error) {
	q := r.baseSelect(companyID).
		Where(squirrel.ILike{"email": email}).
		Limit(1)

	return r.FindOne(ctx, q)
}
