package customer

import (
	"context"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/security"
	"quotedesk/internal/core/tx"
	"quotedesk/internal/domain"
	"quotedesk/internal/domain/audit"
	"quotedesk/internal/domain/quotation"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
		Resource:   security.ResourceCustomer,
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.checkEmailUnique)
	base.Hooks().OnBeforeUpdate(svc.checkEmailUnique)

	base.Hooks().OnBeforeCreate(func(ctx context.Context, c *Customer) error {
		audit.EnrichCreatedByDirect(ctx, &c.CreatedBy, &c.UpdatedBy)
		return nil
	})
	base.Hooks().OnBeforeUpdate(func(ctx context.Context, c *Customer) error {
		audit.EnrichUpdatedByDirect(ctx, &c.UpdatedBy)
		return nil
	})

	return svc
}

// checkEmailUnique rejects a second customer with the same email in the
// same company.
func (s *Service) checkEmailUnique(ctx context.Context, c *Customer) error {
	existing, err := s.repo.FindByEmail(ctx, c.CompanyID, c.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewDuplicate("customer", "email", c.Email)
	}
	return nil
}

// Lookup implements quotation.CustomerDirectory: the snapshot source for
// quotation customer fields. Callers are already permission-checked by the
// quotation service, so this goes straight to the repository.
func (s *Service) Lookup(ctx context.Context, companyID, customerID id.ID) (*quotation.CustomerInfo, error) {
	c, err := s.repo.GetByID(ctx, companyID, customerID)
	if err != nil {
		return nil, err
	}
	return &quotation.CustomerInfo{
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		CompanyName:     c.CompanyName,
		ShippingDetails: c.ShippingDetails,
	}, nil
}
