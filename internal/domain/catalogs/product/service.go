package product

import (
	"context"

	"quotedesk/internal/core/id"
	"quotedesk/internal/core/security"
	"quotedesk/internal/core/tx"
	"quotedesk/internal/domain"
	"quotedesk/internal/domain/audit"
	"quotedesk/internal/domain/quotation"
)

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
		Resource:   security.ResourceProduct,
	})

	base.Hooks().OnBeforeCreate(func(ctx context.Context, p *Product) error {
		audit.EnrichCreatedByDirect(ctx, &p.CreatedBy, &p.UpdatedBy)
		return nil
	})
	base.Hooks().OnBeforeUpdate(func(ctx context.Context, p *Product) error {
		audit.EnrichUpdatedByDirect(ctx, &p.UpdatedBy)
		return nil
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// Lookup implements quotation.ProductCatalog: the seed source for quotation
// line items. Callers are already permission-checked by the quotation
// service, so this goes straight to the repository.
func (s *Service) Lookup(ctx context.Context, companyID, productID id.ID) (*quotation.ProductInfo, error) {
	p, err := s.repo.GetByID(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	return &quotation.ProductInfo{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		TaxPercent:  p.TaxPercent,
		Parameters:  p.Parameters,
	}, nil
}
