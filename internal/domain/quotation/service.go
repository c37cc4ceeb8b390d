package quotation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/security"
	"quotedesk/internal/core/tx"
	"quotedesk/internal/core/types"
	"quotedesk/pkg/logger"
	"quotedesk/pkg/numerator"
)

// CustomerInfo is the customer snapshot source resolved at create/update time.
type CustomerInfo struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	CompanyName     string
	ShippingDetails string
}

// CustomerDirectory looks up customers for snapshot resolution.
// Lookups are company-scoped: a foreign customer id yields NotFound.
type CustomerDirectory interface {
	Lookup(ctx context.Context, companyID, customerID id.ID) (*CustomerInfo, error)
}

// ProductInfo seeds line item values when an item references a product.
type ProductInfo struct {
	Name        string
	Description string
	Price       types.Money
	TaxPercent  types.Percent
	Parameters  []Parameter
}

// ProductCatalog looks up products for line item seeding, company-scoped.
type ProductCatalog interface {
	Lookup(ctx context.Context, companyID, productID id.ID) (*ProductInfo, error)
}

// AuditRecorder receives a record of every accepted quotation mutation.
// Recording is best effort: failures are logged, never surfaced to the caller.
type AuditRecorder interface {
	Record(ctx context.Context, companyID id.ID, actor, action string, quotationID id.ID, changes any) error
}

// Numberer allocates quotation numbers.
type Numberer interface {
	NextNumber(ctx context.Context, cfg numerator.Config, companyID id.ID, period time.Time) (string, error)
}

// ItemInput is one line of a create/update request. Amount is intentionally
// absent: it is always derived.
type ItemInput struct {
	ProductID   *id.ID
	ProductName string
	Description string
	Quantity    decimal.Decimal
	Rate        types.Money
	TaxPercent  types.Percent
	Parameters  []Parameter

	// SeedFromProduct fills zero-valued fields (name, description, rate,
	// tax, parameters) from the referenced product.
	SeedFromProduct bool
}

// CreateInput is the request payload for Create.
type CreateInput struct {
	CustomerID      *id.ID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	CustomerCompany string
	ShippingDetails string

	Items []ItemInput

	// TaxMode defaults to per_item when empty.
	TaxMode        TaxMode
	FlatTaxPercent types.Percent

	Notes string
}

// UpdateInput is a partial update: nil pointers leave the field untouched.
// Status is deliberately absent; status moves only through ChangeStatus.
type UpdateInput struct {
	CustomerID      *id.ID
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	CustomerAddress *string
	CustomerCompany *string
	ShippingDetails *string

	// Items, when non-nil, replaces the whole item list.
	Items []ItemInput

	TaxMode        *TaxMode
	FlatTaxPercent *types.Percent

	Notes *string

	// Version is the version the caller read; a stale value fails the
	// write with ConcurrentModification.
	Version int
}

// Service orchestrates quotation workflows: validation, customer snapshot
// resolution, financial recomputation, numbering, lifecycle and persistence.
type Service struct {
	repo      Repository
	lifecycle *Lifecycle
	numberer  Numberer
	numberCfg numerator.Config
	txManager tx.Manager
	customers CustomerDirectory
	products  ProductCatalog
	audit     AuditRecorder
}

// NewService creates the quotation service. customers, products and audit may
// be nil; the corresponding behavior (snapshot lookup, item seeding, audit
// trail) is then skipped.
func NewService(
	repo Repository,
	lifecycle *Lifecycle,
	numberer Numberer,
	txManager tx.Manager,
	customers CustomerDirectory,
	products ProductCatalog,
	audit AuditRecorder,
) *Service {
	return &Service{
		repo:      repo,
		lifecycle: lifecycle,
		numberer:  numberer,
		numberCfg: numerator.DefaultConfig("QT"),
		txManager: txManager,
		customers: customers,
		products:  products,
		audit:     audit,
	}
}

// Create validates and persists a new quotation. The quotation enters
// in_process with a seeded history entry; financials are computed server-side.
func (s *Service) Create(ctx context.Context, input CreateInput, scope *security.AccessScope) (*Quotation, error) {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionCreate); err != nil {
		return nil, err
	}

	q := New(scope.CompanyID)
	q.CustomerID = input.CustomerID
	q.CustomerName = input.CustomerName
	q.CustomerEmail = input.CustomerEmail
	q.CustomerPhone = input.CustomerPhone
	q.CustomerAddress = input.CustomerAddress
	q.CustomerCompany = input.CustomerCompany
	q.ShippingDetails = input.ShippingDetails
	q.Notes = input.Notes

	if input.TaxMode != "" {
		q.TaxMode = input.TaxMode
	}
	q.FlatTaxPercent = input.FlatTaxPercent

	if err := s.resolveCustomerSnapshot(ctx, q); err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, scope.CompanyID, input.Items)
	if err != nil {
		return nil, err
	}
	q.Items = items

	q.Recalculate()

	if err := q.Validate(ctx); err != nil {
		return nil, err
	}

	q.CreatedBy = scope.UserID
	q.UpdatedBy = scope.UserID
	s.lifecycle.Seed(q, Actor{UserID: scope.UserID, Role: scope.Role})

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numberer.NextNumber(ctx, s.numberCfg, scope.CompanyID, time.Now())
		if err != nil {
			return apperror.NewInternal(err)
		}
		q.Number = number
		return s.repo.Insert(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, scope, "quotation.create", q.ID, map[string]any{
		"number": q.Number,
		"total":  q.Total,
	})

	logger.Info(ctx, "quotation created", "quotation_id", q.ID, "number", q.Number)
	return q, nil
}

// Get returns an active quotation visible to the scope.
func (s *Service) Get(ctx context.Context, quotationID id.ID, scope *security.AccessScope) (*Quotation, error) {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionRead); err != nil {
		return nil, err
	}
	return s.repo.GetActiveByID(ctx, scope.CompanyID, quotationID)
}

// List returns a filtered, paginated page of active quotations.
func (s *Service) List(ctx context.Context, filter ListFilter, scope *security.AccessScope) (ListResult, error) {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionRead); err != nil {
		return ListResult{}, err
	}
	filter.CompanyID = scope.CompanyID
	filter.Normalize()
	return s.repo.ListActive(ctx, filter)
}

// History returns the status audit log with derived field diffs.
func (s *Service) History(ctx context.Context, quotationID id.ID, scope *security.AccessScope) ([]HistoryView, error) {
	q, err := s.Get(ctx, quotationID, scope)
	if err != nil {
		return nil, err
	}
	return HistoryWithDiffs(q), nil
}

// Update applies a partial edit to an active quotation and recomputes its
// financials. Status and history are never touched here.
func (s *Service) Update(ctx context.Context, quotationID id.ID, input UpdateInput, scope *security.AccessScope) (*Quotation, error) {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionUpdate); err != nil {
		return nil, err
	}

	q, err := s.repo.GetActiveByID(ctx, scope.CompanyID, quotationID)
	if err != nil {
		return nil, err
	}

	if input.Version != 0 && input.Version != q.Version {
		return nil, apperror.NewConcurrentModification("quotation", quotationID)
	}

	customerChanged := s.applyPatch(q, input)

	if customerChanged {
		if err := s.resolveCustomerSnapshot(ctx, q); err != nil {
			return nil, err
		}
	}

	if input.Items != nil {
		items, err := s.buildItems(ctx, scope.CompanyID, input.Items)
		if err != nil {
			return nil, err
		}
		q.Items = items
	}

	q.Recalculate()

	if err := q.Validate(ctx); err != nil {
		return nil, err
	}

	q.UpdatedBy = scope.UserID
	q.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, scope, "quotation.update", q.ID, map[string]any{
		"total": q.Total,
	})

	logger.Info(ctx, "quotation updated", "quotation_id", q.ID)
	return q, nil
}

// ChangeStatus moves the quotation through the lifecycle. The optional edit
// callback lets the caller bundle field changes into the same transition so
// the history snapshot captures them.
func (s *Service) ChangeStatus(ctx context.Context, quotationID id.ID, to Status, scope *security.AccessScope, edit func(*Quotation) error) (*Quotation, error) {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionUpdate); err != nil {
		return nil, err
	}

	q, err := s.repo.GetActiveByID(ctx, scope.CompanyID, quotationID)
	if err != nil {
		return nil, err
	}

	actor := Actor{UserID: scope.UserID, Role: scope.Role}
	if err := s.lifecycle.Transition(q, to, actor, func(inner *Quotation) error {
		if edit != nil {
			if err := edit(inner); err != nil {
				return err
			}
		}
		inner.Recalculate()
		return inner.Validate(ctx)
	}); err != nil {
		return nil, err
	}

	q.UpdatedBy = scope.UserID
	q.Touch()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, scope, "quotation.status", q.ID, map[string]any{
		"status": q.Status,
	})

	logger.Info(ctx, "quotation status changed", "quotation_id", q.ID, "status", q.Status)
	return q, nil
}

// Delete moves an active quotation to the recycle bin.
func (s *Service) Delete(ctx context.Context, quotationID id.ID, scope *security.AccessScope) error {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionDelete); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SoftDelete(ctx, scope.CompanyID, quotationID, scope.UserID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, scope, "quotation.delete", quotationID, nil)

	logger.Info(ctx, "quotation moved to recycle bin", "quotation_id", quotationID)
	return nil
}

func (s *Service) resolveCustomerSnapshot(ctx context.Context, q *Quotation) error {
	if q.CustomerID == nil || s.customers == nil {
		return nil
	}

	info, err := s.customers.Lookup(ctx, q.CompanyID, *q.CustomerID)
	if err != nil {
		return err
	}

	// Explicit input wins; the directory only fills blanks. The copied
	// values stay frozen on the quotation afterwards.
	if q.CustomerName == "" {
		q.CustomerName = info.Name
	}
	if q.CustomerEmail == "" {
		q.CustomerEmail = info.Email
	}
	if q.CustomerPhone == "" {
		q.CustomerPhone = info.Phone
	}
	if q.CustomerAddress == "" {
		q.CustomerAddress = info.Address
	}
	if q.CustomerCompany == "" {
		q.CustomerCompany = info.CompanyName
	}
	if q.ShippingDetails == "" {
		q.ShippingDetails = info.ShippingDetails
	}

	return nil
}

func (s *Service) buildItems(ctx context.Context, companyID id.ID, inputs []ItemInput) ([]LineItem, error) {
	items := make([]LineItem, 0, len(inputs))

	for _, in := range inputs {
		item := LineItem{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			Description: in.Description,
			Quantity:    in.Quantity,
			Rate:        in.Rate,
			TaxPercent:  in.TaxPercent,
			Parameters:  in.Parameters,
		}

		if in.SeedFromProduct && in.ProductID != nil && s.products != nil {
			info, err := s.products.Lookup(ctx, companyID, *in.ProductID)
			if err != nil {
				return nil, err
			}
			if item.ProductName == "" {
				item.ProductName = info.Name
			}
			if item.Description == "" {
				item.Description = info.Description
			}
			if item.Rate.IsZero() {
				item.Rate = info.Price
			}
			if item.TaxPercent.IsZero() {
				item.TaxPercent = info.TaxPercent
			}
			if len(item.Parameters) == 0 && len(info.Parameters) > 0 {
				// Copy so later edits to the line never write back
				// into the catalog.
				params := make([]Parameter, len(info.Parameters))
				copy(params, info.Parameters)
				item.Parameters = params
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// applyPatch copies the non-nil fields of input onto q and reports whether the
// customer reference changed (which re-triggers snapshot resolution).
func (s *Service) applyPatch(q *Quotation, input UpdateInput) bool {
	customerChanged := false

	if input.CustomerID != nil {
		q.CustomerID = input.CustomerID
		customerChanged = true
	}
	if input.CustomerName != nil {
		q.CustomerName = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		q.CustomerEmail = *input.CustomerEmail
	}
	if input.CustomerPhone != nil {
		q.CustomerPhone = *input.CustomerPhone
	}
	if input.CustomerAddress != nil {
		q.CustomerAddress = *input.CustomerAddress
	}
	if input.CustomerCompany != nil {
		q.CustomerCompany = *input.CustomerCompany
	}
	if input.ShippingDetails != nil {
		q.ShippingDetails = *input.ShippingDetails
	}
	if input.TaxMode != nil {
		q.TaxMode = *input.TaxMode
	}
	if input.FlatTaxPercent != nil {
		q.FlatTaxPercent = *input.FlatTaxPercent
	}
	if input.Notes != nil {
		q.Notes = *input.Notes
	}

	return customerChanged
}

func (s *Service) recordAudit(ctx context.Context, scope *security.AccessScope, action string, quotationID id.ID, changes any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, scope.CompanyID, scope.UserID, action, quotationID, changes); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "quotation_id", quotationID, "error", err)
	}
}
