// Package quotation provides the quotation aggregate: line items, computed
// financials, the status lifecycle with audit history, and soft delete.
package quotation

import (
	"context"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/entity"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Status is the lifecycle state of a quotation.
type Status string

const (
	// StatusInProcess is the initial state of every quotation.
	StatusInProcess Status = "in_process"
	// StatusRevised re-opens a quotation for corrections without losing history.
	StatusRevised Status = "revised"
	// StatusComplete is the terminal success state.
	StatusComplete Status = "complete"
	// StatusFailed is the terminal failure state.
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusInProcess, StatusRevised, StatusComplete, StatusFailed:
		return true
	}
	return false
}

// TaxMode selects how the aggregate tax of a quotation is computed.
type TaxMode string

const (
	// TaxModePerItem sums each line's own tax contribution.
	TaxModePerItem TaxMode = "per_item"
	// TaxModeFlat applies a single quotation-level percentage to the subtotal.
	TaxModeFlat TaxMode = "flat"
)

// Valid reports whether m is a known tax mode.
func (m TaxMode) Valid() bool {
	return m == TaxModePerItem || m == TaxModeFlat
}

// Spec is one label/value pair of a technical parameter.
type Spec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Parameter is a titled group of specs. Parameters are copied from the
// product at selection time and independently editable thereafter; there is
// no live link back to the product.
type Parameter struct {
	Title string `json:"title"`
	Specs []Spec `json:"specs"`
}

// LineItem is one purchasable unit of a quotation. Order is meaningful:
// items print in list order on the exported document.
type LineItem struct {
	// ProductID references the source product. nil for manual items.
	ProductID *id.ID `json:"productId,omitempty"`

	ProductName string `json:"productName,omitempty"`
	Description string `json:"description"`

	Quantity   decimal.Decimal `json:"quantity"`
	Rate       types.Money     `json:"rate"`
	TaxPercent types.Percent   `json:"tax"`

	Parameters []Parameter `json:"parameters,omitempty"`

	// Amount is derived (quantity × rate), recomputed on every write and
	// never trusted from input.
	Amount types.Money `json:"amount"`
}

// Snapshot captures the mutable fields recorded around a status transition.
type Snapshot struct {
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress"`
	Total           types.Money `json:"total"`
}

// SnapshotPair holds the field state immediately before and after a transition.
type SnapshotPair struct {
	Before Snapshot `json:"before"`
	After  Snapshot `json:"after"`
}

// HistoryEntry is one immutable record in the status audit log.
// Entries are only ever appended, in transition order.
type HistoryEntry struct {
	Status    Status       `json:"status"`
	At        time.Time    `json:"at"`
	UpdatedBy string       `json:"updatedBy"`
	Role      string       `json:"role"`
	Snapshot  SnapshotPair `json:"snapshot"`
}

// Quotation is the aggregate root.
type Quotation struct {
	entity.BaseRecord

	// Number is the human-facing quotation number, unique within a company,
	// assigned at creation and never reused.
	Number string `db:"number" json:"quotationNumber"`

	// Customer snapshot: CustomerID references the customer record; the
	// remaining fields are a denormalized copy taken at create/edit time so
	// the quotation stays stable if the customer record later changes.
	CustomerID      *id.ID `db:"customer_id" json:"customerId,omitempty"`
	CustomerName    string `db:"customer_name" json:"customerName"`
	CustomerEmail   string `db:"customer_email" json:"customerEmail"`
	CustomerPhone   string `db:"customer_phone" json:"customerPhone,omitempty"`
	CustomerAddress string `db:"customer_address" json:"customerAddress,omitempty"`
	CustomerCompany string `db:"customer_company" json:"customerCompany,omitempty"`
	ShippingDetails string `db:"shipping_details" json:"shippingDetails,omitempty"`

	// Items is stored as JSONB: the whole list is replaced on update, which
	// also keeps history appends a single-document write.
	Items []LineItem `db:"items" json:"items"`

	TaxMode        TaxMode       `db:"tax_mode" json:"taxMode"`
	FlatTaxPercent types.Percent `db:"flat_tax_percent" json:"flatTaxPercent"`

	// Computed financials. Derived on every create/update, never accepted
	// verbatim from a caller.
	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Tax      types.Money `db:"tax" json:"tax"`
	Total    types.Money `db:"total" json:"total"`

	// Status is the single source of truth for filtering and queries.
	// It is written only by the lifecycle engine.
	Status Status `db:"status" json:"status"`

	// History is the append-only status audit log (JSONB).
	History []HistoryEntry `db:"status_history" json:"statusHistory"`

	Notes string `db:"notes" json:"notes,omitempty"`
}

// New creates a quotation owned by the given company, in the initial state.
func New(companyID id.ID) *Quotation {
	return &Quotation{
		BaseRecord: entity.NewBaseRecord(companyID),
		Items:      make([]LineItem, 0),
		TaxMode:    TaxModePerItem,
		Status:     StatusInProcess,
	}
}

// SnapshotNow captures the current values of the snapshot fields.
func (q *Quotation) SnapshotNow() Snapshot {
	return Snapshot{
		CustomerName:    q.CustomerName,
		CustomerEmail:   q.CustomerEmail,
		CustomerPhone:   q.CustomerPhone,
		CustomerAddress: q.CustomerAddress,
		Total:           q.Total,
	}
}

// Recalculate derives per-line amounts and the aggregate financials from the
// current item list and tax mode. Intermediate math keeps full precision;
// rounding to 2 decimals happens once, here, at the persistence boundary.
func (q *Quotation) Recalculate() {
	for i := range q.Items {
		q.Items[i].Amount = types.Round2(ItemAmount(q.Items[i]))
	}
	q.Subtotal = types.Round2(Subtotal(q.Items))
	q.Tax = types.Round2(AggregateTax(q.Items, q.TaxMode, q.FlatTaxPercent))
	q.Total = Total(q.Subtotal, q.Tax)
}

// Validate implements entity.Validatable.
func (q *Quotation) Validate(ctx context.Context) error {
	if id.IsNil(q.CompanyID) {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	if q.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}

	if q.CustomerEmail == "" {
		return apperror.NewValidation("customer email is required").
			WithDetail("field", "customerEmail")
	}
	if !emailRE.MatchString(q.CustomerEmail) {
		return apperror.NewValidation("invalid customer email format").
			WithDetail("field", "customerEmail")
	}

	if !q.TaxMode.Valid() {
		return apperror.NewValidation("invalid tax mode").
			WithDetail("field", "taxMode").
			WithDetail("value", string(q.TaxMode))
	}

	if q.TaxMode == TaxModeFlat && !types.ValidPercent(q.FlatTaxPercent) {
		return apperror.NewValidation("tax percentage must be between 0 and 100").
			WithDetail("field", "flatTaxPercent")
	}

	if !q.Status.Valid() {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(q.Status))
	}

	if len(q.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range q.Items {
		if item.Description == "" {
			return apperror.NewValidation("item description is required").
				WithDetail("field", "items").
				WithDetail("itemNo", i+1)
		}
		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("itemNo", i+1)
		}
		if item.Rate.IsNegative() {
			return apperror.NewValidation("rate must not be negative").
				WithDetail("field", "items").
				WithDetail("itemNo", i+1)
		}
		if !types.ValidPercent(item.TaxPercent) {
			return apperror.NewValidation("tax percentage must be between 0 and 100").
				WithDetail("field", "items").
				WithDetail("itemNo", i+1)
		}
	}

	return nil
}
