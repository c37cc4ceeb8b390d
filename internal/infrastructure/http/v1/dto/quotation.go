package dto

import (
	"github.com/shopspring/decimal"

	"quotedesk/internal/core/types"
	"quotedesk/internal/domain/quotation"
)

// --- Request DTOs ---

// SpecRequest is one label/value pair of a parameter.
type SpecRequest struct {
	Label string `json:"label" binding:"required"`
	Value string `json:"value"`
}

// ParameterRequest is a titled group of specs.
type ParameterRequest struct {
	Title string        `json:"title" binding:"required"`
	Specs []SpecRequest `json:"specs"`
}

// ItemRequest is one line of a quotation create/update request.
// Amount is intentionally not accepted: the server always derives it.
type ItemRequest struct {
	ProductID       *string            `json:"productId"`
	ProductName     string             `json:"productName"`
	Description     string             `json:"description"`
	Quantity        decimal.Decimal    `json:"quantity"`
	Rate            decimal.Decimal    `json:"rate"`
	Tax             decimal.Decimal    `json:"tax"`
	Parameters      []ParameterRequest `json:"parameters"`
	SeedFromProduct bool               `json:"seedFromProduct"`
}

func (r *ItemRequest) toInput() (quotation.ItemInput, error) {
	productID, err := ParseOptionalID(r.ProductID, "items.productId")
	if err != nil {
		return quotation.ItemInput{}, err
	}
	return quotation.ItemInput{
		ProductID:       productID,
		ProductName:     r.ProductName,
		Description:     r.Description,
		Quantity:        r.Quantity,
		Rate:            r.Rate,
		TaxPercent:      r.Tax,
		Parameters:      toParameters(r.Parameters),
		SeedFromProduct: r.SeedFromProduct,
	}, nil
}

func toParameters(reqs []ParameterRequest) []quotation.Parameter {
	if len(reqs) == 0 {
		return nil
	}
	params := make([]quotation.Parameter, 0, len(reqs))
	for _, p := range reqs {
		specs := make([]quotation.Spec, 0, len(p.Specs))
		for _, s := range p.Specs {
			specs = append(specs, quotation.Spec{Label: s.Label, Value: s.Value})
		}
		params = append(params, quotation.Parameter{Title: p.Title, Specs: specs})
	}
	return params
}

func toItemInputs(reqs []ItemRequest) ([]quotation.ItemInput, error) {
	if reqs == nil {
		return nil, nil
	}
	inputs := make([]quotation.ItemInput, 0, len(reqs))
	for i := range reqs {
		input, err := reqs[i].toInput()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

// CreateQuotationRequest is the request body for creating a quotation.
type CreateQuotationRequest struct {
	CustomerID      *string         `json:"customerId"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerAddress string          `json:"customerAddress"`
	CustomerCompany string          `json:"customerCompany"`
	ShippingDetails string          `json:"shippingDetails"`
	Items           []ItemRequest   `json:"items" binding:"required"`
	TaxMode         string          `json:"taxMode"`
	FlatTaxPercent  decimal.Decimal `json:"flatTaxPercent"`
	Notes           string          `json:"notes"`
}

// ToInput converts the request into domain create input.
func (r *CreateQuotationRequest) ToInput() (quotation.CreateInput, error) {
	customerID, err := ParseOptionalID(r.CustomerID, "customerId")
	if err != nil {
		return quotation.CreateInput{}, err
	}
	items, err := toItemInputs(r.Items)
	if err != nil {
		return quotation.CreateInput{}, err
	}
	return quotation.CreateInput{
		CustomerID:      customerID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		CustomerCompany: r.CustomerCompany,
		ShippingDetails: r.ShippingDetails,
		Items:           items,
		TaxMode:         quotation.TaxMode(r.TaxMode),
		FlatTaxPercent:  r.FlatTaxPercent,
		Notes:           r.Notes,
	}, nil
}

// UpdateQuotationRequest is a partial update: absent fields stay untouched.
// Status is deliberately not accepted here; use the status endpoint.
type UpdateQuotationRequest struct {
	CustomerID      *string          `json:"customerId"`
	CustomerName    *string          `json:"customerName"`
	CustomerEmail   *string          `json:"customerEmail"`
	CustomerPhone   *string          `json:"customerPhone"`
	CustomerAddress *string          `json:"customerAddress"`
	CustomerCompany *string          `json:"customerCompany"`
	ShippingDetails *string          `json:"shippingDetails"`
	Items           []ItemRequest    `json:"items"`
	TaxMode         *string          `json:"taxMode"`
	FlatTaxPercent  *decimal.Decimal `json:"flatTaxPercent"`
	Notes           *string          `json:"notes"`
	Version         int              `json:"version" binding:"required,min=1"`
}

// ToInput converts the request into domain update input.
func (r *UpdateQuotationRequest) ToInput() (quotation.UpdateInput, error) {
	customerID, err := ParseOptionalID(r.CustomerID, "customerId")
	if err != nil {
		return quotation.UpdateInput{}, err
	}
	items, err := toItemInputs(r.Items)
	if err != nil {
		return quotation.UpdateInput{}, err
	}

	var taxMode *quotation.TaxMode
	if r.TaxMode != nil {
		m := quotation.TaxMode(*r.TaxMode)
		taxMode = &m
	}
	var flatTax *types.Percent
	if r.FlatTaxPercent != nil {
		p := types.Percent(*r.FlatTaxPercent)
		flatTax = &p
	}

	return quotation.UpdateInput{
		CustomerID:      customerID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		CustomerAddress: r.CustomerAddress,
		CustomerCompany: r.CustomerCompany,
		ShippingDetails: r.ShippingDetails,
		Items:           items,
		TaxMode:         taxMode,
		FlatTaxPercent:  flatTax,
		Notes:           r.Notes,
		Version:         r.Version,
	}, nil
}

// ChangeStatusRequest is the request body for a status move.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// QuotationListQuery holds list filter query parameters.
type QuotationListQuery struct {
	PaginationRequest
	Search string `form:"search"`
	Status string `form:"status"`
}

// ToFilter converts query params into a domain list filter.
func (q *QuotationListQuery) ToFilter() quotation.ListFilter {
	f := quotation.ListFilter{
		Search:   q.Search,
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	return f
}
