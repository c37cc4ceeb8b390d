package product

import (
	"context"
	"testing"

	"quotedesk/internal/core/id"
	"quotedesk/internal/core/types"
	"quotedesk/internal/domain/quotation"
)

func TestProduct_Validate(t *testing.T) {
	companyID := id.New()

	tests := []struct {
		name    string
		build   func() *Product
		wantErr bool
	}{
		{
			name:  "valid",
			build: func() *Product { return New(companyID, "Hydraulic press", types.MustMoney("1200")) },
		},
		{
			name:  "zero price is allowed",
			build: func() *Product { return New(companyID, "Sample kit", types.Zero()) },
		},
		{
			name: "missing name",
			build: func() *Product {
				return New(companyID, "", types.MustMoney("10"))
			},
			wantErr: true,
		},
		{
			name: "negative price",
			build: func() *Product {
				return New(companyID, "Press", types.MustMoney("-1"))
			},
			wantErr: true,
		},
		{
			name: "tax above 100",
			build: func() *Product {
				p := New(companyID, "Press", types.MustMoney("10"))
				p.TaxPercent = types.MustMoney("101")
				return p
			},
			wantErr: true,
		},
		{
			name: "untitled parameter",
			build: func() *Product {
				p := New(companyID, "Press", types.MustMoney("10"))
				p.Parameters = []quotation.Parameter{{Specs: []quotation.Spec{{Label: "Height", Value: "2m"}}}}
				return p
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
