package customer

import (
	"context"
	"testing"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/id"
)

func TestCustomer_Validate(t *testing.T) {
	companyID := id.New()

	tests := []struct {
		name    string
		build   func() *Customer
		wantErr bool
	}{
		{
			name:  "valid",
			build: func() *Customer { return New(companyID, "Jane Smith", "jane@acme.test") },
		},
		{
			name: "missing name",
			build: func() *Customer {
				return New(companyID, "", "jane@acme.test")
			},
			wantErr: true,
		},
		{
			name: "missing email",
			build: func() *Customer {
				return New(companyID, "Jane Smith", "")
			},
			wantErr: true,
		},
		{
			name: "malformed email",
			build: func() *Customer {
				return New(companyID, "Jane Smith", "jane@@acme")
			},
			wantErr: true,
		},
		{
			name: "missing company",
			build: func() *Customer {
				c := New(companyID, "Jane Smith", "jane@acme.test")
				c.CompanyID = id.Nil()
				return c
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
			if err != nil && !apperror.IsAppError(err) {
				t.Errorf("Validate() returned unstructured error: %v", err)
			}
		})
	}
}
