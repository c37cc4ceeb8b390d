package catalog_repo

import (
	"testing"

	"quotedesk/internal/core/id"
	"quotedesk/internal/domain/filter"
)

func TestApplyAdvancedFilters_Operators(t *testing.T) {
	repo := NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "company_id", "price"}, nil, func() any { return nil })
	companyID := id.MustParse("01937b18-0000-7000-8000-000000000001")

	tests := []struct {
		name     string
		item     filter.Item
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "GreaterOrEqual",
			item:     filter.Item{Field: "price", Operator: filter.GreaterOrEqual, Value: 10},
			wantSQL:  "SELECT id, company_id, price FROM test_table WHERE company_id = $1 AND price >= $2",
			wantArgs: []any{companyID, 10},
		},
		{
			name:     "LessOrEqual",
			item:     filter.Item{Field: "price", Operator: filter.LessOrEqual, Value: 5},
			wantSQL:  "SELECT id, company_id, price FROM test_table WHERE company_id = $1 AND price <= $2",
			wantArgs: []any{companyID, 5},
		},
		{
			name:     "Contains",
			item:     filter.Item{Field: "price", Operator: filter.Contains, Value: "press"},
			wantSQL:  "SELECT id, company_id, price FROM test_table WHERE company_id = $1 AND price ILIKE $2",
			wantArgs: []any{companyID, "%press%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseQ := repo.baseSelect(companyID)
			q, err := repo.applyAdvancedFilters(baseQ, []filter.Item{tt.item})
			if err != nil {
				t.Fatalf("applyAdvancedFilters failed: %v", err)
			}

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("Args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			if args[1] != tt.wantArgs[1] {
				t.Errorf("Args mismatch\nwant: %v\ngot:  %v", tt.wantArgs[1], args[1])
			}
		})
	}
}

func TestApplyAdvancedFilters_RejectsUnknownColumn(t *testing.T) {
	repo := NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "company_id"}, nil, func() any { return nil })

	_, err := repo.applyAdvancedFilters(
		repo.baseSelect(id.New()),
		[]filter.Item{{Field: "secret_col", Operator: filter.Equal, Value: 1}},
	)
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
}
