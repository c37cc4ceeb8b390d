// Package main provides a CLI tool for seeding the database with demo data:
// a demo company, an admin and a member user, sample customers and products,
// and a few quotations exercising the full lifecycle.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	appctx "quotedesk/internal/core/context"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/security"
	"quotedesk/internal/core/types"
	"quotedesk/internal/domain/auth"
	"quotedesk/internal/domain/catalogs/customer"
	"quotedesk/internal/domain/catalogs/product"
	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/infrastructure/storage/postgres"
	"quotedesk/internal/infrastructure/storage/postgres/catalog_repo"
	"quotedesk/internal/infrastructure/storage/postgres/quotation_repo"
	"quotedesk/pkg/logger"
	"quotedesk/pkg/numerator"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	companyID, err := seedUsers(ctx, txManager, log)
	if err != nil {
		log.Fatalw("failed to seed users", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, txManager, log, companyID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// memberPermissions is the default grant set for non-admin users: full
// work with quotations and catalogs except permanent deletion.
func memberPermissions() map[string]appctx.PermissionSet {
	return map[string]appctx.PermissionSet{
		security.ResourceQuotation: {"read": true, "create": true, "update": true},
		security.ResourceCustomer:  {"read": true, "create": true, "update": true},
		security.ResourceProduct:   {"read": true},
	}
}

func seedUsers(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) (id.ID, error) {
	adminEmail := getEnv("ADMIN_EMAIL", "admin@quotedesk.io")
	adminPassword := getEnv("ADMIN_PASSWORD", "Admin123!")

	users := postgres.NewUserRepo(txManager)

	// Reuse the existing company when the seeder runs twice.
	if existing, err := users.GetByEmail(ctx, adminEmail); err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existing.ID)
		return existing.CompanyID, nil
	}

	companyID := id.New()

	adminHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return id.Nil(), err
	}
	admin := auth.NewUser(companyID, adminEmail, adminHash)
	admin.Name = "System Admin"
	admin.Role = security.RoleAdmin
	if err := users.Create(ctx, admin); err != nil {
		return id.Nil(), fmt.Errorf("create admin user: %w", err)
	}

	memberHash, err := auth.HashPassword(getEnv("MEMBER_PASSWORD", "Member123!"))
	if err != nil {
		return id.Nil(), err
	}
	member := auth.NewUser(companyID, getEnv("MEMBER_EMAIL", "member@quotedesk.io"), memberHash)
	member.Name = "Demo Member"
	member.Permissions = memberPermissions()
	if err := users.Create(ctx, member); err != nil {
		return id.Nil(), fmt.Errorf("create member user: %w", err)
	}

	log.Infow("users created",
		"company_id", companyID,
		"admin", admin.Email,
		"member", member.Email,
	)
	return companyID, nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, txManager *postgres.TxManager, log *logger.Logger, companyID id.ID) error {
	log.Info("seeding demo data...")

	// Skip when quotations already exist for the company.
	var existing int64
	err := pool.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM doc_quotations WHERE company_id = $1`, companyID,
	).Scan(&existing)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check existing quotations: %w", err)
	}
	if existing > 0 {
		log.Infow("demo data already present, skipping", "quotations", existing)
		return nil
	}

	scope := &security.AccessScope{
		UserID:    "seeder",
		CompanyID: companyID,
		Role:      security.RoleAdmin,
	}

	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	customerService := customer.NewService(customerRepo, txManager)

	// 1. Customers
	customerSeeds := []struct {
		name, email, phone, address, company string
	}{
		{"Ravi Sharma", "ravi@acmefab.example", "+91 98100 11111", "14 Industrial Estate, Pune", "Acme Fabrication"},
		{"Meera Iyer", "meera@bluewave.example", "+91 98100 22222", "5 Marine Drive, Mumbai", "BlueWave Traders"},
		{"John Carter", "john@nortech.example", "+1 555 0100", "220 5th Ave, New York", "Nortech LLC"},
	}
	customerIDs := make([]id.ID, 0, len(customerSeeds))
	for _, cs := range customerSeeds {
		c := customer.New(companyID, cs.name, cs.email)
		c.Phone = cs.phone
		c.Address = cs.address
		c.CompanyName = cs.company
		if err := customerService.Create(ctx, c, scope); err != nil {
			return fmt.Errorf("seed customer %s: %w", cs.name, err)
		}
		customerIDs = append(customerIDs, c.ID)
	}
	log.Infow("customers seeded", "count", len(customerIDs))

	// 2. Products (bulk COPY; parameters land as JSONB)
	productSeeds := []*product.Product{
		newProduct(companyID, "Industrial Pump IP-200", "Single-stage centrifugal pump", "14500.00", "18", "pcs",
			quotation.Parameter{Title: "Motor", Specs: []quotation.Spec{
				{Label: "Power", Value: "2.2 kW"},
				{Label: "Speed", Value: "2900 RPM"},
			}}),
		newProduct(companyID, "Control Panel CP-50", "IP54 control panel with soft starter", "8200.00", "18", "pcs",
			quotation.Parameter{Title: "Enclosure", Specs: []quotation.Spec{
				{Label: "Rating", Value: "IP54"},
				{Label: "Material", Value: "Mild steel"},
			}}),
		newProduct(companyID, "Installation Service", "On-site installation and commissioning", "5000.00", "0", "job"),
	}

	batch := postgres.NewBatchInserter(txManager)
	columns := []string{
		"id", "company_id", "version", "created_at", "updated_at",
		"name", "description", "price", "tax_percent", "unit_of_measure", "parameters",
	}
	rows := make([][]any, 0, len(productSeeds))
	for _, p := range productSeeds {
		rows = append(rows, []any{
			p.ID, p.CompanyID, p.Version, p.CreatedAt, p.UpdatedAt,
			p.Name, p.Description, p.Price, p.TaxPercent, p.UnitOfMeasure, p.Parameters,
		})
	}
	var inserted int64
	err = txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		inserted, err = batch.CopyFromSlice(txCtx, "cat_products", columns, rows)
		return err
	})
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	log.Infow("products seeded", "count", inserted)

	// 3. Quotations through the real service so numbering, financials,
	// lifecycle seeding and the audit trail all run.
	auditStore, err := postgres.NewAuditStore(txManager)
	if err != nil {
		return err
	}
	productRepo := catalog_repo.NewProductRepo(txManager)
	productService := product.NewService(productRepo, txManager)
	quotationService := quotation.NewService(
		quotation_repo.NewQuotationRepo(txManager),
		quotation.NewLifecycle(),
		numerator.New(pool.Unwrap()),
		txManager,
		customerService,
		productService,
		auditStore,
	)

	pumpID := productSeeds[0].ID
	panelID := productSeeds[1].ID

	q1, err := quotationService.Create(ctx, quotation.CreateInput{
		CustomerID: &customerIDs[0],
		Items: []quotation.ItemInput{
			{ProductID: &pumpID, Quantity: decimal.NewFromInt(2), SeedFromProduct: true},
			{ProductID: &panelID, Quantity: decimal.NewFromInt(1), SeedFromProduct: true},
		},
		Notes: "Delivery within 6 weeks of PO.",
	}, scope)
	if err != nil {
		return fmt.Errorf("seed quotation 1: %w", err)
	}

	q2, err := quotationService.Create(ctx, quotation.CreateInput{
		CustomerID: &customerIDs[1],
		Items: []quotation.ItemInput{
			{
				Description: "Annual maintenance contract",
				Quantity:    decimal.NewFromInt(1),
				Rate:        types.MustMoney("36000.00"),
				TaxPercent:  types.MustMoney("18"),
			},
		},
		TaxMode:        quotation.TaxModeFlat,
		FlatTaxPercent: types.MustMoney("18"),
	}, scope)
	if err != nil {
		return fmt.Errorf("seed quotation 2: %w", err)
	}

	// Walk one quotation through the lifecycle for a non-trivial history.
	if _, err := quotationService.ChangeStatus(ctx, q2.ID, quotation.StatusComplete, scope, nil); err != nil {
		return fmt.Errorf("complete quotation 2: %w", err)
	}

	log.Infow("quotations seeded",
		"numbers", []string{q1.Number, q2.Number},
	)
	return nil
}

func newProduct(companyID id.ID, name, description, price, tax, unit string, params ...quotation.Parameter) *product.Product {
	p := product.New(companyID, name, types.MustMoney(price))
	p.Description = description
	p.TaxPercent = types.MustMoney(tax)
	p.UnitOfMeasure = unit
	p.Parameters = params
	return p
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
