package quotation

import (
	"context"
	"testing"
	"time"

	"quotedesk/internal/core/apperror"
	appctx "quotedesk/internal/core/context"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/security"
	"quotedesk/internal/core/types"
	"quotedesk/pkg/numerator"
)

// --- fakes ---

type fakeRepo struct {
	records map[id.ID]*Quotation

	insertCalls int
	updateCalls int
	failUpdate  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[id.ID]*Quotation)}
}

func (r *fakeRepo) Insert(_ context.Context, q *Quotation) error {
	r.insertCalls++
	cp := *q
	r.records[q.ID] = &cp
	return nil
}

func (r *fakeRepo) GetActiveByID(_ context.Context, companyID, quotationID id.ID) (*Quotation, error) {
	q, ok := r.records[quotationID]
	if !ok || q.CompanyID != companyID || q.IsDeleted() {
		return nil, apperror.NewNotFound("quotation", quotationID)
	}
	cp := *q
	return &cp, nil
}

func (r *fakeRepo) GetDeletedByID(_ context.Context, companyID, quotationID id.ID) (*Quotation, error) {
	q, ok := r.records[quotationID]
	if !ok || q.CompanyID != companyID || !q.IsDeleted() {
		return nil, apperror.NewNotFound("quotation", quotationID)
	}
	cp := *q
	return &cp, nil
}

func (r *fakeRepo) ListActive(_ context.Context, filter ListFilter) (ListResult, error) {
	result := ListResult{Page: filter.Page, PageSize: filter.PageSize}
	for _, q := range r.records {
		if q.CompanyID != filter.CompanyID || q.IsDeleted() {
			continue
		}
		if filter.Status != "" && filter.Status != "all" && string(q.Status) != filter.Status {
			continue
		}
		cp := *q
		result.Items = append(result.Items, &cp)
		result.TotalCount++
	}
	return result, nil
}

func (r *fakeRepo) ListDeleted(_ context.Context, companyID id.ID) ([]*Quotation, error) {
	var out []*Quotation
	for _, q := range r.records {
		if q.CompanyID == companyID && q.IsDeleted() {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, q *Quotation) error {
	r.updateCalls++
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.records[q.ID]; !ok {
		return apperror.NewNotFound("quotation", q.ID)
	}
	cp := *q
	r.records[q.ID] = &cp
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, companyID, quotationID id.ID, _ string) error {
	q, ok := r.records[quotationID]
	if !ok || q.CompanyID != companyID || q.IsDeleted() {
		return apperror.NewNotFound("quotation", quotationID)
	}
	q.MarkDeleted(time.Now().UTC())
	return nil
}

func (r *fakeRepo) Restore(_ context.Context, companyID, quotationID id.ID) error {
	q, ok := r.records[quotationID]
	if !ok || q.CompanyID != companyID {
		return apperror.NewNotFound("quotation", quotationID)
	}
	q.ClearDeleted()
	return nil
}

func (r *fakeRepo) Purge(_ context.Context, companyID, quotationID id.ID) error {
	q, ok := r.records[quotationID]
	if !ok || q.CompanyID != companyID || !q.IsDeleted() {
		return apperror.NewNotFound("quotation", quotationID)
	}
	delete(r.records, quotationID)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNumberer struct {
	next int
}

func (n *fakeNumberer) NextNumber(_ context.Context, cfg numerator.Config, _ id.ID, _ time.Time) (string, error) {
	n.next++
	return cfg.Prefix + "-TEST-" + string(rune('0'+n.next)), nil
}

type fakeCustomers struct {
	byID map[id.ID]*CustomerInfo
}

func (c *fakeCustomers) Lookup(_ context.Context, _ id.ID, customerID id.ID) (*CustomerInfo, error) {
	info, ok := c.byID[customerID]
	if !ok {
		return nil, apperror.NewNotFound("customer", customerID)
	}
	return info, nil
}

type fakeProducts struct {
	byID map[id.ID]*ProductInfo
}

func (p *fakeProducts) Lookup(_ context.Context, _ id.ID, productID id.ID) (*ProductInfo, error) {
	info, ok := p.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID)
	}
	return info, nil
}

type auditEntry struct {
	action string
	qid    id.ID
}

type fakeAudit struct {
	entries []auditEntry
}

func (a *fakeAudit) Record(_ context.Context, _ id.ID, _, action string, quotationID id.ID, _ any) error {
	a.entries = append(a.entries, auditEntry{action: action, qid: quotationID})
	return nil
}

// --- helpers ---

func memberScope(companyID id.ID, perms ...string) *security.AccessScope {
	set := appctx.PermissionSet{}
	for _, p := range perms {
		set[p] = true
	}
	return &security.AccessScope{
		UserID:      "user-1",
		CompanyID:   companyID,
		Role:        "member",
		Permissions: map[string]appctx.PermissionSet{security.ResourceQuotation: set},
	}
}

func fullScope(companyID id.ID) *security.AccessScope {
	return memberScope(companyID, "read", "create", "update", "delete")
}

func validCreateInput() CreateInput {
	return CreateInput{
		CustomerName:  "Acme Industries",
		CustomerEmail: "buyer@acme.test",
		Items: []ItemInput{
			{Description: "CNC machining", Quantity: types.MustMoney("2"), Rate: types.MustMoney("100"), TaxPercent: types.MustMoney("10")},
			{Description: "Shipping crate", Quantity: types.MustMoney("1"), Rate: types.MustMoney("50")},
		},
	}
}

func newTestService(repo *fakeRepo) (*Service, *fakeAudit) {
	audit := &fakeAudit{}
	svc := NewService(repo, NewLifecycle(), &fakeNumberer{}, fakeTxManager{}, nil, nil, audit)
	return svc, audit
}

// --- tests ---

func TestCreate_ComputesFinancialsAndSeedsHistory(t *testing.T) {
	repo := newFakeRepo()
	svc, audit := newTestService(repo)
	companyID := id.New()

	q, err := svc.Create(context.Background(), validCreateInput(), fullScope(companyID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if q.Number == "" {
		t.Error("quotation number not assigned")
	}
	if !q.Subtotal.Equal(types.MustMoney("250")) || !q.Tax.Equal(types.MustMoney("20")) || !q.Total.Equal(types.MustMoney("270")) {
		t.Errorf("financials = %s/%s/%s, want 250/20/270", q.Subtotal, q.Tax, q.Total)
	}
	if q.Status != StatusInProcess {
		t.Errorf("status = %s, want %s", q.Status, StatusInProcess)
	}
	if len(q.History) != 1 || q.History[0].Status != StatusInProcess {
		t.Errorf("history not seeded: %+v", q.History)
	}
	if repo.insertCalls != 1 {
		t.Errorf("insert calls = %d, want 1", repo.insertCalls)
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "quotation.create" {
		t.Errorf("audit entries = %+v", audit.entries)
	}
}

func TestCreate_PermissionDenied(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Create(context.Background(), validCreateInput(), memberScope(id.New(), "read"))
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeForbidden {
		t.Fatalf("got %v, want Forbidden", err)
	}
	if repo.insertCalls != 0 {
		t.Error("insert attempted despite permission denial")
	}
}

func TestCreate_AdminBypassesPermissionMap(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	scope := &security.AccessScope{UserID: "root", CompanyID: id.New(), Role: security.RoleAdmin}
	if _, err := svc.Create(context.Background(), validCreateInput(), scope); err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
}

func TestCreate_ValidationBeforePersist(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	input := validCreateInput()
	input.CustomerEmail = "not-an-email"

	_, err := svc.Create(context.Background(), input, fullScope(id.New()))
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	if repo.insertCalls != 0 {
		t.Error("insert attempted despite failed validation")
	}
}

func TestCreate_SeedsItemFromProduct(t *testing.T) {
	repo := newFakeRepo()
	audit := &fakeAudit{}
	productID := id.New()
	products := &fakeProducts{byID: map[id.ID]*ProductInfo{
		productID: {
			Name:        "Hydraulic press",
			Description: "40-ton hydraulic press",
			Price:       types.MustMoney("1200"),
			TaxPercent:  types.MustMoney("18"),
			Parameters:  []Parameter{{Title: "Dimensions", Specs: []Spec{{Label: "Height", Value: "2.1m"}}}},
		},
	}}
	svc := NewService(repo, NewLifecycle(), &fakeNumberer{}, fakeTxManager{}, nil, products, audit)

	input := validCreateInput()
	input.Items = []ItemInput{
		{ProductID: &productID, Quantity: types.MustMoney("1"), SeedFromProduct: true},
	}

	q, err := svc.Create(context.Background(), input, fullScope(id.New()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got := q.Items[0]
	if got.ProductName != "Hydraulic press" || got.Description != "40-ton hydraulic press" {
		t.Errorf("item not seeded from product: %+v", got)
	}
	if !got.Rate.Equal(types.MustMoney("1200")) || !got.TaxPercent.Equal(types.MustMoney("18")) {
		t.Errorf("rate/tax not seeded: %s / %s", got.Rate, got.TaxPercent)
	}
	if len(got.Parameters) != 1 || got.Parameters[0].Title != "Dimensions" {
		t.Errorf("parameters not copied: %+v", got.Parameters)
	}
}

func TestCreate_ResolvesCustomerSnapshot(t *testing.T) {
	repo := newFakeRepo()
	customerID := id.New()
	customers := &fakeCustomers{byID: map[id.ID]*CustomerInfo{
		customerID: {
			Name:        "Globex LLC",
			Email:       "orders@globex.test",
			Phone:       "+1 555 0100",
			Address:     "1 Factory Rd",
			CompanyName: "Globex",
		},
	}}
	svc := NewService(repo, NewLifecycle(), &fakeNumberer{}, fakeTxManager{}, customers, nil, nil)

	input := validCreateInput()
	input.CustomerID = &customerID
	input.CustomerName = ""
	input.CustomerEmail = ""

	q, err := svc.Create(context.Background(), input, fullScope(id.New()))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.CustomerName != "Globex LLC" || q.CustomerEmail != "orders@globex.test" {
		t.Errorf("snapshot not resolved: %s / %s", q.CustomerName, q.CustomerEmail)
	}
	if q.CustomerPhone != "+1 555 0100" {
		t.Errorf("phone not copied: %s", q.CustomerPhone)
	}
}

func TestGet_CrossTenantNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	companyA, companyB := id.New(), id.New()

	q, err := svc.Create(context.Background(), validCreateInput(), fullScope(companyA))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = svc.Get(context.Background(), q.ID, fullScope(companyB))
	if !apperror.IsNotFound(err) {
		t.Errorf("cross-tenant read: got %v, want NotFound", err)
	}
}

func TestUpdate_RecomputationIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	scope := fullScope(id.New())

	q, err := svc.Create(context.Background(), validCreateInput(), scope)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A no-op update re-runs the full recomputation; totals must not drift.
	updated, err := svc.Update(context.Background(), q.ID, UpdateInput{Version: q.Version}, scope)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !updated.Subtotal.Equal(q.Subtotal) || !updated.Tax.Equal(q.Tax) || !updated.Total.Equal(q.Total) {
		t.Errorf("totals drifted on no-op update: %s/%s/%s vs %s/%s/%s",
			q.Subtotal, q.Tax, q.Total, updated.Subtotal, updated.Tax, updated.Total)
	}
	if updated.Version != q.Version+1 {
		t.Errorf("version = %d, want %d", updated.Version, q.Version+1)
	}
	if len(updated.History) != len(q.History) {
		t.Errorf("plain update must not touch history")
	}
}

func TestUpdate_StaleVersionConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	scope := fullScope(id.New())

	q, err := svc.Create(context.Background(), validCreateInput(), scope)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Update(context.Background(), q.ID, UpdateInput{Version: q.Version}, scope); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	_, err = svc.Update(context.Background(), q.ID, UpdateInput{Version: q.Version}, scope)
	if !apperror.IsConcurrentModification(err) {
		t.Errorf("stale update: got %v, want ConcurrentModification", err)
	}
}

func TestUpdate_ReplacesItemsAndRecomputes(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	scope := fullScope(id.New())

	q, err := svc.Create(context.Background(), validCreateInput(), scope)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), q.ID, UpdateInput{
		Items: []ItemInput{
			{Description: "Single line", Quantity: types.MustMoney("4"), Rate: types.MustMoney("25"), TaxPercent: types.MustMoney("0")},
		},
	}, scope)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(updated.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(updated.Items))
	}
	if !updated.Total.Equal(types.MustMoney("100")) {
		t.Errorf("total = %s, want 100", updated.Total)
	}
}

func TestChangeStatus_PersistsAndAppendsHistory(t *testing.T) {
	repo := newFakeRepo()
	svc, audit := newTestService(repo)
	scope := fullScope(id.New())

	q, err := svc.Create(context.Background(), validCreateInput(), scope)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	moved, err := svc.ChangeStatus(context.Background(), q.ID, StatusComplete, scope, nil)
	if err != nil {
		t.Fatalf("ChangeStatus failed: %v", err)
	}

	if moved.Status != StatusComplete {
		t.Errorf("status = %s, want %s", moved.Status, StatusComplete)
	}
	if len(moved.History) != 2 {
		t.Errorf("history length = %d, want 2", len(moved.History))
	}

	stored, err := repo.GetActiveByID(context.Background(), scope.CompanyID, q.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.Status != StatusComplete {
		t.Errorf("persisted status = %s, want %s", stored.Status, StatusComplete)
	}

	last := audit.entries[len(audit.entries)-1]
	if last.action != "quotation.status" {
		t.Errorf("audit action = %s, want quotation.status", last.action)
	}
}

func TestChangeStatus_IllegalTransitionWritesNothing(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	scope := fullScope(id.New())

	q, err := svc.Create(context.Background(), validCreateInput(), scope)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), q.ID, StatusComplete, scope, nil); err != nil {
		t.Fatalf("setup transition failed: %v", err)
	}
	updatesBefore := repo.updateCalls

	_, err = svc.ChangeStatus(context.Background(), q.ID, StatusFailed, scope, nil)
	if !apperror.IsInvalidTransition(err) {
		t.Fatalf("complete → failed: got %v, want InvalidTransition", err)
	}
	if repo.updateCalls != updatesBefore {
		t.Error("repository write attempted for an illegal transition")
	}

	stored, _ := repo.GetActiveByID(context.Background(), scope.CompanyID, q.ID)
	if stored.Status != StatusComplete {
		t.Errorf("persisted status = %s, want unchanged complete", stored.Status)
	}
}

func TestDelete_MovesToRecycleBin(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	scope := fullScope(id.New())

	q, err := svc.Create(context.Background(), validCreateInput(), scope)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), q.ID, scope); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Gone from the active partition.
	if _, err := svc.Get(context.Background(), q.ID, scope); !apperror.IsNotFound(err) {
		t.Errorf("deleted quotation still readable: %v", err)
	}

	// Present in the deleted partition.
	deleted, err := repo.ListDeleted(context.Background(), scope.CompanyID)
	if err != nil || len(deleted) != 1 {
		t.Errorf("deleted partition = %v (%v), want one record", deleted, err)
	}
}

func TestDelete_RequiresDeletePermission(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)
	companyID := id.New()

	q, err := svc.Create(context.Background(), validCreateInput(), fullScope(companyID))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = svc.Delete(context.Background(), q.ID, memberScope(companyID, "read", "create", "update"))
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeForbidden {
		t.Errorf("got %v, want Forbidden", err)
	}
}
