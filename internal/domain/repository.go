// Package domain provides shared business logic types for catalog records.
package domain

import (
	"context"

	"quotedesk/internal/core/entity"
	"quotedesk/internal/core/id"
	"quotedesk/internal/domain/filter"
)

// --- Filter & Pagination ---

// CatalogFilter contains common filtering options for catalog lists.
// Every list is company-scoped; CompanyID is set by the service from the
// caller's access scope, never from user input.
type CatalogFilter struct {
	CompanyID id.ID

	// Search performs a case-insensitive substring match on the catalog's
	// searchable fields.
	Search string

	// AdvancedFilters holds caller-built conditions (field/operator/value).
	AdvancedFilters []filter.Item

	// OrderBy specifies sorting (e.g., "name", "created_at DESC").
	OrderBy string

	Page     int
	PageSize int
}

// DefaultCatalogPageSize is applied when a list request omits pageSize.
const DefaultCatalogPageSize = 50

// Normalize clamps pagination to sane values.
func (f *CatalogFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultCatalogPageSize
	}
}

// Offset returns the row offset for the normalized page.
func (f CatalogFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// CatalogList contains one page of results plus the unpaginated match count.
type CatalogList[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

// --- Repository Interfaces ---

// CatalogRepository defines CRUD operations for catalog entities.
// All lookups are company-scoped: a record owned by another company behaves
// as nonexistent.
type CatalogRepository[T entity.Validatable] interface {
	// Create inserts a new record.
	Create(ctx context.Context, record T) error

	// GetByID retrieves a record by id or NotFound.
	GetByID(ctx context.Context, companyID, recordID id.ID) (T, error)

	// Update modifies an existing record (with optimistic locking).
	Update(ctx context.Context, record T) error

	// Delete removes the record permanently. Catalog records have no
	// recycle bin; only quotations do.
	Delete(ctx context.Context, companyID, recordID id.ID) error

	// List retrieves records with filtering and pagination.
	List(ctx context.Context, f CatalogFilter) (CatalogList[T], error)

	// Exists checks if a record with the given id exists in the company.
	Exists(ctx context.Context, companyID, recordID id.ID) (bool, error)
}

// --- Hooks ---

// HookEvent represents a lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at a specific lifecycle point.
type Hook[T any] func(ctx context.Context, record T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, record T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}
