package quotation

import (
	"context"

	"quotedesk/internal/core/id"
)

// DefaultPageSize is applied when a list request omits pageSize.
const DefaultPageSize = 10

// ListFilter narrows and paginates the active quotation list.
type ListFilter struct {
	CompanyID id.ID

	// Search matches quotation number, customer name and customer email,
	// case-insensitive substring.
	Search string

	// Status filters by exact lifecycle state; empty or "all" disables the
	// filter.
	Status string

	Page     int
	PageSize int
}

// Normalize clamps pagination to sane values.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
}

// Offset returns the row offset for the normalized page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ListResult is one page of active quotations plus the unpaginated match count.
type ListResult struct {
	Items      []*Quotation `json:"items"`
	TotalCount int64        `json:"totalCount"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
}

// Repository is the persistence contract for quotations. Every method is
// company-scoped: records owned by another company behave as nonexistent.
type Repository interface {
	// Insert persists a new quotation. A quotation-number collision within
	// the company fails the whole operation with Conflict.
	Insert(ctx context.Context, q *Quotation) error

	// GetActiveByID returns a non-deleted quotation or NotFound.
	GetActiveByID(ctx context.Context, companyID, quotationID id.ID) (*Quotation, error)

	// GetDeletedByID returns a soft-deleted quotation or NotFound.
	GetDeletedByID(ctx context.Context, companyID, quotationID id.ID) (*Quotation, error)

	// ListActive returns a filtered, paginated page of non-deleted
	// quotations, newest first.
	ListActive(ctx context.Context, filter ListFilter) (ListResult, error)

	// ListDeleted returns all soft-deleted quotations, most recently
	// deleted first.
	ListDeleted(ctx context.Context, companyID id.ID) ([]*Quotation, error)

	// Update persists a modified quotation. The version check fails a stale
	// write with ConcurrentModification.
	Update(ctx context.Context, q *Quotation) error

	// SoftDelete moves an active quotation to the recycle bin.
	SoftDelete(ctx context.Context, companyID, quotationID id.ID, deletedBy string) error

	// Restore clears deleted_at. Restoring an already-active record is a
	// no-op success.
	Restore(ctx context.Context, companyID, quotationID id.ID) error

	// Purge permanently removes a soft-deleted quotation. A record that is
	// not in the recycle bin (or does not exist) yields NotFound.
	Purge(ctx context.Context, companyID, quotationID id.ID) error
}
