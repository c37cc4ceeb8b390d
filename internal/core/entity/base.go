// Package entity provides base types shared by all persisted records.
package entity

import (
	"context"
	"time"

	"quotedesk/internal/core/id"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseRecord contains common fields for all company-scoped records.
type BaseRecord struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// CompanyID is the owning company. Every query is scoped by it.
	CompanyID id.ID `db:"company_id" json:"companyId"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`

	// DeletedAt marks the record as soft-deleted ("in the recycle bin").
	// nil means active. Soft-deleted records never appear in normal queries.
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`

	// Audit fields
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseRecord creates a BaseRecord with generated ID and timestamps.
func NewBaseRecord(companyID id.ID) BaseRecord {
	now := time.Now().UTC()
	return BaseRecord{
		ID:        id.New(),
		CompanyID: companyID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp and increments version.
func (b *BaseRecord) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.Version++
}

// IsDeleted reports whether the record is in the recycle bin.
func (b *BaseRecord) IsDeleted() bool {
	return b.DeletedAt != nil
}

// MarkDeleted places the record in the recycle bin.
func (b *BaseRecord) MarkDeleted(at time.Time) {
	t := at.UTC()
	b.DeletedAt = &t
}

// ClearDeleted restores the record from the recycle bin.
// Clearing an already-active record is a no-op.
func (b *BaseRecord) ClearDeleted() {
	b.DeletedAt = nil
}
