// Package numerator provides quotation auto-numbering.
// Numbers are monotonic and unique within a company: the counter row is
// bumped with a single INSERT ... ON CONFLICT ... RETURNING, so the first
// allocation creates the row, no number is ever issued twice and gaps only
// appear when an enclosing transaction rolls back.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"quotedesk/internal/core/id"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service provides document numbering functionality.
type Service struct {
	querier Querier
}

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "QT")
	Prefix string

	// IncludeYear adds the year to the number and resets the counter yearly
	IncludeYear bool

	// PadWidth is the minimum counter width (default 5)
	PadWidth int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
	}
}

const nextValSQL = `
INSERT INTO sys_sequences (key, current_val)
VALUES ($1, 1)
ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
RETURNING current_val`

// NextNumber generates the next document number for a company.
// Pattern: PREFIX-YEAR-XXXXX (e.g., QT-2026-00042).
// The counter key is scoped by company so numbering restarts per tenant.
func (s *Service) NextNumber(ctx context.Context, cfg Config, companyID id.ID, period time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if cfg.PadWidth <= 0 {
		cfg.PadWidth = 5
	}

	year := period.UTC().Year()
	key := fmt.Sprintf("%s_%s", cfg.Prefix, companyID)
	if cfg.IncludeYear {
		key = fmt.Sprintf("%s_%d", key, year)
	}

	var current int64
	if err := s.querier.QueryRow(ctx, nextValSQL, key).Scan(&current); err != nil {
		return "", fmt.Errorf("next sequence value for %s: %w", key, err)
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, year, cfg.PadWidth, current), nil
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, cfg.PadWidth, current), nil
}
