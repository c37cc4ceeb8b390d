// Package quotation_repo provides the PostgreSQL implementation of the
// quotation repository. Line items and the status history are stored as
// JSONB columns, so every write is a single-document operation and history
// appends can never land without their quotation.
package quotation_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/id"
	"quotedesk/internal/domain/quotation"
	"quotedesk/internal/infrastructure/storage/postgres"
)

const quotationsTable = "doc_quotations"

// Compile-time check that QuotationRepo implements quotation.Repository.
var _ quotation.Repository = (*QuotationRepo)(nil)

// QuotationRepo implements quotation.Repository.
type QuotationRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

// NewQuotationRepo creates a new quotation repository.
func NewQuotationRepo(txManager *postgres.TxManager) *QuotationRepo {
	return &QuotationRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[quotation.Quotation](),
	}
}

func (r *QuotationRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// searchCondition matches a case-insensitive substring against the
// quotation number, customer name and customer email.
func searchCondition(search string) squirrel.Or {
	pattern := "%" + search + "%"
	return squirrel.Or{
		squirrel.ILike{"number": pattern},
		squirrel.ILike{"customer_name": pattern},
		squirrel.ILike{"customer_email": pattern},
	}
}

func (r *QuotationRepo) baseSelect(companyID id.ID) squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(quotationsTable).
		Where(squirrel.Eq{"company_id": companyID})
}

// Insert persists a new quotation. The (company_id, number) unique index
// turns a number collision into Conflict and the whole insert fails.
func (r *QuotationRepo) Insert(ctx context.Context, q *quotation.Quotation) error {
	data := postgres.StructToMap(q)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	query := r.builder().
		Insert(quotationsTable).
		SetMap(filteredData)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicate("quotation", "number", q.Number).WithCause(err)
		}
		return fmt.Errorf("insert quotation: %w", err)
	}

	return nil
}

// GetActiveByID returns a non-deleted quotation or NotFound. A record owned
// by another company is indistinguishable from a missing one.
func (r *QuotationRepo) GetActiveByID(ctx context.Context, companyID, quotationID id.ID) (*quotation.Quotation, error) {
	return r.getByID(ctx, companyID, quotationID, false)
}

// GetDeletedByID returns a soft-deleted quotation or NotFound.
func (r *QuotationRepo) GetDeletedByID(ctx context.Context, companyID, quotationID id.ID) (*quotation.Quotation, error) {
	return r.getByID(ctx, companyID, quotationID, true)
}

func (r *QuotationRepo) getByID(ctx context.Context, companyID, quotationID id.ID, deleted bool) (*quotation.Quotation, error) {
	q := r.baseSelect(companyID).
		Where(squirrel.Eq{"id": quotationID}).
		Limit(1)
	if deleted {
		q = q.Where("deleted_at IS NOT NULL")
	} else {
		q = q.Where("deleted_at IS NULL")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var record quotation.Quotation
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("quotation", quotationID.String())
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}

	return &record, nil
}

// ListActive returns a filtered, paginated page of non-deleted quotations,
// newest first, plus the unpaginated match count.
func (r *QuotationRepo) ListActive(ctx context.Context, f quotation.ListFilter) (quotation.ListResult, error) {
	f.Normalize()
	result := quotation.ListResult{
		Page:     f.Page,
		PageSize: f.PageSize,
	}

	q := r.baseSelect(f.CompanyID).
		Where("deleted_at IS NULL")

	if f.Search != "" {
		q = q.Where(searchCondition(f.Search))
	}

	if f.Status != "" && f.Status != "all" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC").
		Limit(uint64(f.PageSize)).
		Offset(uint64(f.Offset()))

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select: %w", err)
	}

	return result, nil
}

// ListDeleted returns all soft-deleted quotations, most recently deleted
// first.
func (r *QuotationRepo) ListDeleted(ctx context.Context, companyID id.ID) ([]*quotation.Quotation, error) {
	q := r.baseSelect(companyID).
		Where("deleted_at IS NOT NULL").
		OrderBy("deleted_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*quotation.Quotation
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select deleted: %w", err)
	}

	return items, nil
}

// Update persists a modified quotation with optimistic locking: the WHERE
// pins the version read by the caller, so a stale write affects zero rows
// and fails with ConcurrentModification.
func (r *QuotationRepo) Update(ctx context.Context, q *quotation.Quotation) error {
	data := postgres.StructToMap(q)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		switch col {
		case "id", "company_id", "version", "created_at", "created_by", "deleted_at":
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	// The service bumped Version in memory; the row must still hold the
	// previous value.
	expectedVersion := q.Version - 1

	query := r.builder().
		Update(quotationsTable).
		SetMap(filteredData).
		Set("version", q.Version).
		Where(squirrel.Eq{"id": q.ID}).
		Where(squirrel.Eq{"company_id": q.CompanyID}).
		Where(squirrel.Eq{"version": expectedVersion}).
		Where("deleted_at IS NULL")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("quotation", q.ID.String())
	}

	return nil
}

// SoftDelete moves an active quotation to the recycle bin.
func (r *QuotationRepo) SoftDelete(ctx context.Context, companyID, quotationID id.ID, deletedBy string) error {
	query := r.builder().
		Update(quotationsTable).
		Set("deleted_at", time.Now().UTC()).
		Set("updated_at", time.Now().UTC()).
		Set("updated_by", deletedBy).
		Where(squirrel.Eq{"id": quotationID}).
		Where(squirrel.Eq{"company_id": companyID}).
		Where("deleted_at IS NULL")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("soft delete quotation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("quotation", quotationID.String())
	}

	return nil
}

// Restore clears deleted_at. The WHERE does not require the record to be
// deleted, so restoring an already-active quotation matches one row and
// succeeds without effect; only a genuinely missing record is NotFound.
func (r *QuotationRepo) Restore(ctx context.Context, companyID, quotationID id.ID) error {
	query := r.builder().
		Update(quotationsTable).
		Set("deleted_at", nil).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": quotationID}).
		Where(squirrel.Eq{"company_id": companyID})

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build restore: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("restore quotation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("quotation", quotationID.String())
	}

	return nil
}

// Purge permanently removes a soft-deleted quotation. The deleted_at guard
// keeps purge away from the active partition: an active record is NotFound
// here, exactly like a missing one.
func (r *QuotationRepo) Purge(ctx context.Context, companyID, quotationID id.ID) error {
	query := r.builder().
		Delete(quotationsTable).
		Where(squirrel.Eq{"id": quotationID}).
		Where(squirrel.Eq{"company_id": companyID}).
		Where("deleted_at IS NOT NULL")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build purge: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("purge quotation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("quotation", quotationID.String())
	}

	return nil
}
