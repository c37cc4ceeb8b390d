// Package recyclebin manages soft-deleted quotations: listing, restore,
// permanent purge and best-effort bulk purge.
package recyclebin

import (
	"context"
	"fmt"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/security"
	"quotedesk/internal/core/tx"
	"quotedesk/internal/domain/quotation"
	"quotedesk/pkg/logger"
)

// BatchFailure is one item that could not be purged in a bulk operation.
type BatchFailure struct {
	ID     id.ID  `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult reports the per-item outcome of PurgeAll. The operation is best
// effort: a failing item never aborts the remaining ones.
type BatchResult struct {
	Succeeded []id.ID        `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// Summary renders the outcome as a human-readable count,
// e.g. "8 of 10 deleted; 2 failed".
func (r BatchResult) Summary() string {
	total := len(r.Succeeded) + len(r.Failed)
	if len(r.Failed) == 0 {
		return fmt.Sprintf("%d of %d deleted", len(r.Succeeded), total)
	}
	return fmt.Sprintf("%d of %d deleted; %d failed", len(r.Succeeded), total, len(r.Failed))
}

// Service exposes the recycle bin workflows over the quotation repository.
type Service struct {
	repo      quotation.Repository
	txManager tx.Manager
	audit     quotation.AuditRecorder
}

// NewService creates the recycle bin service. audit may be nil.
func NewService(repo quotation.Repository, txManager tx.Manager, audit quotation.AuditRecorder) *Service {
	return &Service{repo: repo, txManager: txManager, audit: audit}
}

// List returns the soft-deleted quotations visible to the scope.
func (s *Service) List(ctx context.Context, scope *security.AccessScope) ([]*quotation.Quotation, error) {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionRead); err != nil {
		return nil, err
	}
	return s.repo.ListDeleted(ctx, scope.CompanyID)
}

// Restore returns a quotation from the recycle bin to the active list.
// Restoring an already-active quotation succeeds without effect, so retried
// restores stay safe.
func (s *Service) Restore(ctx context.Context, quotationID id.ID, scope *security.AccessScope) error {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionUpdate); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Restore(ctx, scope.CompanyID, quotationID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, scope, "quotation.restore", quotationID)

	logger.Info(ctx, "quotation restored", "quotation_id", quotationID)
	return nil
}

// Purge permanently removes a soft-deleted quotation. A quotation that is
// still active yields NotInRecycleBin; one unknown to this company yields
// NotFound. Purge never touches the active partition.
func (s *Service) Purge(ctx context.Context, quotationID id.ID, scope *security.AccessScope) error {
	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionDelete); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetDeletedByID(ctx, scope.CompanyID, quotationID); err != nil {
			if apperror.IsNotFound(err) {
				// Distinguish "still active" from "does not exist": the
				// caller can already see active records of their company.
				if _, activeErr := s.repo.GetActiveByID(ctx, scope.CompanyID, quotationID); activeErr == nil {
					return apperror.NewNotDeleted("quotation", quotationID)
				}
			}
			return err
		}
		return s.repo.Purge(ctx, scope.CompanyID, quotationID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, scope, "quotation.purge", quotationID)

	logger.Info(ctx, "quotation purged", "quotation_id", quotationID)
	return nil
}

// PurgeAll empties the recycle bin item by item and reports per-item
// outcomes. Failures are collected, not propagated: one broken record must
// not leave the rest of the bin stuck.
func (s *Service) PurgeAll(ctx context.Context, scope *security.AccessScope) (BatchResult, error) {
	result := BatchResult{}

	if err := scope.RequirePermission(security.ResourceQuotation, security.PermissionDelete); err != nil {
		return result, err
	}

	deleted, err := s.repo.ListDeleted(ctx, scope.CompanyID)
	if err != nil {
		return result, err
	}

	for _, q := range deleted {
		purgeErr := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			return s.repo.Purge(ctx, scope.CompanyID, q.ID)
		})
		if purgeErr != nil {
			result.Failed = append(result.Failed, BatchFailure{ID: q.ID, Reason: purgeErr.Error()})
			logger.Warn(ctx, "purge failed", "quotation_id", q.ID, "error", purgeErr)
			continue
		}
		result.Succeeded = append(result.Succeeded, q.ID)
		s.recordAudit(ctx, scope, "quotation.purge", q.ID)
	}

	logger.Info(ctx, "recycle bin emptied",
		"succeeded", len(result.Succeeded), "failed", len(result.Failed))
	return result, nil
}

func (s *Service) recordAudit(ctx context.Context, scope *security.AccessScope, action string, quotationID id.ID) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, scope.CompanyID, scope.UserID, action, quotationID, nil); err != nil {
		logger.Warn(ctx, "audit record failed", "action", action, "quotation_id", quotationID, "error", err)
	}
}
