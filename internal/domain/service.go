// Package domain provides shared business logic types for catalog records.
package domain

import (
	"context"
	"fmt"

	"quotedesk/internal/core/apperror"
	"quotedesk/internal/core/entity"
	"quotedesk/internal/core/id"
	"quotedesk/internal/core/security"
	"quotedesk/internal/core/tx"
)

// CatalogService provides common business logic for catalog entities:
// validation, permission gating, hooks and transactional persistence.
type CatalogService[T entity.Validatable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages; resource for permission checks.
	entityName string
	resource   string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Validatable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
	Resource   string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Validatable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
		resource:   cfg.Resource,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, idOrCode any) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, idOrCode)
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewInternal(err).WithDetail("entity", s.entityName).WithDetail("id", idOrCode)
}

// Create creates a new catalog record.
func (s *CatalogService[T]) Create(ctx context.Context, record T, scope *security.AccessScope) error {
	if err := scope.RequirePermission(s.resource, security.PermissionCreate); err != nil {
		return err
	}

	if err := record.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeCreate, record); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, record); err != nil {
			return fmt.Errorf("create %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.Run(ctx, AfterCreate, record)
}

// GetByID retrieves a record visible to the scope.
func (s *CatalogService[T]) GetByID(ctx context.Context, recordID id.ID, scope *security.AccessScope) (T, error) {
	var zero T
	if err := scope.RequirePermission(s.resource, security.PermissionRead); err != nil {
		return zero, err
	}

	record, err := s.repo.GetByID(ctx, scope.CompanyID, recordID)
	if err != nil {
		return zero, s.normalizeGetErr(err, recordID.String())
	}
	return record, nil
}

// Update updates an existing record.
func (s *CatalogService[T]) Update(ctx context.Context, record T, scope *security.AccessScope) error {
	if err := scope.RequirePermission(s.resource, security.PermissionUpdate); err != nil {
		return err
	}

	if err := record.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	if err := s.hooks.Run(ctx, BeforeUpdate, record); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, record); err != nil {
			return fmt.Errorf("update %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.Run(ctx, AfterUpdate, record)
}

// Delete removes a record permanently.
func (s *CatalogService[T]) Delete(ctx context.Context, recordID id.ID, scope *security.AccessScope) error {
	if err := scope.RequirePermission(s.resource, security.PermissionDelete); err != nil {
		return err
	}

	record, err := s.repo.GetByID(ctx, scope.CompanyID, recordID)
	if err != nil {
		return s.normalizeGetErr(err, recordID.String())
	}

	if err := s.hooks.Run(ctx, BeforeDelete, record); err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, scope.CompanyID, recordID); err != nil {
			return fmt.Errorf("delete %s: %w", s.entityName, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.hooks.Run(ctx, AfterDelete, record)
}

// List retrieves records with filtering, scoped to the caller's company.
func (s *CatalogService[T]) List(ctx context.Context, f CatalogFilter, scope *security.AccessScope) (CatalogList[T], error) {
	if err := scope.RequirePermission(s.resource, security.PermissionRead); err != nil {
		return CatalogList[T]{}, err
	}

	f.CompanyID = scope.CompanyID
	f.Normalize()
	return s.repo.List(ctx, f)
}

// Exists checks if a record exists within the scope's company.
func (s *CatalogService[T]) Exists(ctx context.Context, recordID id.ID, scope *security.AccessScope) (bool, error) {
	return s.repo.Exists(ctx, scope.CompanyID, recordID)
}
