package domain

import (
	"context"
	"fmt"

	"logitrack/internal/core/apperror"
	"logitrack/internal/core/security"
	"logitrack/internal/core/tx"
	"logitrack/internal/domain/audit"
	"logitrack/pkg/logger"
)

// CatalogService provides business logic for reference catalogs (bases, equipment types).
// Reads are open to every role; creation is gated by CreateAction.
type CatalogService[T Entity] struct {
	repo         CatalogRepository[T]
	txManager    tx.Manager
	audit        audit.Recorder
	hooks        *HookRegistry[T]
	createAction security.Action

	// entityName for error messages and audit entries
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T Entity] struct {
	Repo         CatalogRepository[T]
	TxManager    tx.Manager
	Audit        audit.Recorder
	CreateAction security.Action
	EntityName   string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T Entity](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	recorder := cfg.Audit
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &CatalogService[T]{
		repo:         cfg.Repo,
		txManager:    cfg.TxManager,
		audit:        recorder,
		hooks:        NewHookRegistry[T](),
		createAction: cfg.CreateAction,
		entityName:   cfg.EntityName,
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

// Create validates and inserts a catalog entity, writing an audit entry in the same transaction.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	// 1. Check role
	if _, err := security.Authorize(ctx, s.createAction); err != nil {
		return err
	}

	// 2. Validate entity invariants
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	// 3. Run before-create hooks
	if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
		return err
	}

	// 4. Create in transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsByName(ctx, entity.GetName())
		if err != nil {
			return apperror.Database(fmt.Errorf("check %s name: %w", s.entityName, err))
		}
		if exists {
			return apperror.NewDuplicate(s.entityName, "name", entity.GetName())
		}

		if err := s.repo.Create(ctx, entity); err != nil {
			return apperror.Database(fmt.Errorf("create %s: %w", s.entityName, err))
		}

		if err := s.audit.LogChange(ctx, s.entityName, entity.GetID(), audit.ActionCreate, entity.AuditFields()); err != nil {
			return apperror.Database(fmt.Errorf("audit %s: %w", s.entityName, err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 5. Run after-create hooks (outside transaction)
	if err := s.hooks.Run(ctx, AfterCreate, entity); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}

	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, id int64) (T, error) {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return entity, apperror.NewNotFound(s.entityName, id)
		}
		return entity, apperror.Database(err)
	}
	return entity, nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) ([]T, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperror.NewValidation("limit and offset must not be negative")
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Database(err)
	}
	return items, nil
}
