package movements

import (
	"context"
	"fmt"
	"time"

	"logitrack/internal/core/apperror"
	"logitrack/internal/core/security"
	"logitrack/internal/core/tx"
	"logitrack/internal/domain/audit"
	"logitrack/pkg/logger"
	"logitrack/pkg/numerator"
)

// TransferNumberPrefix prefixes transfer numbers (TR-2024-0001).
const TransferNumberPrefix = "TR"

// NumberGenerator issues sequential document numbers.
type NumberGenerator interface {
	GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error)
}

// Service records movements and drives transfer and assignment lifecycles.
// Balances are never stored: the dashboard recomputes them from these rows.
type Service struct {
	repo      Repository
	txManager tx.Manager
	audit     audit.Recorder
	numbers   NumberGenerator
	now       func() time.Time
}

// NewService creates a new movements service.
func NewService(repo Repository, txManager tx.Manager, recorder audit.Recorder, numbers NumberGenerator) *Service {
	if recorder == nil {
		recorder = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		txManager: txManager,
		audit:     recorder,
		numbers:   numbers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// --- Create ---

// CreatePurchase records stock bought for a base.
func (s *Service) CreatePurchase(ctx context.Context, p *Purchase) error {
	scope, err := security.Authorize(ctx, security.ActionPurchase)
	if err != nil {
		return err
	}
	if err := p.Validate(ctx); err != nil {
		return err
	}
	if err := scope.CanWriteBase(p.BaseID); err != nil {
		return err
	}
	p.CreatedBy = scope.UserID

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreatePurchase(ctx, p); err != nil {
			return apperror.Database(fmt.Errorf("create purchase: %w", err))
		}
		return s.logCreate(ctx, "purchase", p.ID, map[string]any{
			"base_id":           p.BaseID,
			"equipment_type_id": p.EquipmentTypeID,
			"quantity":          p.Quantity,
			"purchase_date":     p.PurchaseDate.Format(time.DateOnly),
			"total_cost":        p.TotalCost,
		})
	})
}

// CreateTransfer records a pending transfer and assigns its number.
// A commander must own one side of the transfer.
func (s *Service) CreateTransfer(ctx context.Context, t *Transfer) error {
	scope, err := security.Authorize(ctx, security.ActionTransfer)
	if err != nil {
		return err
	}
	if err := t.Validate(ctx); err != nil {
		return err
	}
	if err := scope.CanWriteEither(t.FromBaseID, t.ToBaseID); err != nil {
		return err
	}
	t.Status = TransferPending
	t.CompletedAt = nil
	t.CreatedBy = scope.UserID

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.GetNextNumber(ctx, numerator.DefaultConfig(TransferNumberPrefix), nil, s.now())
		if err != nil {
			return apperror.Database(fmt.Errorf("transfer number: %w", err))
		}
		t.TransferNumber = number

		if err := s.repo.CreateTransfer(ctx, t); err != nil {
			return apperror.Database(fmt.Errorf("create transfer: %w", err))
		}
		return s.logCreate(ctx, "transfer", t.ID, map[string]any{
			"transfer_number":   t.TransferNumber,
			"from_base_id":      t.FromBaseID,
			"to_base_id":        t.ToBaseID,
			"equipment_type_id": t.EquipmentTypeID,
			"quantity":          t.Quantity,
			"status":            t.Status,
		})
	})
}

// CreateAssignment records equipment handed to personnel.
func (s *Service) CreateAssignment(ctx context.Context, a *Assignment) error {
	scope, err := security.Authorize(ctx, security.ActionAssignment)
	if err != nil {
		return err
	}
	if err := a.Validate(ctx); err != nil {
		return err
	}
	if err := scope.CanWriteBase(a.BaseID); err != nil {
		return err
	}
	a.Status = AssignmentActive
	a.ActualReturnDate = nil
	a.CreatedBy = scope.UserID

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateAssignment(ctx, a); err != nil {
			return apperror.Database(fmt.Errorf("create assignment: %w", err))
		}
		return s.logCreate(ctx, "assignment", a.ID, map[string]any{
			"base_id":           a.BaseID,
			"equipment_type_id": a.EquipmentTypeID,
			"personnel_name":    a.PersonnelName,
			"quantity":          a.Units(),
		})
	})
}

// CreateExpenditure records consumed or destroyed stock.
// AuthorizedBy defaults to the caller.
func (s *Service) CreateExpenditure(ctx context.Context, e *Expenditure) error {
	scope, err := security.Authorize(ctx, security.ActionExpenditure)
	if err != nil {
		return err
	}
	if err := e.Validate(ctx); err != nil {
		return err
	}
	if err := scope.CanWriteBase(e.BaseID); err != nil {
		return err
	}
	if e.AuthorizedBy == nil || *e.AuthorizedBy == "" {
		by := scope.UserID
		e.AuthorizedBy = &by
	}
	e.CreatedBy = scope.UserID

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateExpenditure(ctx, e); err != nil {
			return apperror.Database(fmt.Errorf("create expenditure: %w", err))
		}
		return s.logCreate(ctx, "expenditure", e.ID, map[string]any{
			"base_id":           e.BaseID,
			"equipment_type_id": e.EquipmentTypeID,
			"quantity":          e.Quantity,
			"reason":            e.Reason,
		})
	})
}

func (s *Service) logCreate(ctx context.Context, entity string, id int64, changes map[string]any) error {
	if err := s.audit.LogChange(ctx, entity, id, audit.ActionCreate, changes); err != nil {
		return apperror.Database(fmt.Errorf("audit %s: %w", entity, err))
	}
	return nil
}

// --- Status transitions ---

// UpdateTransferStatus moves a transfer along its lifecycle.
// Entering completed stamps completed_at; from then on the transfer counts toward balances.
func (s *Service) UpdateTransferStatus(ctx context.Context, id int64, status TransferStatus) (*Transfer, error) {
	scope, err := security.Authorize(ctx, security.ActionTransferStatus)
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, apperror.NewInvalidField("status", string(status), "unknown transfer status")
	}

	var updated *Transfer
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := s.repo.GetTransferForUpdate(ctx, id)
		if err != nil {
			return s.lookupErr(err, "transfer", id)
		}
		if err := scope.CanWriteEither(t.FromBaseID, t.ToBaseID); err != nil {
			return err
		}
		if !t.Status.CanTransitionTo(status) {
			return apperror.NewInvalidTransition("transfer", string(t.Status), string(status))
		}

		var completedAt *time.Time
		if status == TransferCompleted {
			now := s.now()
			completedAt = &now
		}
		if err := s.repo.UpdateTransferStatus(ctx, id, status, completedAt); err != nil {
			return apperror.Database(fmt.Errorf("update transfer status: %w", err))
		}
		if err := s.audit.LogChange(ctx, "transfer", id, audit.ActionStatusChange, audit.StatusChange(string(t.Status), string(status))); err != nil {
			return apperror.Database(fmt.Errorf("audit transfer: %w", err))
		}

		logger.Info(ctx, "transfer status changed", "transfer_id", id, "from", t.Status, "to", status)
		t.Status = status
		t.CompletedAt = completedAt
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateAssignmentStatus moves an assignment along its lifecycle.
// Entering returned stamps actual_return_date with returnedOn, or today.
func (s *Service) UpdateAssignmentStatus(ctx context.Context, id int64, status AssignmentStatus, returnedOn *time.Time) (*Assignment, error) {
	scope, err := security.Authorize(ctx, security.ActionAssignmentStatus)
	if err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, apperror.NewInvalidField("status", string(status), "unknown assignment status")
	}

	var updated *Assignment
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAssignmentForUpdate(ctx, id)
		if err != nil {
			return s.lookupErr(err, "assignment", id)
		}
		if err := scope.CanWriteBase(a.BaseID); err != nil {
			return err
		}
		if !a.Status.CanTransitionTo(status) {
			return apperror.NewInvalidTransition("assignment", string(a.Status), string(status))
		}

		var returned *time.Time
		if status == AssignmentReturned {
			day := s.now()
			if returnedOn != nil {
				day = *returnedOn
			}
			day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
			if day.Before(a.AssignmentDate) {
				return apperror.NewInvalidField("returnDate", day.Format(time.DateOnly), "return date precedes assignment date")
			}
			returned = &day
		}
		if err := s.repo.UpdateAssignmentStatus(ctx, id, status, returned); err != nil {
			return apperror.Database(fmt.Errorf("update assignment status: %w", err))
		}
		if err := s.audit.LogChange(ctx, "assignment", id, audit.ActionStatusChange, audit.StatusChange(string(a.Status), string(status))); err != nil {
			return apperror.Database(fmt.Errorf("audit assignment: %w", err))
		}

		logger.Info(ctx, "assignment status changed", "assignment_id", id, "from", a.Status, "to", status)
		a.Status = status
		if returned != nil {
			a.ActualReturnDate = returned
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) lookupErr(err error, entity string, id int64) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(entity, id)
	}
	return apperror.Database(fmt.Errorf("get %s: %w", entity, err))
}

// --- Listings ---

// ListPurchases lists purchases visible to the caller.
func (s *Service) ListPurchases(ctx context.Context, f ListFilter) ([]Purchase, error) {
	f, err := s.prepareList(ctx, f, nil)
	if err != nil {
		return nil, err
	}
	var items []Purchase
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var listErr error
		items, listErr = s.repo.ListPurchases(ctx, f)
		return listErr
	})
	return items, apperror.Database(err)
}

// ListTransfers lists transfers where either side is the resolved base.
func (s *Service) ListTransfers(ctx context.Context, f ListFilter) ([]Transfer, error) {
	f, err := s.prepareList(ctx, f, func(v string) bool { return TransferStatus(v).IsValid() })
	if err != nil {
		return nil, err
	}
	var items []Transfer
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var listErr error
		items, listErr = s.repo.ListTransfers(ctx, f)
		return listErr
	})
	return items, apperror.Database(err)
}

// ListAssignments lists assignments. Dates are ignored: assignments are a current-holdings view.
func (s *Service) ListAssignments(ctx context.Context, f ListFilter) ([]Assignment, error) {
	f, err := s.prepareList(ctx, f, func(v string) bool { return AssignmentStatus(v).IsValid() })
	if err != nil {
		return nil, err
	}
	f.Filter = f.Filter.WithStartDate(time.Time{}).WithEndDate(time.Time{})

	var items []Assignment
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var listErr error
		items, listErr = s.repo.ListAssignments(ctx, f)
		return listErr
	})
	return items, apperror.Database(err)
}

// ListExpenditures lists expenditures visible to the caller.
func (s *Service) ListExpenditures(ctx context.Context, f ListFilter) ([]Expenditure, error) {
	f, err := s.prepareList(ctx, f, nil)
	if err != nil {
		return nil, err
	}
	var items []Expenditure
	err = s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		var listErr error
		items, listErr = s.repo.ListExpenditures(ctx, f)
		return listErr
	})
	return items, apperror.Database(err)
}

// prepareList resolves the base scope and validates status and paging.
// validStatus is nil for movements without a lifecycle.
func (s *Service) prepareList(ctx context.Context, f ListFilter, validStatus func(string) bool) (ListFilter, error) {
	base, err := security.GetScope(ctx).ResolveBase(f.Filter.BasePtr())
	if err != nil {
		return ListFilter{}, err
	}
	f.Filter = f.Filter.WithBasePtr(base)

	if f.Status != "" {
		if validStatus == nil || !validStatus(f.Status) {
			return ListFilter{}, apperror.NewInvalidField("status", f.Status, "unknown status")
		}
	}

	if f.Limit < 0 {
		return ListFilter{}, apperror.NewInvalidField("limit", f.Limit, "limit must not be negative")
	}
	if f.Offset < 0 {
		return ListFilter{}, apperror.NewInvalidField("offset", f.Offset, "offset must not be negative")
	}
	f.Limit = EffectiveLimit(f.Limit)
	return f, nil
}
