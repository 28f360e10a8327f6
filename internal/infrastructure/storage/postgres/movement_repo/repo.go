// Package movement_repo stores purchases, transfers, assignments and expenditures in PostgreSQL.
package movement_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"logitrack/internal/core/apperror"
	"logitrack/internal/domain/movements"
	"logitrack/internal/infrastructure/storage/postgres"
)

// Compile-time check that MovementRepo implements movements.Repository interface.
var _ movements.Repository = (*MovementRepo)(nil)

// PostgreSQL error codes mapped to client errors.
const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgUniqueViolation     = "23505"
)

// MovementRepo implements movements.Repository.
type MovementRepo struct {
	txManager *postgres.TxManager
}

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{txManager: txManager}
}

// --- Create ---

func (r *MovementRepo) CreatePurchase(ctx context.Context, p *movements.Purchase) error {
	return r.insert(ctx, "purchases", postgres.InsertMap(p, purchaseInsertCols), p)
}

func (r *MovementRepo) CreateTransfer(ctx context.Context, t *movements.Transfer) error {
	return r.insert(ctx, "transfers", postgres.InsertMap(t, transferInsertCols), t)
}

func (r *MovementRepo) CreateAssignment(ctx context.Context, a *movements.Assignment) error {
	return r.insert(ctx, "assignments", postgres.InsertMap(a, assignmentInsertCols), a)
}

func (r *MovementRepo) CreateExpenditure(ctx context.Context, e *movements.Expenditure) error {
	return r.insert(ctx, "expenditures", postgres.InsertMap(e, expenditureInsertCols), e)
}

// insertQuery builds an INSERT returning the generated columns.
func insertQuery(tableName string, data map[string]any) squirrel.InsertBuilder {
	return builder().
		Insert(tableName).
		SetMap(data).
		Suffix("RETURNING id, created_at")
}

func (r *MovementRepo) insert(ctx context.Context, tableName string, data map[string]any, dest any) error {
	sql, args, err := insertQuery(tableName, data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), dest, sql, args...); err != nil {
		return mapPgError(tableName, err)
	}
	return nil
}

// mapPgError turns constraint violations into client errors.
func mapPgError(tableName string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return apperror.NewValidation("referenced base or equipment type does not exist").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgCheckViolation:
			return apperror.NewValidation("row violates a table constraint").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgUniqueViolation:
			return apperror.NewConflict(tableName + " row already exists").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	return fmt.Errorf("insert %s: %w", tableName, err)
}

// --- Listings ---

func (r *MovementRepo) ListPurchases(ctx context.Context, f movements.ListFilter) ([]movements.Purchase, error) {
	items := make([]movements.Purchase, 0)
	return items, r.list(ctx, "purchases", singleBaseList(purchases, f), &items)
}

func (r *MovementRepo) ListTransfers(ctx context.Context, f movements.ListFilter) ([]movements.Transfer, error) {
	items := make([]movements.Transfer, 0)
	return items, r.list(ctx, "transfers", transferList(f), &items)
}

func (r *MovementRepo) ListAssignments(ctx context.Context, f movements.ListFilter) ([]movements.Assignment, error) {
	items := make([]movements.Assignment, 0)
	return items, r.list(ctx, "assignments", singleBaseList(assignments, f), &items)
}

func (r *MovementRepo) ListExpenditures(ctx context.Context, f movements.ListFilter) ([]movements.Expenditure, error) {
	items := make([]movements.Expenditure, 0)
	return items, r.list(ctx, "expenditures", singleBaseList(expenditures, f), &items)
}

func (r *MovementRepo) list(ctx context.Context, name string, q squirrel.SelectBuilder, dest any) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), dest, sql, args...); err != nil {
		return fmt.Errorf("list %s: %w", name, err)
	}
	return nil
}

// --- Status updates ---

func (r *MovementRepo) GetTransferForUpdate(ctx context.Context, id int64) (*movements.Transfer, error) {
	t := &movements.Transfer{}
	return t, r.getForUpdate(ctx, transfers, id, t)
}

func (r *MovementRepo) GetAssignmentForUpdate(ctx context.Context, id int64) (*movements.Assignment, error) {
	a := &movements.Assignment{}
	return a, r.getForUpdate(ctx, assignments, id, a)
}

func (r *MovementRepo) getForUpdate(ctx context.Context, t table, id int64, dest any) error {
	sql, args, err := forUpdate(t, id).ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), dest, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return apperror.NewNotFound(t.name, id)
		}
		return fmt.Errorf("get %s: %w", t.name, err)
	}
	return nil
}

func (r *MovementRepo) UpdateTransferStatus(ctx context.Context, id int64, status movements.TransferStatus, completedAt *time.Time) error {
	q := builder().
		Update("transfers").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id})
	if completedAt != nil {
		q = q.Set("completed_at", *completedAt)
	}
	return r.exec(ctx, "transfers", id, q)
}

func (r *MovementRepo) UpdateAssignmentStatus(ctx context.Context, id int64, status movements.AssignmentStatus, returnedOn *time.Time) error {
	q := builder().
		Update("assignments").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id})
	if returnedOn != nil {
		q = q.Set("actual_return_date", *returnedOn)
	}
	return r.exec(ctx, "assignments", id, q)
}

func (r *MovementRepo) exec(ctx context.Context, name string, id int64, q squirrel.UpdateBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	tag, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound(name, id)
	}
	return nil
}
