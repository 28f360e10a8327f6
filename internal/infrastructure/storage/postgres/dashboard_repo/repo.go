// Package dashboard_repo reads movement aggregates for the dashboard from PostgreSQL.
package dashboard_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"logitrack/internal/domain/dashboard"
	"logitrack/internal/infrastructure/storage/postgres"
)

// Compile-time check that DashboardRepo implements dashboard.Repository interface.
var _ dashboard.Repository = (*DashboardRepo)(nil)

// DashboardRepo implements dashboard.Repository with one query per source table.
type DashboardRepo struct {
	txManager *postgres.TxManager
}

// NewDashboardRepo creates a new dashboard repository.
func NewDashboardRepo(txManager *postgres.TxManager) *DashboardRepo {
	return &DashboardRepo{txManager: txManager}
}

// periodKinds are the sources that change stock.
var periodKinds = []dashboard.Kind{
	dashboard.KindPurchase,
	dashboard.KindTransferIn,
	dashboard.KindTransferOut,
	dashboard.KindExpenditure,
}

// SumMovements totals every stock-changing source inside the filter's range.
func (r *DashboardRepo) SumMovements(ctx context.Context, f dashboard.Filter) (dashboard.Totals, error) {
	return r.totals(ctx, func(s source) squirrel.SelectBuilder {
		return sumQuery(s, f)
	})
}

// SumBefore totals every stock-changing source before the given day.
func (r *DashboardRepo) SumBefore(ctx context.Context, f dashboard.Filter, before time.Time) (dashboard.Totals, error) {
	return r.totals(ctx, func(s source) squirrel.SelectBuilder {
		return sumBeforeQuery(s, f, before)
	})
}

func (r *DashboardRepo) totals(ctx context.Context, build func(source) squirrel.SelectBuilder) (dashboard.Totals, error) {
	var totals dashboard.Totals
	dest := map[dashboard.Kind]*int64{
		dashboard.KindPurchase:    &totals.Purchases,
		dashboard.KindTransferIn:  &totals.TransferIn,
		dashboard.KindTransferOut: &totals.TransferOut,
		dashboard.KindExpenditure: &totals.Expended,
	}

	for _, kind := range periodKinds {
		v, err := r.scalar(ctx, build(sources[kind]))
		if err != nil {
			return dashboard.Totals{}, fmt.Errorf("sum %s: %w", kind, err)
		}
		*dest[kind] = v
	}
	return totals, nil
}

// SumAssigned counts units held on active assignments.
func (r *DashboardRepo) SumAssigned(ctx context.Context, f dashboard.Filter) (int64, error) {
	v, err := r.scalar(ctx, assignedQuery(f))
	if err != nil {
		return 0, fmt.Errorf("sum assigned: %w", err)
	}
	return v, nil
}

// Recent returns the newest n records of one kind.
func (r *DashboardRepo) Recent(ctx context.Context, f dashboard.Filter, kind dashboard.Kind, n int) ([]dashboard.TransactionRecord, error) {
	s, err := sourceFor(kind)
	if err != nil {
		return nil, err
	}

	sql, args, err := recentQuery(s, f, n).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []dashboard.TransactionRecord
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("recent %s: %w", kind, err)
	}
	return records, nil
}

func (r *DashboardRepo) scalar(ctx context.Context, q squirrel.SelectBuilder) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var v int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}
