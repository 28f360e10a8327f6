package dashboard

import (
	"context"
	"time"
)

// Repository reads movement aggregates. Implementations must not apply
// access rules: the filter they receive is already scoped.
type Repository interface {
	// SumMovements totals purchases, completed transfers and expenditures
	// inside the filter's inclusive date range.
	SumMovements(ctx context.Context, f Filter) (Totals, error)

	// SumBefore totals the same movements dated strictly before the given day,
	// ignoring the filter's own date range.
	SumBefore(ctx context.Context, f Filter, before time.Time) (Totals, error)

	// SumAssigned counts units held by personnel on active assignments.
	// Dates are ignored: this is a point-in-time figure.
	SumAssigned(ctx context.Context, f Filter) (int64, error)

	// Recent returns up to n records of one kind, newest first (date desc, id desc).
	// KindTransfer rows match the base on either end, carry both ends and
	// are not filtered by status.
	Recent(ctx context.Context, f Filter, kind Kind, n int) ([]TransactionRecord, error)
}
