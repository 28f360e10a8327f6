package movements

import (
	"context"
	"time"

	"logitrack/internal/domain/dashboard"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// EffectiveLimit applies the listing default and cap to a non-negative limit.
func EffectiveLimit(limit int) int {
	if limit == 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// ListFilter selects movement rows for the listing pages.
// Filter carries base, equipment type and date range; Status applies
// to transfers and assignments only.
type ListFilter struct {
	Filter dashboard.Filter
	Status string
	Limit  int
	Offset int
}

// Repository persists movements. Implementations receive filters that are already scoped.
type Repository interface {
	CreatePurchase(ctx context.Context, p *Purchase) error
	CreateTransfer(ctx context.Context, t *Transfer) error
	CreateAssignment(ctx context.Context, a *Assignment) error
	CreateExpenditure(ctx context.Context, e *Expenditure) error

	// List* return rows ordered by business date desc, id desc.
	// ListTransfers matches the base filter against either side of the transfer.
	ListPurchases(ctx context.Context, f ListFilter) ([]Purchase, error)
	ListTransfers(ctx context.Context, f ListFilter) ([]Transfer, error)
	ListAssignments(ctx context.Context, f ListFilter) ([]Assignment, error)
	ListExpenditures(ctx context.Context, f ListFilter) ([]Expenditure, error)

	// Get*ForUpdate lock the row until the surrounding transaction ends.
	GetTransferForUpdate(ctx context.Context, id int64) (*Transfer, error)
	GetAssignmentForUpdate(ctx context.Context, id int64) (*Assignment, error)

	UpdateTransferStatus(ctx context.Context, id int64, status TransferStatus, completedAt *time.Time) error
	UpdateAssignmentStatus(ctx context.Context, id int64, status AssignmentStatus, returnedOn *time.Time) error
}
