package dashboard_repo

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"logitrack/internal/domain/dashboard"
)

const statusCompleted = "completed"

// source describes how one movement kind is read from its table.
type source struct {
	kind          dashboard.Kind
	table         string
	alias         string
	dateCol       string
	baseCol       string
	fromCol       string // set when a row belongs to two bases
	completedOnly bool
	quantity      string
	status        string
}

func (s source) col(name string) string {
	return s.alias + "." + name
}

var sources = map[dashboard.Kind]source{
	dashboard.KindPurchase: {
		kind: dashboard.KindPurchase, table: "purchases", alias: "p",
		dateCol: "purchase_date", baseCol: "base_id",
		quantity: "p.quantity", status: "'completed'",
	},
	dashboard.KindTransferIn: {
		kind: dashboard.KindTransferIn, table: "transfers", alias: "t",
		dateCol: "transfer_date", baseCol: "to_base_id", completedOnly: true,
		quantity: "t.quantity", status: "t.status",
	},
	dashboard.KindTransferOut: {
		kind: dashboard.KindTransferOut, table: "transfers", alias: "t",
		dateCol: "transfer_date", baseCol: "from_base_id", completedOnly: true,
		quantity: "t.quantity", status: "t.status",
	},
	dashboard.KindTransfer: {
		kind: dashboard.KindTransfer, table: "transfers", alias: "t",
		dateCol: "transfer_date", baseCol: "to_base_id", fromCol: "from_base_id",
		quantity: "t.quantity", status: "t.status",
	},
	dashboard.KindExpenditure: {
		kind: dashboard.KindExpenditure, table: "expenditures", alias: "e",
		dateCol: "expenditure_date", baseCol: "base_id",
		quantity: "e.quantity", status: "'completed'",
	},
	dashboard.KindAssignment: {
		kind: dashboard.KindAssignment, table: "assignments", alias: "a",
		dateCol: "assignment_date", baseCol: "base_id",
		// a row without quantity is one unit
		quantity: "COALESCE(a.quantity, 1)", status: "a.status",
	},
}

func sourceFor(kind dashboard.Kind) (source, error) {
	s, ok := sources[kind]
	if !ok {
		return source{}, fmt.Errorf("unknown movement kind %q", kind)
	}
	return s, nil
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// scoped applies base, equipment type and completion predicates.
func scoped(q squirrel.SelectBuilder, s source, f dashboard.Filter) squirrel.SelectBuilder {
	if id, ok := f.BaseID(); ok {
		if s.fromCol != "" {
			q = q.Where(squirrel.Or{
				squirrel.Eq{s.col(s.baseCol): id},
				squirrel.Eq{s.col(s.fromCol): id},
			})
		} else {
			q = q.Where(squirrel.Eq{s.col(s.baseCol): id})
		}
	}
	if id, ok := f.EquipmentTypeID(); ok {
		q = q.Where(squirrel.Eq{s.col("equipment_type_id"): id})
	}
	if s.completedOnly {
		q = q.Where(squirrel.Eq{s.col("status"): statusCompleted})
	}
	return q
}

// dated applies the filter's inclusive date range.
func dated(q squirrel.SelectBuilder, s source, f dashboard.Filter) squirrel.SelectBuilder {
	if start, ok := f.StartDate(); ok {
		q = q.Where(squirrel.GtOrEq{s.col(s.dateCol): start})
	}
	if end, ok := f.EndDate(); ok {
		q = q.Where(squirrel.LtOrEq{s.col(s.dateCol): end})
	}
	return q
}

func sumSelect(s source) squirrel.SelectBuilder {
	return builder().
		Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", s.quantity)).
		From(s.table + " " + s.alias)
}

// sumQuery totals one source over the filter's period.
func sumQuery(s source, f dashboard.Filter) squirrel.SelectBuilder {
	return dated(scoped(sumSelect(s), s, f), s, f)
}

// sumBeforeQuery totals one source over rows dated strictly before day.
// The filter's own dates are ignored.
func sumBeforeQuery(s source, f dashboard.Filter, day time.Time) squirrel.SelectBuilder {
	return scoped(sumSelect(s), s, f).
		Where(squirrel.Lt{s.col(s.dateCol): day})
}

// assignedQuery sums units on active assignments. No date predicate.
func assignedQuery(f dashboard.Filter) squirrel.SelectBuilder {
	s := sources[dashboard.KindAssignment]
	return scoped(sumSelect(s), s, f).
		Where(squirrel.Eq{s.col("status"): "active"})
}

// recentQuery lists the newest n rows of one source with display names.
func recentQuery(s source, f dashboard.Filter, n int) squirrel.SelectBuilder {
	q := builder().
		Select(
			s.col("id"),
			s.col(s.dateCol)+" AS date",
			fmt.Sprintf("COALESCE(%s, et.name) AS equipment", s.col("item_name")),
			s.quantity+" AS quantity",
			"b.name AS base",
			s.col(s.baseCol)+" AS base_id",
			s.status+" AS status",
		).
		From(s.table + " " + s.alias).
		Join("equipment_types et ON et.id = " + s.col("equipment_type_id")).
		Join("bases b ON b.id = " + s.col(s.baseCol))

	if s.fromCol != "" {
		q = q.Columns(
			s.col(s.fromCol)+" AS from_base_id",
			s.col(s.baseCol)+" AS to_base_id",
			"fb.name AS from_base",
			"b.name AS to_base",
		).Join("bases fb ON fb.id = " + s.col(s.fromCol))
	}

	q = dated(scoped(q, s, f), s, f)

	q = q.OrderBy(s.col(s.dateCol)+" DESC", s.col("id")+" DESC")
	if n > 0 {
		q = q.Limit(uint64(n))
	}
	return q
}
