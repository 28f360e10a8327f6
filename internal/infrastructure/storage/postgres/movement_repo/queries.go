package movement_repo

import (
	"github.com/Masterminds/squirrel"

	"logitrack/internal/domain/movements"
)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Insert column lists. Display names and generated columns are excluded.
var (
	purchaseInsertCols = []string{
		"base_id", "equipment_type_id", "item_name", "quantity", "unit_cost", "total_cost",
		"vendor", "purchase_order_number", "purchase_date", "notes", "created_by",
	}
	transferInsertCols = []string{
		"transfer_number", "equipment_type_id", "item_name", "quantity", "from_base_id",
		"to_base_id", "transfer_date", "reason", "status", "created_by",
	}
	assignmentInsertCols = []string{
		"base_id", "equipment_type_id", "item_name", "personnel_id", "personnel_name", "personnel_rank",
		"serial_number", "quantity", "assignment_date", "expected_return_date", "status", "created_by",
	}
	expenditureInsertCols = []string{
		"base_id", "equipment_type_id", "item_name", "quantity", "expenditure_date",
		"reason", "authorized_by", "created_by",
	}
)

// table describes a movement table for listings.
type table struct {
	name    string
	alias   string
	dateCol string
	cols    []string
}

func (t table) col(name string) string {
	return t.alias + "." + name
}

func (t table) selectCols() []string {
	out := make([]string, 0, len(t.cols)+1)
	for _, c := range t.cols {
		out = append(out, t.col(c))
	}
	return append(out, "COALESCE("+t.col("created_by")+", '') AS created_by")
}

var (
	purchases = table{name: "purchases", alias: "p", dateCol: "purchase_date", cols: []string{
		"id", "base_id", "equipment_type_id", "item_name", "quantity", "unit_cost", "total_cost",
		"vendor", "purchase_order_number", "purchase_date", "notes", "created_at",
	}}
	transfers = table{name: "transfers", alias: "t", dateCol: "transfer_date", cols: []string{
		"id", "transfer_number", "equipment_type_id", "item_name", "quantity", "from_base_id", "to_base_id",
		"transfer_date", "reason", "status", "created_at", "completed_at",
	}}
	assignments = table{name: "assignments", alias: "a", dateCol: "assignment_date", cols: []string{
		"id", "base_id", "equipment_type_id", "item_name", "personnel_id", "personnel_name", "personnel_rank",
		"serial_number", "quantity", "assignment_date", "expected_return_date", "actual_return_date",
		"status", "created_at",
	}}
	expenditures = table{name: "expenditures", alias: "e", dateCol: "expenditure_date", cols: []string{
		"id", "base_id", "equipment_type_id", "item_name", "quantity", "expenditure_date",
		"reason", "authorized_by", "created_at",
	}}
)

// singleBaseList builds the listing of a table with one base_id column.
func singleBaseList(t table, f movements.ListFilter) squirrel.SelectBuilder {
	q := builder().
		Select(t.selectCols()...).
		Columns("b.name AS base_name", "et.name AS equipment_name").
		From(t.name + " " + t.alias).
		Join("bases b ON b.id = " + t.col("base_id")).
		Join("equipment_types et ON et.id = " + t.col("equipment_type_id"))

	if id, ok := f.Filter.BaseID(); ok {
		q = q.Where(squirrel.Eq{t.col("base_id"): id})
	}
	return page(filtered(q, t, f), t, f)
}

// transferList matches the base on either side of the transfer.
func transferList(f movements.ListFilter) squirrel.SelectBuilder {
	t := transfers
	q := builder().
		Select(t.selectCols()...).
		Columns("fb.name AS from_base_name", "tb.name AS to_base_name", "et.name AS equipment_name").
		From(t.name + " " + t.alias).
		Join("bases fb ON fb.id = t.from_base_id").
		Join("bases tb ON tb.id = t.to_base_id").
		Join("equipment_types et ON et.id = t.equipment_type_id")

	if id, ok := f.Filter.BaseID(); ok {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"t.from_base_id": id},
			squirrel.Eq{"t.to_base_id": id},
		})
	}
	return page(filtered(q, t, f), t, f)
}

// filtered applies equipment type, status and the inclusive date range.
func filtered(q squirrel.SelectBuilder, t table, f movements.ListFilter) squirrel.SelectBuilder {
	if id, ok := f.Filter.EquipmentTypeID(); ok {
		q = q.Where(squirrel.Eq{t.col("equipment_type_id"): id})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{t.col("status"): f.Status})
	}
	if start, ok := f.Filter.StartDate(); ok {
		q = q.Where(squirrel.GtOrEq{t.col(t.dateCol): start})
	}
	if end, ok := f.Filter.EndDate(); ok {
		q = q.Where(squirrel.LtOrEq{t.col(t.dateCol): end})
	}
	return q
}

func page(q squirrel.SelectBuilder, t table, f movements.ListFilter) squirrel.SelectBuilder {
	q = q.OrderBy(t.col(t.dateCol)+" DESC", t.col("id")+" DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}

// forUpdate selects one row by id and locks it.
func forUpdate(t table, id int64) squirrel.SelectBuilder {
	return builder().
		Select(t.selectCols()...).
		From(t.name + " " + t.alias).
		Where(squirrel.Eq{t.col("id"): id}).
		Suffix("FOR UPDATE")
}
