package movement_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/domain/dashboard"
	"logitrack/internal/domain/movements"
	"logitrack/internal/infrastructure/storage/postgres"
)

func day(s string) time.Time {
	t, err := time.Parse(dashboard.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSingleBaseList(t *testing.T) {
	f := movements.ListFilter{
		Filter: dashboard.Filter{}.
			WithBase(2).
			WithEquipmentType(5).
			WithStartDate(day("2024-01-01")).
			WithEndDate(day("2024-01-31")),
		Limit:  50,
		Offset: 10,
	}

	sql, args, err := singleBaseList(expenditures, f).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT e.id, e.base_id, e.equipment_type_id, e.item_name, e.quantity, e.expenditure_date, "+
			"e.reason, e.authorized_by, e.created_at, COALESCE(e.created_by, '') AS created_by, "+
			"b.name AS base_name, et.name AS equipment_name "+
			"FROM expenditures e "+
			"JOIN bases b ON b.id = e.base_id "+
			"JOIN equipment_types et ON et.id = e.equipment_type_id "+
			"WHERE e.base_id = $1 AND e.equipment_type_id = $2 "+
			"AND e.expenditure_date >= $3 AND e.expenditure_date <= $4 "+
			"ORDER BY e.expenditure_date DESC, e.id DESC LIMIT 50 OFFSET 10",
		sql)
	assert.Equal(t, []any{int64(2), int64(5), day("2024-01-01"), day("2024-01-31")}, args)
}

func TestSingleBaseList_StatusAndNoBase(t *testing.T) {
	f := movements.ListFilter{Status: "active", Limit: 20}

	sql, args, err := singleBaseList(assignments, f).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE a.status = $1 ORDER BY a.assignment_date DESC, a.id DESC LIMIT 20")
	assert.NotContains(t, sql, "a.base_id =")
	assert.NotContains(t, sql, "OFFSET")
	assert.Equal(t, []any{"active"}, args)
}

func TestTransferList_MatchesEitherSide(t *testing.T) {
	f := movements.ListFilter{
		Filter: dashboard.Filter{}.WithBase(3),
		Status: "completed",
		Limit:  50,
	}

	sql, args, err := transferList(f).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "fb.name AS from_base_name, tb.name AS to_base_name, et.name AS equipment_name")
	assert.Contains(t, sql, "JOIN bases fb ON fb.id = t.from_base_id JOIN bases tb ON tb.id = t.to_base_id")
	assert.Contains(t, sql, "WHERE (t.from_base_id = $1 OR t.to_base_id = $2) AND t.status = $3")
	assert.Contains(t, sql, "ORDER BY t.transfer_date DESC, t.id DESC LIMIT 50")
	assert.Equal(t, []any{int64(3), int64(3), "completed"}, args)
}

func TestForUpdate(t *testing.T) {
	sql, args, err := forUpdate(transfers, 9).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM transfers t WHERE t.id = $1 FOR UPDATE")
	assert.Contains(t, sql, "t.status, t.created_at, t.completed_at")
	assert.Equal(t, []any{int64(9)}, args)
}

func TestInsertQuery(t *testing.T) {
	reason := "ammunition resupply"
	tr := &movements.Transfer{
		TransferNumber:  "TR-2024-0001",
		EquipmentTypeID: 4,
		Quantity:        15,
		FromBaseID:      1,
		ToBaseID:        2,
		TransferDate:    day("2024-02-15"),
		Reason:          &reason,
		Status:          movements.TransferPending,
		CreatedBy:       "officer-1",
		FromBaseName:    "ignored",
	}

	sql, args, err := insertQuery("transfers", postgres.InsertMap(tr, transferInsertCols)).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO transfers (created_by,equipment_type_id,from_base_id,item_name,quantity,reason,"+
			"status,to_base_id,transfer_date,transfer_number) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10) RETURNING id, created_at",
		sql)
	assert.Len(t, args, 10)
	assert.Equal(t, "officer-1", args[0])
}
