package dashboard

import (
	"context"
	"sort"
	"time"
)

type memMovement struct {
	id        int64
	kind      Kind
	baseID    int64
	toBaseID  int64 // transfers only
	equipment int64
	quantity  int64
	date      time.Time
	status    string
}

// memRepo evaluates filters over in-memory rows the way the SQL builders do.
type memRepo struct {
	rows    []memMovement
	baseErr error
	calls   []string
	filters []Filter
}

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func (r *memRepo) match(m memMovement, f Filter, baseCol func(memMovement) int64) bool {
	if id, ok := f.BaseID(); ok && baseCol(m) != id {
		return false
	}
	if id, ok := f.EquipmentTypeID(); ok && m.equipment != id {
		return false
	}
	return true
}

func inRange(d time.Time, f Filter) bool {
	if s, ok := f.StartDate(); ok && d.Before(s) {
		return false
	}
	if e, ok := f.EndDate(); ok && d.After(e) {
		return false
	}
	return true
}

func from(m memMovement) int64 { return m.baseID }
func to(m memMovement) int64   { return m.toBaseID }

func (r *memRepo) sum(f Filter, dateOK func(time.Time) bool) Totals {
	var t Totals
	for _, m := range r.rows {
		if !dateOK(m.date) {
			continue
		}
		switch m.kind {
		case KindPurchase:
			if r.match(m, f, from) {
				t.Purchases += m.quantity
			}
		case KindExpenditure:
			if r.match(m, f, from) {
				t.Expended += m.quantity
			}
		case KindTransfer:
			if m.status != "completed" {
				continue
			}
			if r.match(m, f, to) {
				t.TransferIn += m.quantity
			}
			if r.match(m, f, from) {
				t.TransferOut += m.quantity
			}
		}
	}
	return t
}

func (r *memRepo) SumMovements(_ context.Context, f Filter) (Totals, error) {
	r.calls = append(r.calls, "SumMovements")
	r.filters = append(r.filters, f)
	if r.baseErr != nil {
		return Totals{}, r.baseErr
	}
	return r.sum(f, func(d time.Time) bool { return inRange(d, f) }), nil
}

func (r *memRepo) SumBefore(_ context.Context, f Filter, before time.Time) (Totals, error) {
	r.calls = append(r.calls, "SumBefore")
	return r.sum(f, func(d time.Time) bool { return d.Before(before) }), nil
}

func (r *memRepo) SumAssigned(_ context.Context, f Filter) (int64, error) {
	r.calls = append(r.calls, "SumAssigned")
	var n int64
	for _, m := range r.rows {
		if m.kind == KindAssignment && m.status == "active" && r.match(m, f, from) {
			if m.quantity == 0 {
				n++
			} else {
				n += m.quantity
			}
		}
	}
	return n, nil
}

func (r *memRepo) Recent(_ context.Context, f Filter, kind Kind, n int) ([]TransactionRecord, error) {
	r.calls = append(r.calls, "Recent:"+string(kind))
	var out []TransactionRecord
	for _, m := range r.rows {
		if !inRange(m.date, f) {
			continue
		}
		var base int64
		var fromID, toID *int64
		switch {
		case m.kind == kind && (kind == KindPurchase || kind == KindExpenditure || kind == KindAssignment):
			if !r.match(m, f, from) {
				continue
			}
			base = m.baseID
		case m.kind == KindTransfer && kind == KindTransferIn && m.status == "completed":
			if !r.match(m, f, to) {
				continue
			}
			base = m.toBaseID
		case m.kind == KindTransfer && kind == KindTransferOut && m.status == "completed":
			if !r.match(m, f, from) {
				continue
			}
			base = m.baseID
		case m.kind == KindTransfer && kind == KindTransfer:
			if !r.match(m, f, from) && !r.match(m, f, to) {
				continue
			}
			base = m.toBaseID
			fromID, toID = &m.baseID, &m.toBaseID
		default:
			continue
		}
		out = append(out, TransactionRecord{
			ID: m.id, Date: m.date, Quantity: m.quantity, BaseID: base, Status: m.status,
			FromBaseID: fromID, ToBaseID: toID,
		})
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// scenarioRows mirrors the reference sample data.
func scenarioRows() []memMovement {
	return []memMovement{
		{id: 1, kind: KindPurchase, baseID: 1, equipment: 1, quantity: 50, date: day("2024-01-15")},
		{id: 2, kind: KindPurchase, baseID: 2, equipment: 4, quantity: 10, date: day("2024-02-01")},
		{id: 1, kind: KindTransfer, baseID: 1, toBaseID: 2, equipment: 1, quantity: 15, date: day("2024-02-15"), status: "completed"},
		{id: 2, kind: KindTransfer, baseID: 3, toBaseID: 1, equipment: 9, quantity: 2000, date: day("2024-02-20"), status: "in_transit"},
		{id: 3, kind: KindTransfer, baseID: 2, toBaseID: 4, equipment: 7, quantity: 10, date: day("2024-02-25"), status: "pending"},
		{id: 4, kind: KindTransfer, baseID: 2, toBaseID: 4, equipment: 7, quantity: 3, date: day("2024-02-26"), status: "cancelled"},
		{id: 1, kind: KindExpenditure, baseID: 1, equipment: 9, quantity: 5, date: day("2024-02-18")},
		{id: 1, kind: KindAssignment, baseID: 1, equipment: 1, quantity: 1, date: day("2024-02-01"), status: "active"},
		{id: 2, kind: KindAssignment, baseID: 1, equipment: 1, date: day("2023-06-01"), status: "active"},
		{id: 3, kind: KindAssignment, baseID: 1, equipment: 1, quantity: 4, date: day("2024-02-03"), status: "returned"},
		{id: 4, kind: KindAssignment, baseID: 2, equipment: 4, quantity: 1, date: day("2024-02-05"), status: "active"},
	}
}
