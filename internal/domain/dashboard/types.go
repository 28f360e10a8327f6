// Package dashboard aggregates stock movements into balance metrics
// and merged activity feeds.
package dashboard

import (
	"time"

	"logitrack/internal/core/apperror"
)

// Kind tags the source of a transaction record.
type Kind string

const (
	KindPurchase    Kind = "purchase"
	KindTransferIn  Kind = "transfer_in"
	KindTransferOut Kind = "transfer_out"
	KindExpenditure Kind = "expenditure"
	KindAssignment  Kind = "assignment"
	// KindTransfer is a transfer row in any status, read once for both ends.
	KindTransfer Kind = "transfer"
)

const transferCompleted = "completed"

// Impact returns the signed stock effect of quantity units of this kind.
func (k Kind) Impact(quantity int64) int64 {
	switch k {
	case KindPurchase, KindTransferIn:
		return quantity
	case KindTransferOut, KindExpenditure:
		return -quantity
	}
	return 0
}

// QueryKind selects which sources a feed merges.
type QueryKind string

const (
	QueryAll         QueryKind = "all"
	QueryNetMovement QueryKind = "net_movement"
	QueryPurchase    QueryKind = QueryKind(KindPurchase)
	QueryTransferIn  QueryKind = QueryKind(KindTransferIn)
	QueryTransferOut QueryKind = QueryKind(KindTransferOut)
	QueryExpenditure QueryKind = QueryKind(KindExpenditure)
	QueryAssignment  QueryKind = QueryKind(KindAssignment)
)

// Sources lists the per-table scans the query kind merges.
func (q QueryKind) Sources() []Kind {
	switch q {
	case QueryAll:
		return []Kind{KindPurchase, KindTransfer, KindExpenditure, KindAssignment}
	case QueryNetMovement:
		return []Kind{KindPurchase, KindTransferIn, KindTransferOut}
	case QueryPurchase, QueryTransferIn, QueryTransferOut, QueryExpenditure, QueryAssignment:
		return []Kind{Kind(q)}
	}
	return nil
}

// ParseQueryKind validates a kind; empty means QueryAll.
func ParseQueryKind(s string) (QueryKind, error) {
	if s == "" {
		return QueryAll, nil
	}
	q := QueryKind(s)
	if q.Sources() == nil {
		return "", apperror.NewInvalidField("kind", s, "unknown transaction kind")
	}
	return q, nil
}

// Totals are period sums of the stock-changing movements.
type Totals struct {
	Purchases   int64
	TransferIn  int64
	TransferOut int64
	Expended    int64
}

// Net is purchases plus inbound minus outbound transfers. Expenditures are not part of it.
func (t Totals) Net() int64 {
	return t.Purchases + t.TransferIn - t.TransferOut
}

// Balance is the stock change including expenditures.
func (t Totals) Balance() int64 {
	return t.Net() - t.Expended
}

// Metrics is the dashboard summary for one filter.
type Metrics struct {
	OpeningBalance int64 `json:"openingBalance"`
	ClosingBalance int64 `json:"closingBalance"`
	NetMovement    int64 `json:"netMovement"`
	Purchases      int64 `json:"purchases"`
	TransferIn     int64 `json:"transferIn"`
	TransferOut    int64 `json:"transferOut"`
	Assigned       int64 `json:"assigned"`
	Expended       int64 `json:"expended"`
}

// BuildMetrics combines the opening balance, period totals and the assigned count.
// Assigned stock stays on base and does not reduce the closing balance.
func BuildMetrics(opening int64, period Totals, assigned int64) Metrics {
	return Metrics{
		OpeningBalance: opening,
		ClosingBalance: opening + period.Balance(),
		NetMovement:    period.Net(),
		Purchases:      period.Purchases,
		TransferIn:     period.TransferIn,
		TransferOut:    period.TransferOut,
		Assigned:       assigned,
		Expended:       period.Expended,
	}
}

// TransactionRecord is one row of an activity feed.
type TransactionRecord struct {
	ID        int64     `db:"id" json:"id"`
	Date      time.Time `db:"date" json:"date"`
	Type      Kind      `db:"type" json:"type"`
	Equipment string    `db:"equipment" json:"equipment"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	Base      string    `db:"base" json:"base"`
	BaseID    int64     `db:"base_id" json:"baseId"`
	Status    string    `db:"status" json:"status"`
	Impact    int64     `db:"-" json:"impact"`

	// Set on transfer rows only.
	FromBaseID *int64 `db:"from_base_id" json:"fromBaseId,omitempty"`
	ToBaseID   *int64 `db:"to_base_id" json:"toBaseId,omitempty"`
	FromBase   string `db:"from_base" json:"fromBase,omitempty"`
	ToBase     string `db:"to_base" json:"toBase,omitempty"`
}

// orient resolves a KindTransfer row against the scoped base. The row
// becomes transfer_in or transfer_out with a signed impact only when the
// transfer is completed; otherwise it stays a transfer with zero impact.
// Without a scoped base nothing changes: the stock stays inside the network.
func (r *TransactionRecord) orient(base int64, scoped bool) {
	if !scoped {
		return
	}
	outbound := r.FromBaseID != nil && *r.FromBaseID == base
	if outbound {
		r.Base, r.BaseID = r.FromBase, base
	}
	if r.Status != transferCompleted {
		return
	}
	if outbound {
		r.Type = KindTransferOut
	} else {
		r.Type = KindTransferIn
	}
	r.Impact = r.Type.Impact(r.Quantity)
}

// NetMovementDetails backs the net-movement drill-down.
type NetMovementDetails struct {
	Purchases    int64               `json:"purchases"`
	TransferIn   int64               `json:"transferIn"`
	TransferOut  int64               `json:"transferOut"`
	NetMovement  int64               `json:"netMovement"`
	Transactions []TransactionRecord `json:"transactions"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page bounds a feed with limit/offset semantics.
type Page struct {
	Limit  int
	Offset int
}

// NewPage validates limit and offset. A zero limit selects DefaultLimit;
// limits above MaxLimit are capped.
func NewPage(limit, offset int) (Page, error) {
	return Page{Limit: limit, Offset: offset}.validated()
}

// validated applies the paging rules to p. The service runs every page
// through it, so a hand-built Page gets the same errors as NewPage.
func (p Page) validated() (Page, error) {
	if p.Limit < 0 {
		return Page{}, apperror.NewInvalidField("limit", p.Limit, "limit must not be negative")
	}
	if p.Offset < 0 {
		return Page{}, apperror.NewInvalidField("offset", p.Offset, "offset must not be negative")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	p.Limit = min(p.Limit, MaxLimit)
	return p, nil
}

// window returns the number of rows each source must yield to fill the page.
func (p Page) window() int {
	return p.Limit + p.Offset
}
