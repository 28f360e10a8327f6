package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/core/apperror"
	"logitrack/internal/core/security"
	"logitrack/internal/core/tx"
)

func asAdmin() context.Context {
	return security.WithScope(context.Background(), &security.AccessScope{UserID: "adm", Role: security.RoleAdmin})
}

func asCommander(home int64) context.Context {
	return security.WithScope(context.Background(), &security.AccessScope{
		UserID: "cmdr", Role: security.RoleBaseCommander, HomeBaseID: &home,
	})
}

func asOfficer(home int64) context.Context {
	return security.WithScope(context.Background(), &security.AccessScope{
		UserID: "lo", Role: security.RoleLogisticsOfficer, HomeBaseID: &home,
	})
}

func period(start, end string) Filter {
	return Filter{}.WithStartDate(day(start)).WithEndDate(day(end))
}

func newTestService(rows []memMovement) (*Service, *memRepo) {
	repo := &memRepo{rows: rows}
	return NewService(repo, tx.Nop{}), repo
}

func specRows() []memMovement {
	return []memMovement{
		{id: 1, kind: KindPurchase, baseID: 1, equipment: 1, quantity: 50, date: day("2024-01-15")},
		{id: 1, kind: KindTransfer, baseID: 1, toBaseID: 2, equipment: 1, quantity: 15, date: day("2024-02-15"), status: "completed"},
		{id: 3, kind: KindTransfer, baseID: 2, toBaseID: 4, equipment: 7, quantity: 10, date: day("2024-02-25"), status: "pending"},
	}
}

func TestComputeMetrics_OutboundScenario(t *testing.T) {
	svc, _ := newTestService(specRows())

	m, err := svc.ComputeMetrics(asAdmin(), period("2024-01-01", "2024-02-28").WithBase(1))
	require.NoError(t, err)

	assert.Equal(t, int64(50), m.Purchases)
	assert.Equal(t, int64(15), m.TransferOut)
	assert.Equal(t, int64(0), m.TransferIn)
	assert.Equal(t, int64(35), m.NetMovement)
	assert.Equal(t, int64(0), m.OpeningBalance)
	assert.Equal(t, int64(35), m.ClosingBalance)
}

func TestComputeMetrics_InboundScenario(t *testing.T) {
	svc, _ := newTestService(specRows())

	m, err := svc.ComputeMetrics(asAdmin(), period("2024-01-01", "2024-02-28").WithBase(2))
	require.NoError(t, err)

	assert.Equal(t, int64(15), m.TransferIn)
	assert.Equal(t, int64(0), m.Purchases)
	assert.Equal(t, int64(15), m.NetMovement)
	// the pending 2->4 transfer never leaves base 2
	assert.Equal(t, int64(0), m.TransferOut)
}

func TestComputeMetrics_PendingAndCancelledTransfersIgnored(t *testing.T) {
	svc, _ := newTestService(scenarioRows())

	for _, base := range []int64{2, 4} {
		m, err := svc.ComputeMetrics(asAdmin(), Filter{}.WithBase(base).WithEquipmentType(7))
		require.NoError(t, err)
		assert.Zero(t, m.TransferIn, "base %d", base)
		assert.Zero(t, m.TransferOut, "base %d", base)
	}
}

func TestComputeMetrics_BalanceIdentities(t *testing.T) {
	svc, _ := newTestService(scenarioRows())

	filters := []Filter{
		{},
		Filter{}.WithBase(1),
		Filter{}.WithBase(2).WithEquipmentType(4),
		period("2024-02-01", "2024-02-20"),
		period("2024-02-01", "2024-02-28").WithBase(1),
		period("2024-02-16", "2024-02-16").WithBase(3),
		Filter{}.WithBase(99),
	}

	for _, f := range filters {
		m, err := svc.ComputeMetrics(asAdmin(), f)
		require.NoError(t, err)
		assert.Equal(t, m.Purchases+m.TransferIn-m.TransferOut-m.Expended, m.ClosingBalance-m.OpeningBalance)
		assert.Equal(t, m.Purchases+m.TransferIn-m.TransferOut, m.NetMovement)
	}
}

func TestComputeMetrics_OpeningBalance(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	m, err := svc.ComputeMetrics(asAdmin(), period("2024-02-01", "2024-02-28").WithBase(1))
	require.NoError(t, err)

	// purchase of 50 on 2024-01-15 is before the period
	assert.Equal(t, int64(50), m.OpeningBalance)
	assert.Equal(t, int64(0), m.Purchases)
	assert.Equal(t, int64(15), m.TransferOut)
	assert.Equal(t, int64(5), m.Expended)
	assert.Equal(t, int64(30), m.ClosingBalance)
	assert.Contains(t, repo.calls, "SumBefore")

	// the same stock seen without a start date: no baseline, same closing figure
	whole, err := svc.ComputeMetrics(asAdmin(), Filter{}.WithBase(1).WithEndDate(day("2024-02-28")))
	require.NoError(t, err)
	assert.Zero(t, whole.OpeningBalance)
	assert.Equal(t, m.ClosingBalance, whole.ClosingBalance)
}

func TestComputeMetrics_NoStartDateSkipsOpeningQuery(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	_, err := svc.ComputeMetrics(asAdmin(), Filter{}.WithBase(1))
	require.NoError(t, err)
	assert.NotContains(t, repo.calls, "SumBefore")
}

func TestComputeMetrics_AssignedIgnoresDates(t *testing.T) {
	svc, _ := newTestService(scenarioRows())

	all, err := svc.ComputeMetrics(asAdmin(), Filter{}.WithBase(1))
	require.NoError(t, err)
	narrow, err := svc.ComputeMetrics(asAdmin(), period("2030-01-01", "2030-01-31").WithBase(1))
	require.NoError(t, err)

	// one unit with quantity 1, one row without quantity; the returned row is excluded
	assert.Equal(t, int64(2), all.Assigned)
	assert.Equal(t, all.Assigned, narrow.Assigned)
}

func TestComputeMetrics_CommanderIsForcedToHomeBase(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	overridden, err := svc.ComputeMetrics(asCommander(2), Filter{}.WithBase(3))
	require.NoError(t, err)
	plain, err := svc.ComputeMetrics(asCommander(2), Filter{})
	require.NoError(t, err)
	direct, err := svc.ComputeMetrics(asAdmin(), Filter{}.WithBase(2))
	require.NoError(t, err)

	assert.Equal(t, plain, overridden)
	assert.Equal(t, direct, overridden)

	base, ok := repo.filters[0].BaseID()
	assert.True(t, ok)
	assert.Equal(t, int64(2), base)
}

func TestComputeMetrics_OfficerCrossBaseRejected(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	_, err := svc.ComputeMetrics(asOfficer(1), Filter{}.WithBase(2))
	require.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Empty(t, repo.calls, "no query may run before scope resolution succeeds")

	_, err = svc.ComputeMetrics(asOfficer(1), Filter{}.WithBase(1))
	assert.NoError(t, err)
}

func TestComputeMetrics_DataAccessError(t *testing.T) {
	svc, repo := newTestService(nil)
	repo.baseErr = errors.New("connection reset")

	_, err := svc.ComputeMetrics(asAdmin(), Filter{})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDatabase))
}

func TestComputeMetrics_UnknownIDsYieldZeroTotals(t *testing.T) {
	svc, _ := newTestService(scenarioRows())

	m, err := svc.ComputeMetrics(asAdmin(), Filter{}.WithBase(42).WithEquipmentType(77))
	require.NoError(t, err)
	assert.Equal(t, Metrics{}, *m)
}

func assertNewestFirst(t *testing.T, records []TransactionRecord) {
	t.Helper()
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		assert.False(t, cur.Date.After(prev.Date), "dates must not increase at %d", i)
		if cur.Date.Equal(prev.Date) {
			assert.LessOrEqual(t, cur.ID, prev.ID, "ids must not increase on equal dates at %d", i)
		}
	}
}

func TestListRecentTransactions_All(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	records, err := svc.ListRecentTransactions(asAdmin(), Filter{}, QueryAll, Page{Limit: 50})
	require.NoError(t, err)

	assertNewestFirst(t, records)
	// 2 purchases, 4 transfers in every status, 1 expenditure, 4 assignments
	assert.Len(t, records, 11)
	assert.NotContains(t, repo.calls, "Recent:"+string(KindTransferIn))
	assert.NotContains(t, repo.calls, "Recent:"+string(KindTransferOut))

	transfers := map[int64]TransactionRecord{}
	for _, r := range records {
		switch r.Type {
		case KindPurchase:
			assert.Equal(t, r.Quantity, r.Impact)
		case KindExpenditure:
			assert.Equal(t, -r.Quantity, r.Impact)
		case KindAssignment:
			assert.Zero(t, r.Impact)
		case KindTransfer:
			// stock moved between bases, not in or out of the network
			assert.Zero(t, r.Impact)
			transfers[r.ID] = r
		default:
			t.Errorf("unexpected type %q without a base scope", r.Type)
		}
	}

	require.Len(t, transfers, 4)
	assert.Equal(t, "in_transit", transfers[2].Status)
	assert.Equal(t, "pending", transfers[3].Status)
	assert.Equal(t, "cancelled", transfers[4].Status)
	require.NotNil(t, transfers[1].FromBaseID)
	require.NotNil(t, transfers[1].ToBaseID)
	assert.Equal(t, int64(1), *transfers[1].FromBaseID)
	assert.Equal(t, int64(2), *transfers[1].ToBaseID)
}

func TestListRecentTransactions_AllScopedToBase(t *testing.T) {
	svc, _ := newTestService(scenarioRows())

	records, err := svc.ListRecentTransactions(asAdmin(), Filter{}.WithBase(2), QueryAll, Page{Limit: 50})
	require.NoError(t, err)
	assertNewestFirst(t, records)

	byTransfer := map[int64]TransactionRecord{}
	for _, r := range records {
		assert.Equal(t, int64(2), r.BaseID)
		if r.FromBaseID != nil {
			byTransfer[r.ID] = r
		}
	}
	// purchase, three transfers touching base 2, one assignment
	assert.Len(t, records, 5)
	require.Len(t, byTransfer, 3)

	received := byTransfer[1]
	assert.Equal(t, KindTransferIn, received.Type)
	assert.Equal(t, int64(15), received.Impact)

	pending := byTransfer[3]
	assert.Equal(t, KindTransfer, pending.Type)
	assert.Equal(t, "pending", pending.Status)
	assert.Zero(t, pending.Impact)

	cancelled := byTransfer[4]
	assert.Equal(t, KindTransfer, cancelled.Type)
	assert.Zero(t, cancelled.Impact)
}

func TestListRecentTransactions_AllScopedToSender(t *testing.T) {
	svc, _ := newTestService(scenarioRows())

	records, err := svc.ListRecentTransactions(asCommander(1), Filter{}, QueryAll, Page{Limit: 50})
	require.NoError(t, err)

	var sent, inbound *TransactionRecord
	for i := range records {
		assert.Equal(t, int64(1), records[i].BaseID)
		if records[i].FromBaseID == nil {
			continue
		}
		switch records[i].ID {
		case 1:
			sent = &records[i]
		case 2:
			inbound = &records[i]
		}
	}

	require.NotNil(t, sent)
	assert.Equal(t, KindTransferOut, sent.Type)
	assert.Equal(t, int64(-15), sent.Impact)

	// in transit toward base 1, not received yet
	require.NotNil(t, inbound)
	assert.Equal(t, KindTransfer, inbound.Type)
	assert.Zero(t, inbound.Impact)
}

func TestListRecentTransactions_DefaultLimitAndOffset(t *testing.T) {
	rows := make([]memMovement, 0, 15)
	for i := int64(1); i <= 15; i++ {
		rows = append(rows, memMovement{id: i, kind: KindPurchase, baseID: 1, quantity: i, date: day("2024-03-01")})
	}
	svc, _ := newTestService(rows)

	first, err := svc.ListRecentTransactions(asAdmin(), Filter{}, QueryAll, Page{})
	require.NoError(t, err)
	require.Len(t, first, DefaultLimit)
	assert.Equal(t, int64(15), first[0].ID)
	assertNewestFirst(t, first)

	second, err := svc.ListRecentTransactions(asAdmin(), Filter{}, QueryPurchase, Page{Limit: 10, Offset: 10})
	require.NoError(t, err)
	require.Len(t, second, 5)
	assert.Equal(t, int64(5), second[0].ID)

	empty, err := svc.ListRecentTransactions(asAdmin(), Filter{}, QueryPurchase, Page{Limit: 10, Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListRecentTransactions_CommanderScope(t *testing.T) {
	svc, _ := newTestService(scenarioRows())

	records, err := svc.ListRecentTransactions(asCommander(2), Filter{}.WithBase(1), QueryNetMovement, Page{Limit: 20})
	require.NoError(t, err)
	require.NotEmpty(t, records)
	for _, r := range records {
		assert.Equal(t, int64(2), r.BaseID)
	}
}

func TestListRecentTransactions_UnknownKind(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	_, err := svc.ListRecentTransactions(asAdmin(), Filter{}, QueryKind("audit"), Page{})
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.calls)
}

func TestListRecentTransactions_HandBuiltPageValidated(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	for _, page := range []Page{{Offset: -1}, {Limit: -5}} {
		_, err := svc.ListRecentTransactions(asAdmin(), Filter{}, QueryAll, page)
		assert.True(t, apperror.IsValidation(err), "page %+v", page)

		_, err = svc.NetMovement(asAdmin(), Filter{}, page)
		assert.True(t, apperror.IsValidation(err), "page %+v", page)
	}
	assert.Empty(t, repo.calls)

	records, err := svc.ListRecentTransactions(asAdmin(), Filter{}, QueryPurchase, Page{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestNetMovement(t *testing.T) {
	svc, repo := newTestService(scenarioRows())

	d, err := svc.NetMovement(asAdmin(), period("2024-01-01", "2024-02-28").WithBase(1), Page{Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(50), d.Purchases)
	assert.Equal(t, int64(15), d.TransferOut)
	assert.Equal(t, int64(35), d.NetMovement)
	require.Len(t, d.Transactions, 2)
	assert.Equal(t, KindTransferOut, d.Transactions[0].Type)
	assert.Equal(t, int64(-15), d.Transactions[0].Impact)
	assert.Equal(t, KindPurchase, d.Transactions[1].Type)

	var impact int64
	for _, r := range d.Transactions {
		impact += r.Impact
	}
	assert.Equal(t, d.NetMovement, impact)
	assert.NotContains(t, repo.calls, "Recent:"+string(KindExpenditure))
}
