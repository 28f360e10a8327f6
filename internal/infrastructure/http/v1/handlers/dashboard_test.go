package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/core/apperror"
	"logitrack/internal/domain/dashboard"
	"logitrack/internal/infrastructure/http/v1/middleware"
)

type stubDashboard struct {
	gotFilter dashboard.Filter
	gotKind   dashboard.QueryKind
	gotPage   dashboard.Page

	metrics *dashboard.Metrics
	records []dashboard.TransactionRecord
	err     error
}

func (s *stubDashboard) ComputeMetrics(_ context.Context, f dashboard.Filter) (*dashboard.Metrics, error) {
	s.gotFilter = f
	return s.metrics, s.err
}

func (s *stubDashboard) ListRecentTransactions(_ context.Context, f dashboard.Filter, kind dashboard.QueryKind, page dashboard.Page) ([]dashboard.TransactionRecord, error) {
	s.gotFilter, s.gotKind, s.gotPage = f, kind, page
	return s.records, s.err
}

func (s *stubDashboard) NetMovement(_ context.Context, f dashboard.Filter, page dashboard.Page) (*dashboard.NetMovementDetails, error) {
	s.gotFilter, s.gotPage = f, page
	if s.err != nil {
		return nil, s.err
	}
	return &dashboard.NetMovementDetails{
		Purchases: 50, TransferOut: 15, NetMovement: 35, Transactions: s.records,
	}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newDashboardRouter(svc DashboardService) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewDashboardHandler(NewBaseHandler(), svc)
	r.GET("/dashboard/metrics", h.Metrics)
	r.GET("/dashboard/recent-activity", h.RecentActivity)
	r.GET("/dashboard/net-movement", h.NetMovement)
	return r
}

func get(r http.Handler, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestDashboard_Metrics(t *testing.T) {
	svc := &stubDashboard{metrics: &dashboard.Metrics{
		Purchases: 50, TransferOut: 15, NetMovement: 35, ClosingBalance: 35,
	}}

	w := get(newDashboardRouter(svc), "/dashboard/metrics?baseId=1&startDate=2024-01-01&endDate=2024-02-28")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]int64](t, w)
	assert.Equal(t, int64(50), body["purchases"])
	assert.Equal(t, int64(15), body["transferOut"])
	assert.Equal(t, int64(35), body["netMovement"])
	assert.Contains(t, body, "openingBalance")

	id, ok := svc.gotFilter.BaseID()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
	start, _ := svc.gotFilter.StartDate()
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestDashboard_Metrics_InvalidDate(t *testing.T) {
	svc := &stubDashboard{}

	w := get(newDashboardRouter(svc), "/dashboard/metrics?startDate=2024-13-01")
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, apperror.CodeValidation, body["code"])
	assert.Equal(t, "startDate", body["details"].(map[string]any)["field"])
}

func TestDashboard_Metrics_ServiceErrors(t *testing.T) {
	w := get(newDashboardRouter(&stubDashboard{err: apperror.NewForbidden("cross-base access denied")}), "/dashboard/metrics?baseId=3")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(newDashboardRouter(&stubDashboard{err: apperror.NewDatabase(errors.New("connection refused"))}), "/dashboard/metrics")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestDashboard_RecentActivity(t *testing.T) {
	svc := &stubDashboard{records: []dashboard.TransactionRecord{{
		ID:        7,
		Date:      time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Type:      dashboard.KindTransferOut,
		Equipment: "M4 Carbine",
		Quantity:  15,
		Base:      "Fort Alpha",
		BaseID:    1,
		Status:    "completed",
		Impact:    -15,
	}}}

	w := get(newDashboardRouter(svc), "/dashboard/recent-activity?limit=5&offset=2&kind=transfer_out")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, dashboard.QueryTransferOut, svc.gotKind)
	assert.Equal(t, dashboard.Page{Limit: 5, Offset: 2}, svc.gotPage)

	body := decode[[]map[string]any](t, w)
	require.Len(t, body, 1)
	assert.Equal(t, "2024-02-15", body[0]["date"])
	assert.Equal(t, float64(-15), body[0]["impact"])
	assert.Equal(t, "transfer_out", body[0]["type"])
}

func TestDashboard_RecentActivity_Defaults(t *testing.T) {
	svc := &stubDashboard{}

	w := get(newDashboardRouter(svc), "/dashboard/recent-activity")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	assert.Equal(t, dashboard.QueryAll, svc.gotKind)
	assert.Equal(t, dashboard.Page{Limit: dashboard.DefaultLimit}, svc.gotPage)
}

func TestDashboard_RecentActivity_BadInput(t *testing.T) {
	r := newDashboardRouter(&stubDashboard{})

	for _, url := range []string{
		"/dashboard/recent-activity?limit=-1",
		"/dashboard/recent-activity?limit=ten",
		"/dashboard/recent-activity?kind=borrowed",
		"/dashboard/recent-activity?baseId=abc",
	} {
		w := get(r, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestDashboard_NetMovement(t *testing.T) {
	svc := &stubDashboard{}

	w := get(newDashboardRouter(svc), "/dashboard/net-movement?baseId=1")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]any](t, w)
	assert.Equal(t, float64(35), body["netMovement"])
	assert.Equal(t, []any{}, body["transactions"])
}
