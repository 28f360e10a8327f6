package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"logitrack/internal/domain/dashboard"
	"logitrack/internal/infrastructure/http/v1/dto"
)

// DashboardService is the aggregation surface the dashboard endpoints call.
type DashboardService interface {
	ComputeMetrics(ctx context.Context, f dashboard.Filter) (*dashboard.Metrics, error)
	ListRecentTransactions(ctx context.Context, f dashboard.Filter, kind dashboard.QueryKind, page dashboard.Page) ([]dashboard.TransactionRecord, error)
	NetMovement(ctx context.Context, f dashboard.Filter, page dashboard.Page) (*dashboard.NetMovementDetails, error)
}

// DashboardHandler serves balance metrics and activity feeds.
type DashboardHandler struct {
	*BaseHandler
	service DashboardService
}

func NewDashboardHandler(base *BaseHandler, service DashboardService) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, service: service}
}

// Metrics handles GET /dashboard/metrics?baseId&equipmentTypeId&startDate&endDate
func (h *DashboardHandler) Metrics(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	m, err := h.service.ComputeMetrics(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, m)
}

// RecentActivity handles GET /dashboard/recent-activity?limit&offset&kind
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	page, ok := h.page(c)
	if !ok {
		return
	}
	kind, err := dashboard.ParseQueryKind(c.Query("kind"))
	if err != nil {
		h.Error(c, err)
		return
	}

	records, err := h.service.ListRecentTransactions(c.Request.Context(), f, kind, page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransactions(records))
}

// NetMovement handles GET /dashboard/net-movement, the drill-down behind the net movement tile.
func (h *DashboardHandler) NetMovement(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	page, ok := h.page(c)
	if !ok {
		return
	}

	details, err := h.service.NetMovement(c.Request.Context(), f, page)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromNetMovement(details))
}

func (h *DashboardHandler) filter(c *gin.Context) (dashboard.Filter, bool) {
	var q dto.FilterQuery
	if !h.BindQuery(c, &q) {
		return dashboard.Filter{}, false
	}
	f, err := dashboard.ParseFilter(q.Raw())
	if err != nil {
		h.Error(c, err)
		return dashboard.Filter{}, false
	}
	return f, true
}

func (h *DashboardHandler) page(c *gin.Context) (dashboard.Page, bool) {
	limit, ok := h.ParseIntQuery(c, "limit", 0)
	if !ok {
		return dashboard.Page{}, false
	}
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	if !ok {
		return dashboard.Page{}, false
	}
	page, err := dashboard.NewPage(limit, offset)
	if err != nil {
		h.Error(c, err)
		return dashboard.Page{}, false
	}
	return page, true
}
