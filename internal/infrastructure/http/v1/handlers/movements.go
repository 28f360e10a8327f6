package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"logitrack/internal/domain/dashboard"
	"logitrack/internal/domain/movements"
	"logitrack/internal/infrastructure/http/v1/dto"
)

// MovementService is the write and listing surface for stock movements.
type MovementService interface {
	CreatePurchase(ctx context.Context, p *movements.Purchase) error
	CreateTransfer(ctx context.Context, t *movements.Transfer) error
	CreateAssignment(ctx context.Context, a *movements.Assignment) error
	CreateExpenditure(ctx context.Context, e *movements.Expenditure) error

	UpdateTransferStatus(ctx context.Context, id int64, status movements.TransferStatus) (*movements.Transfer, error)
	UpdateAssignmentStatus(ctx context.Context, id int64, status movements.AssignmentStatus, returnedOn *time.Time) (*movements.Assignment, error)

	ListPurchases(ctx context.Context, f movements.ListFilter) ([]movements.Purchase, error)
	ListTransfers(ctx context.Context, f movements.ListFilter) ([]movements.Transfer, error)
	ListAssignments(ctx context.Context, f movements.ListFilter) ([]movements.Assignment, error)
	ListExpenditures(ctx context.Context, f movements.ListFilter) ([]movements.Expenditure, error)
}

// MovementHandler serves purchases, transfers, assignments and expenditures.
type MovementHandler struct {
	*BaseHandler
	service MovementService
}

func NewMovementHandler(base *BaseHandler, service MovementService) *MovementHandler {
	return &MovementHandler{BaseHandler: base, service: service}
}

// --- Purchases ---

// ListPurchases handles GET /purchases
func (h *MovementHandler) ListPurchases(c *gin.Context) {
	f, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListPurchases(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items, movements.EffectiveLimit(f.Limit), f.Offset, dto.FromPurchase))
}

// CreatePurchase handles POST /purchases
func (h *MovementHandler) CreatePurchase(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	p := req.ToEntity()
	if err := h.service.CreatePurchase(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromPurchase(*p))
}

// --- Transfers ---

// ListTransfers handles GET /transfers
func (h *MovementHandler) ListTransfers(c *gin.Context) {
	f, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListTransfers(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items, movements.EffectiveLimit(f.Limit), f.Offset, dto.FromTransfer))
}

// CreateTransfer handles POST /transfers
func (h *MovementHandler) CreateTransfer(c *gin.Context) {
	var req dto.CreateTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t := req.ToEntity()
	if err := h.service.CreateTransfer(c.Request.Context(), t); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromTransfer(*t))
}

// UpdateTransferStatus handles PATCH /transfers/:id/status
func (h *MovementHandler) UpdateTransferStatus(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTransferStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.UpdateTransferStatus(c.Request.Context(), id, movements.TransferStatus(req.Status))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransfer(*t))
}

// --- Assignments ---

// ListAssignments handles GET /assignments
func (h *MovementHandler) ListAssignments(c *gin.Context) {
	f, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListAssignments(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items, movements.EffectiveLimit(f.Limit), f.Offset, dto.FromAssignment))
}

// CreateAssignment handles POST /assignments
func (h *MovementHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a := req.ToEntity()
	if err := h.service.CreateAssignment(c.Request.Context(), a); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromAssignment(*a))
}

// UpdateAssignmentStatus handles PATCH /assignments/:id/status
func (h *MovementHandler) UpdateAssignmentStatus(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAssignmentStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.UpdateAssignmentStatus(c.Request.Context(), id,
		movements.AssignmentStatus(req.Status), req.ReturnDate.TimePtr())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromAssignment(*a))
}

// --- Expenditures ---

// ListExpenditures handles GET /expenditures
func (h *MovementHandler) ListExpenditures(c *gin.Context) {
	f, ok := h.listFilter(c)
	if !ok {
		return
	}
	items, err := h.service.ListExpenditures(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(items, movements.EffectiveLimit(f.Limit), f.Offset, dto.FromExpenditure))
}

// CreateExpenditure handles POST /expenditures
func (h *MovementHandler) CreateExpenditure(c *gin.Context) {
	var req dto.CreateExpenditureRequest
	if !h.BindJSON(c, &req) {
		return
	}
	e := req.ToEntity()
	if err := h.service.CreateExpenditure(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromExpenditure(*e))
}

// listFilter parses the shared filter plus status, limit and offset.
func (h *MovementHandler) listFilter(c *gin.Context) (movements.ListFilter, bool) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return movements.ListFilter{}, false
	}

	f, err := dashboard.ParseFilter(q.Raw())
	if err != nil {
		h.Error(c, err)
		return movements.ListFilter{}, false
	}

	limit, ok := h.ParseIntQuery(c, "limit", 0)
	if !ok {
		return movements.ListFilter{}, false
	}
	offset, ok := h.ParseIntQuery(c, "offset", 0)
	if !ok {
		return movements.ListFilter{}, false
	}

	return movements.ListFilter{Filter: f, Status: q.Status, Limit: limit, Offset: offset}, true
}
