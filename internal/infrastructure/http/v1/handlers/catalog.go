package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"logitrack/internal/domain"
)

// CatalogService is what the generic catalog handler needs from a catalog service.
type CatalogService[T domain.Entity] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id int64) (T, error)
	List(ctx context.Context, filter domain.ListFilter) ([]T, error)
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
type CatalogHandler[T domain.Entity, CreateDTO any, ResponseDTO any] struct {
	*BaseHandler
	service CatalogService[T]

	mapCreateDTO func(dto CreateDTO) T
	mapToDTO     func(entity T) ResponseDTO
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T domain.Entity, CreateDTO any, ResponseDTO any] struct {
	Service      CatalogService[T]
	MapCreateDTO func(dto CreateDTO) T
	MapToDTO     func(entity T) ResponseDTO
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T domain.Entity, CreateDTO any, ResponseDTO any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, CreateDTO, ResponseDTO],
) *CatalogHandler[T, CreateDTO, ResponseDTO] {
	return &CatalogHandler[T, CreateDTO, ResponseDTO]{
		BaseHandler:  base,
		service:      cfg.Service,
		mapCreateDTO: cfg.MapCreateDTO,
		mapToDTO:     cfg.MapToDTO,
	}
}

// List handles GET /{entity}?search&limit&offset.
func (h *CatalogHandler[T, CreateDTO, ResponseDTO]) List(c *gin.Context) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")

	var ok bool
	if filter.Limit, ok = h.ParseIntQuery(c, "limit", filter.Limit); !ok {
		return
	}
	if filter.Offset, ok = h.ParseIntQuery(c, "offset", 0); !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]ResponseDTO, len(items))
	for i, item := range items {
		out[i] = h.mapToDTO(item)
	}
	h.OK(c, gin.H{"items": out, "limit": filter.Limit, "offset": filter.Offset})
}

// Get handles GET /{entity}/:id.
func (h *CatalogHandler[T, CreateDTO, ResponseDTO]) Get(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	entity, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.mapToDTO(entity))
}

// Create handles POST /{entity}.
func (h *CatalogHandler[T, CreateDTO, ResponseDTO]) Create(c *gin.Context) {
	var req CreateDTO
	if !h.BindJSON(c, &req) {
		return
	}

	entity := h.mapCreateDTO(req)
	if err := h.service.Create(c.Request.Context(), entity); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.mapToDTO(entity))
}
