package v1

import (
	"github.com/gin-gonic/gin"

	"logitrack/internal/core/security"
	"logitrack/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

// RegisterCatalogRoutes registers list/get/create routes for a catalog.
// Reads are open to every role; creation is limited to writers.
//
// Usage:
//
//	repo := catalog_repo.NewBaseRepo(cfg.TxManager)
//	service := base.NewService(repo, cfg.TxManager, cfg.Audit)
//	RegisterCatalogRoutes(api.Group("/bases"), handler, security.RoleAdmin)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, writers ...security.Role) {
	group.GET("", handler.List)
	group.GET("/:id", handler.Get)
	group.POST("", middleware.RequireRole(writers...), handler.Create)
}
