// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"logitrack/internal/core/security"
	"logitrack/internal/core/tx"
	"logitrack/internal/domain/audit"
	"logitrack/internal/domain/catalogs/base"
	"logitrack/internal/domain/catalogs/equipment"
	"logitrack/internal/domain/dashboard"
	"logitrack/internal/domain/movements"
	"logitrack/internal/infrastructure/http/v1/dto"
	"logitrack/internal/infrastructure/http/v1/handlers"
	"logitrack/internal/infrastructure/http/v1/middleware"
	"logitrack/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// ServiceName labels otelgin spans
	ServiceName string

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// DB backs the readiness and info endpoints
	DB handlers.DBPinger

	// TxManager is shared by every service
	TxManager tx.Manager

	// Audit records every write
	Audit audit.Recorder

	BaseRepo      base.Repository
	EquipmentRepo equipment.Repository
	DashboardRepo dashboard.Repository
	MovementRepo  movements.Repository

	// Numbers issues transfer numbers
	Numbers movements.NumberGenerator

	// Development enables gin debug mode
	Development bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	if cfg.DB != nil {
		healthHandler := handlers.NewHealthHandler(cfg.DB)
		health := router.Group("/health")
		{
			health.GET("/live", healthHandler.Live)
			health.GET("/ready", healthHandler.Ready)
			health.GET("/info", healthHandler.Info)
		}
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.JWTValidator))
	api.Use(middleware.UserContext())
	{
		registerDashboardRoutes(api, cfg)
		registerCatalogRoutes(api, cfg)
		registerMovementRoutes(api, cfg)
	}

	return router
}

// registerDashboardRoutes registers metrics and activity feed endpoints.
func registerDashboardRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	service := dashboard.NewService(cfg.DashboardRepo, cfg.TxManager)
	handler := handlers.NewDashboardHandler(handlers.NewBaseHandler(), service)

	group := rg.Group("/dashboard")
	group.GET("/metrics", handler.Metrics)
	group.GET("/recent-activity", handler.RecentActivity)
	group.GET("/net-movement", handler.NetMovement)
}

// registerCatalogRoutes registers base and equipment type endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- BASES ---
	{
		service := base.NewService(cfg.BaseRepo, cfg.TxManager, cfg.Audit)
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*base.Base, dto.CreateBaseRequest, dto.BaseResponse]{
			Service:      service,
			MapCreateDTO: dto.CreateBaseRequest.ToEntity,
			MapToDTO:     dto.FromBase,
		})
		RegisterCatalogRoutes(rg.Group("/bases"), handler, security.RolesFor(security.ActionCreateBase)...)
	}

	// --- EQUIPMENT TYPES ---
	{
		service := equipment.NewService(cfg.EquipmentRepo, cfg.TxManager, cfg.Audit)
		handler := handlers.NewCatalogHandler(baseHandler, handlers.CatalogHandlerConfig[*equipment.EquipmentType, dto.CreateEquipmentTypeRequest, dto.EquipmentTypeResponse]{
			Service:      service,
			MapCreateDTO: dto.CreateEquipmentTypeRequest.ToEntity,
			MapToDTO:     dto.FromEquipmentType,
		})
		RegisterCatalogRoutes(rg.Group("/equipment-types"), handler, security.RolesFor(security.ActionCreateEquipmentType)...)
	}
}

// registerMovementRoutes registers purchase, transfer, assignment and expenditure endpoints.
// The service repeats every role check.
func registerMovementRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	service := movements.NewService(cfg.MovementRepo, cfg.TxManager, cfg.Audit, cfg.Numbers)
	h := handlers.NewMovementHandler(handlers.NewBaseHandler(), service)

	purchases := rg.Group("/purchases")
	purchases.GET("", h.ListPurchases)
	purchases.POST("", h.CreatePurchase)

	transfers := rg.Group("/transfers")
	transfers.GET("", h.ListTransfers)
	transfers.POST("", h.CreateTransfer)
	transfers.PATCH("/:id/status", h.UpdateTransferStatus)

	assignments := rg.Group("/assignments")
	assignments.GET("", h.ListAssignments)
	assignments.POST("", middleware.RequireRole(security.RolesFor(security.ActionAssignment)...), h.CreateAssignment)
	assignments.PATCH("/:id/status", middleware.RequireRole(security.RolesFor(security.ActionAssignmentStatus)...), h.UpdateAssignmentStatus)

	expenditures := rg.Group("/expenditures")
	expenditures.GET("", h.ListExpenditures)
	expenditures.POST("", middleware.RequireRole(security.RolesFor(security.ActionExpenditure)...), h.CreateExpenditure)
}
