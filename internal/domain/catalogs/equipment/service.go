package equipment

import (
	"logitrack/internal/core/security"
	"logitrack/internal/core/tx"
	"logitrack/internal/domain"
	"logitrack/internal/domain/audit"
)

// Service provides business logic for the EquipmentType catalog.
type Service struct {
	*domain.CatalogService[*EquipmentType]
}

// NewService creates a new EquipmentType service. Only admins create types.
func NewService(repo Repository, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*EquipmentType]{
			Repo:         repo,
			TxManager:    txManager,
			Audit:        recorder,
			CreateAction: security.ActionCreateEquipmentType,
			EntityName:   "equipment_type",
		}),
	}
}
