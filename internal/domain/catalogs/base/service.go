package base

import (
	"logitrack/internal/core/security"
	"logitrack/internal/core/tx"
	"logitrack/internal/domain"
	"logitrack/internal/domain/audit"
)

// Service provides business logic for the Base catalog.
type Service struct {
	*domain.CatalogService[*Base]
}

// NewService creates a new Base service. Only admins create bases.
func NewService(repo Repository, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Base]{
			Repo:         repo,
			TxManager:    txManager,
			Audit:        recorder,
			CreateAction: security.ActionCreateBase,
			EntityName:   "base",
		}),
	}
}
