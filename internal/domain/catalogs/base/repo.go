package base

import (
	"logitrack/internal/domain"
)

// Repository defines the interface for Base persistence.
type Repository interface {
	domain.CatalogRepository[*Base]
}
