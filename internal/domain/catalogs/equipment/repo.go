package equipment

import (
	"logitrack/internal/domain"
)

// Repository defines the interface for EquipmentType persistence.
type Repository interface {
	domain.CatalogRepository[*EquipmentType]
}
