package catalog_repo

import (
	"logitrack/internal/domain/catalogs/equipment"
	"logitrack/internal/infrastructure/storage/postgres"
)

// Compile-time check that EquipmentTypeRepo implements equipment.Repository interface.
var _ equipment.Repository = (*EquipmentTypeRepo)(nil)

// EquipmentTypeRepo stores equipment types.
type EquipmentTypeRepo struct {
	*BaseCatalogRepo[*equipment.EquipmentType]
}

// NewEquipmentTypeRepo creates a new equipment type repository.
func NewEquipmentTypeRepo(txManager *postgres.TxManager) *EquipmentTypeRepo {
	return &EquipmentTypeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"equipment_types",
			postgres.ExtractDBColumns[equipment.EquipmentType](),
			func() *equipment.EquipmentType { return &equipment.EquipmentType{} },
		),
	}
}
