package catalog_repo

import (
	"logitrack/internal/domain/catalogs/base"
	"logitrack/internal/infrastructure/storage/postgres"
)

// Compile-time check that BaseRepo implements base.Repository interface.
var _ base.Repository = (*BaseRepo)(nil)

// BaseRepo stores bases.
type BaseRepo struct {
	*BaseCatalogRepo[*base.Base]
}

// NewBaseRepo creates a new base repository.
func NewBaseRepo(txManager *postgres.TxManager) *BaseRepo {
	return &BaseRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			"bases",
			postgres.ExtractDBColumns[base.Base](),
			func() *base.Base { return &base.Base{} },
		),
	}
}
