package repositories

import (
	"context"

	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// CatalogRepository provides read access to the master data of all resources,
// skills, requirements and consumables. The catalog is single-tenant and unscoped.
type CatalogRepository interface {
	// LoadCatalog returns a consistent snapshot used for the duration of one search run
	LoadCatalog(ctx context.Context) (*entities.Catalog, error)
}
