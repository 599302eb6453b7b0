//go:build wireinject
// +build wireinject

package catalog

import (
	"database/sql"

	"github.com/google/wire"
	"gorm.io/gorm"

	httpDelivery "github.com/almast/trendmart/internal/catalog/delivery/http"
	"github.com/almast/trendmart/internal/catalog/domain"
	"github.com/almast/trendmart/internal/catalog/repository"
	"github.com/almast/trendmart/internal/catalog/usecase/command"
	"github.com/almast/trendmart/internal/catalog/usecase/query"
)

// ProvideProductReader provides the traced read-side repository
func ProvideProductReader(db *sql.DB) domain.ProductReader {
	return repository.NewSQLProductReaderWithTracing(repository.NewSQLProductReader(db))
}

// ProvideProductWriter provides the transactional write-side repository
func ProvideProductWriter(db *gorm.DB) domain.ProductWriter {
	return repository.NewGormProductRepository(db)
}

// ProviderSet is the Wire provider set for the catalog module
var ProviderSet = wire.NewSet(
	ProvideProductReader,
	ProvideProductWriter,
	command.NewCreateProductHandler,
	command.NewUpdateProductHandler,
	command.NewDeleteProductHandler,
	command.NewBulkDeleteProductsHandler,
	query.NewListProductsHandler,
	query.NewAdminListProductsHandler,
	query.NewGetProductHandler,
	query.NewListCategoriesHandler,
	httpDelivery.NewCatalogHandlerWithDI,
)

// InitializeCatalogHandler wires the catalog HTTP handler
func InitializeCatalogHandler(
	sqlDB *sql.DB,
	gormDB *gorm.DB,
	store domain.ImageStore,
	events command.EventPublisher,
	cache *httpDelivery.ResponseCache,
	dev bool,
) (*httpDelivery.CatalogHandler, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
