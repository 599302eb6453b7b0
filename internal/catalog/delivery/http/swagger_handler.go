package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListProducts godoc
// @Summary List products
// @Description Public catalog listing, in-stock products only
// @Tags Products
// @Produce json
// @Param search query string false "Substring match on name or description"
// @Param category query string false "Category id"
// @Param trending query string false "Only trending products when true"
// @Param best_seller query string false "Only best sellers when true"
// @Param new_arrival query string false "Only new arrivals when true"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.ProductView
// @Failure 500 {object} object{error=string}
// @Router /api/products [get]
func (h *CatalogHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} domain.ProductView
// @Failure 404 {object} object{error=string}
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProductDoc() {}

// ListCategories godoc
// @Summary List categories
// @Tags Products
// @Produce json
// @Success 200 {array} domain.Category
// @Router /api/categories [get]
func (h *CatalogHandler) ListCategoriesDoc() {}

// AdminListProducts godoc
// @Summary List products for administration
// @Description Admin listing with status filter and pagination metadata
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "active, out-of-stock or draft"
// @Success 200 {object} object{products=[]domain.ProductView,pagination=object{total=int,limit=int,offset=int,hasMore=bool}}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /api/admin/products [get]
func (h *CatalogHandler) AdminListProductsDoc() {}

// CreateProduct godoc
// @Summary Create a product
// @Description Multipart create with category links and up to 8 images (5MB each)
// @Tags Admin
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Success 201 {object} object{message=string,product=domain.Product}
// @Failure 400 {object} object{error=string}
// @Router /api/admin/products [post]
func (h *CatalogHandler) CreateProductDoc() {}

// UpdateProduct godoc
// @Summary Update a product
// @Description Partial multipart update; categories are replaced wholesale
// @Tags Admin
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} object{message=string,product=domain.Product}
// @Failure 404 {object} object{error=string}
// @Router /api/admin/products/{id} [put]
func (h *CatalogHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /api/admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProductDoc() {}

// BulkDeleteProducts godoc
// @Summary Delete several products
// @Description Nonexistent ids are skipped; the response lists the ids actually deleted
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{productIds=[]string} true "Product ids"
// @Success 200 {object} object{message=string,deletedIds=[]string}
// @Failure 400 {object} object{error=string}
// @Router /api/admin/products [delete]
func (h *CatalogHandler) BulkDeleteProductsDoc() {}
