package query

import (
	"fmt"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// ListCategoriesQuery represents the query for all categories.
type ListCategoriesQuery struct{}

// ListCategoriesHandler handles the category listing query.
type ListCategoriesHandler struct {
	repo domain.ProductReader
}

func NewListCategoriesHandler(repo domain.ProductReader) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

// Handle executes the query.
func (h *ListCategoriesHandler) Handle(ListCategoriesQuery) ([]domain.Category, error) {
	categories, err := h.repo.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
