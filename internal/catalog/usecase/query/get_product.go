package query

import (
	"github.com/almast/trendmart/internal/catalog/domain"
)

// GetProductQuery represents the query to fetch a single product view.
type GetProductQuery struct {
	ID    string
	Admin bool
}

// GetProductHandler handles the get product query.
type GetProductHandler struct {
	repo domain.ProductReader
}

func NewGetProductHandler(repo domain.ProductReader) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle fetches the product and assembles its view.
func (h *GetProductHandler) Handle(q GetProductQuery) (*domain.ProductView, error) {
	product, err := h.repo.FindByID(q.ID)
	if err != nil {
		return nil, err
	}

	view := assembleView(h.repo, *product, q.Admin)
	return &view, nil
}
