package query

import (
	"fmt"
	"slices"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// AdminListProductsQuery represents the admin listing request. Unlike
// the public listing it has no default stock scope and supports the
// derived status filter.
type AdminListProductsQuery struct {
	Search     string
	Category   string
	Trending   string
	BestSeller string
	NewArrival string
	Status     string
	Limit      int
	Offset     int
}

// AdminListing is the admin listing result with pagination metadata.
type AdminListing struct {
	Products []domain.ProductView `json:"products"`
	Total    int64                `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	HasMore  bool                 `json:"hasMore"`
}

// AdminListProductsHandler handles the admin listing query.
type AdminListProductsHandler struct {
	repo domain.ProductReader
}

func NewAdminListProductsHandler(repo domain.ProductReader) *AdminListProductsHandler {
	return &AdminListProductsHandler{repo: repo}
}

// Handle executes the admin listing with a total count over the same
// filters (minus pagination) and a derived status per product.
func (h *AdminListProductsHandler) Handle(q AdminListProductsQuery) (*AdminListing, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	filter := domain.ListFilter{
		Search:     q.Search,
		Trending:   q.Trending,
		BestSeller: q.BestSeller,
		NewArrival: q.NewArrival,
		Status:     q.Status,
		Limit:      limit,
		Offset:     offset,
		Admin:      true,
	}

	products, err := h.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	total, err := h.repo.CountFiltered(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	views := []domain.ProductView{}
	for _, p := range products {
		view := assembleView(h.repo, p, true)
		if q.Category != "" && !slices.Contains(view.Categories, q.Category) {
			continue
		}
		views = append(views, view)
	}

	return &AdminListing{
		Products: views,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		HasMore:  int64(offset+limit) < total,
	}, nil
}
