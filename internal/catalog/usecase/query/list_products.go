package query

import (
	"context"
	"fmt"
	"slices"

	"github.com/almast/trendmart/internal/catalog/domain"
	"github.com/almast/trendmart/pkg/logger"
)

// DefaultLimit is applied when a listing request carries no limit.
const DefaultLimit = 20

// ListProductsQuery represents the public catalog listing request.
type ListProductsQuery struct {
	Search     string
	Category   string
	Trending   string
	BestSeller string
	NewArrival string
	Limit      int
	Offset     int
}

// ListProductsHandler handles the public listing query.
type ListProductsHandler struct {
	repo domain.ProductReader
}

func NewListProductsHandler(repo domain.ProductReader) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// assembleView enriches a product row with its category and image
// side-data. A failed side-fetch degrades to empty lists rather than
// failing the request.
func assembleView(repo domain.ProductReader, p domain.Product, admin bool) domain.ProductView {
	view := domain.ProductView{
		Product:      p,
		Categories:   []string{},
		Images:       []domain.ProductImage{},
		PrimaryImage: domain.PlaceholderImageURL,
	}
	if admin {
		view.Status = p.Status()
	}

	categories, err := repo.CategoriesFor(p.ID)
	if err != nil {
		logger.Warn(context.Background()).Err(err).Str("product_id", p.ID).Msg("Failed to fetch product categories")
	} else {
		view.Categories = categories
	}

	images, err := repo.ImagesFor(p.ID)
	if err != nil {
		logger.Warn(context.Background()).Err(err).Str("product_id", p.ID).Msg("Failed to fetch product images")
		return view
	}
	view.Images = images

	for _, img := range images {
		if img.Type == domain.ImageTypePrimary {
			view.PrimaryImage = img.URL
			break
		}
	}
	return view
}

// Handle executes the public listing. Note that the category filter is
// applied after pagination, so a page can come back shorter than the
// requested limit while more matching products exist.
func (h *ListProductsHandler) Handle(q ListProductsQuery) ([]domain.ProductView, error) {
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
		Limit:      limit,
		Offset:     offset,
	}

	products, err := h.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	views := []domain.ProductView{}
	for _, p := range products {
		view := assembleView(h.repo, p, false)
		if q.Category != "" && !slices.Contains(view.Categories, q.Category) {
			continue
		}
		views = append(views, view)
	}

	return views, nil
}
