package command

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// UpdateProductCommand represents a partial product update. Nil pointer
// fields keep their stored value; flag fields are coerced only when
// supplied. Category links are always replaced from CategoryIDs, so an
// empty set clears them.
type UpdateProductCommand struct {
	ID          string
	Name        *string
	SKU         *string
	Description *string
	Price       *float64
	OldPrice    *float64
	Quantity    *int
	InStock     *string
	Threshold   *int
	Trending    *string
	BestSeller  *string
	NewArrival  *string
	CategoryIDs []string
	Files       []*multipart.FileHeader
}

// UpdateProductHandler coordinates the transactional update.
type UpdateProductHandler struct {
	repo   domain.ProductWriter
	store  domain.ImageStore
	events EventPublisher
}

func NewUpdateProductHandler(repo domain.ProductWriter, store domain.ImageStore, events EventPublisher) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, store: store, events: events}
}

// Handle merges the supplied fields into the stored product, replaces
// its category links wholesale, and appends any newly uploaded images
// (replacing the stored primary). Rollback and blob cleanup semantics
// match create. The old primary image's blob file is left in place,
// matching the API's historical behavior.
func (h *UpdateProductHandler) Handle(cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := h.repo.FindByID(cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		product.Name = *cmd.Name
	}
	if cmd.SKU != nil {
		product.SKU = *cmd.SKU
	}
	if cmd.Description != nil {
		product.Description = *cmd.Description
	}
	if cmd.Price != nil {
		product.Price = *cmd.Price
	}
	if cmd.OldPrice != nil {
		product.OldPrice = cmd.OldPrice
	}
	if cmd.Quantity != nil {
		product.Quantity = *cmd.Quantity
	}
	if cmd.InStock != nil {
		product.InStock = truthy(*cmd.InStock)
	}
	if cmd.Threshold != nil {
		product.LowStockThreshold = *cmd.Threshold
	}
	if cmd.Trending != nil {
		product.Trending = truthy(*cmd.Trending)
	}
	if cmd.BestSeller != nil {
		product.BestSeller = truthy(*cmd.BestSeller)
	}
	if cmd.NewArrival != nil {
		product.NewArrival = truthy(*cmd.NewArrival)
	}
	product.UpdatedAt = time.Now()

	categoryIDs := []string{}
	for _, id := range cmd.CategoryIDs {
		if strings.TrimSpace(id) != "" {
			categoryIDs = append(categoryIDs, id)
		}
	}

	var (
		newImages []domain.ProductImage
		savedURLs []string
	)
	ctx := context.Background()
	for i, file := range cmd.Files {
		url, err := h.store.Save(ctx, file)
		if err != nil {
			cleanupBlobs(h.store, savedURLs)
			return nil, err
		}
		savedURLs = append(savedURLs, url)

		imageType := domain.ImageTypeGallery
		if i == 0 {
			imageType = domain.ImageTypePrimary
		}
		newImages = append(newImages, domain.ProductImage{URL: url, Type: imageType})
	}

	if err := h.repo.UpdateWithAssociations(product, categoryIDs, newImages); err != nil {
		cleanupBlobs(h.store, savedURLs)
		return nil, err
	}

	publish(h.events, EventProductUpdated, product)
	return product, nil
}
