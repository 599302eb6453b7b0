package command

import (
	"github.com/almast/trendmart/internal/catalog/domain"
)

// DeleteProductCommand represents the command to delete one product.
type DeleteProductCommand struct {
	ID string
}

// DeleteProductHandler coordinates the transactional delete.
type DeleteProductHandler struct {
	repo   domain.ProductWriter
	store  domain.ImageStore
	events EventPublisher
}

func NewDeleteProductHandler(repo domain.ProductWriter, store domain.ImageStore, events EventPublisher) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, store: store, events: events}
}

// Handle deletes the product row (category links and image rows cascade
// at the database) and then best-effort removes each image's blob file.
// The image rows are collected within the delete transaction, never
// after it.
func (h *DeleteProductHandler) Handle(cmd DeleteProductCommand) error {
	images, err := h.repo.DeleteCascade(cmd.ID)
	if err != nil {
		return err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img.URL != domain.PlaceholderImageURL {
			urls = append(urls, img.URL)
		}
	}
	cleanupBlobs(h.store, urls)

	publish(h.events, EventProductDeleted, &domain.Product{ID: cmd.ID})
	return nil
}
