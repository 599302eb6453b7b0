package command

import (
	"github.com/almast/trendmart/internal/catalog/domain"
)

// BulkDeleteProductsCommand represents the command to delete a set of
// products at once.
type BulkDeleteProductsCommand struct {
	IDs []string
}

// BulkDeleteProductsHandler coordinates the bulk delete.
type BulkDeleteProductsHandler struct {
	repo   domain.ProductWriter
	store  domain.ImageStore
	events EventPublisher
}

func NewBulkDeleteProductsHandler(repo domain.ProductWriter, store domain.ImageStore, events EventPublisher) *BulkDeleteProductsHandler {
	return &BulkDeleteProductsHandler{repo: repo, store: store, events: events}
}

// Handle deletes all matching product rows in one statement and then
// best-effort removes their blob files. Nonexistent ids are silently
// skipped; the returned slice holds the ids actually deleted.
func (h *BulkDeleteProductsHandler) Handle(cmd BulkDeleteProductsCommand) ([]string, error) {
	if len(cmd.IDs) == 0 {
		return nil, &domain.ValidationError{Field: "productIds", Reason: "productIds must be a non-empty list"}
	}

	deleted, images, err := h.repo.BulkDelete(cmd.IDs)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img.URL != domain.PlaceholderImageURL {
			urls = append(urls, img.URL)
		}
	}
	cleanupBlobs(h.store, urls)

	for _, id := range deleted {
		publish(h.events, EventProductDeleted, &domain.Product{ID: id})
	}
	return deleted, nil
}
