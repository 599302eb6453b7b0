package command

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/almast/trendmart/internal/catalog/domain"
	"github.com/almast/trendmart/pkg/logger"
)

// EventPublisher announces catalog mutations to interested consumers.
// Publishing is best-effort; a nil publisher disables it.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, eventType string, p *domain.Product) error
}

// Catalog event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// truthy coerces a form value the way the API has always done: only an
// explicit true-ish value enables the flag.
func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}

// newProductID generates a fresh time-based identity. Collisions within
// the process's clock resolution are accepted as negligible.
func newProductID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// publish sends a catalog event without failing the enclosing request.
func publish(events EventPublisher, eventType string, p *domain.Product) {
	if events == nil {
		return
	}
	ctx := context.Background()
	if err := events.PublishProductEvent(ctx, eventType, p); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", eventType).Str("product_id", p.ID).Msg("Failed to publish catalog event")
	}
}

// cleanupBlobs best-effort deletes files already written for a failed
// request. Failures are logged, never escalated.
func cleanupBlobs(store domain.ImageStore, urls []string) {
	ctx := context.Background()
	for _, url := range urls {
		if err := store.Delete(ctx, url); err != nil {
			logger.Warn(ctx).Err(err).Str("url", url).Msg("Failed to remove uploaded file")
		}
	}
}

// CreateProductCommand represents the command to create a product with
// its category links and uploaded images. Pointer fields distinguish
// absent inputs from zero values.
type CreateProductCommand struct {
	Name        string
	SKU         string
	Description string
	Price       *float64
	OldPrice    *float64
	Quantity    *int
	InStock     *string // raw form value, truthy-coerced
	Threshold   *int
	Trending    string
	BestSeller  string
	NewArrival  string
	CategoryIDs []string
	Files       []*multipart.FileHeader
}

// CreateProductHandler coordinates the transactional create.
type CreateProductHandler struct {
	repo   domain.ProductWriter
	store  domain.ImageStore
	events EventPublisher
}

func NewCreateProductHandler(repo domain.ProductWriter, store domain.ImageStore, events EventPublisher) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, store: store, events: events}
}

// Handle validates the input, stores the uploaded files, and inserts
// the product with its associations in one transaction. On failure all
// rows are rolled back and the stored files are removed best-effort.
func (h *CreateProductHandler) Handle(cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "name is required"}
	}
	if cmd.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "sku is required"}
	}
	if cmd.Price == nil {
		return nil, &domain.ValidationError{Field: "price", Reason: "price is required"}
	}
	if cmd.Quantity == nil {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "quantity is required"}
	}

	inStock := true
	if cmd.InStock != nil {
		inStock = truthy(*cmd.InStock)
	}
	threshold := 5
	if cmd.Threshold != nil {
		threshold = *cmd.Threshold
	}

	now := time.Now()
	product := &domain.Product{
		ID:                newProductID(),
		Name:              cmd.Name,
		SKU:               cmd.SKU,
		Description:       cmd.Description,
		Price:             *cmd.Price,
		OldPrice:          cmd.OldPrice,
		Quantity:          *cmd.Quantity,
		InStock:           inStock,
		LowStockThreshold: threshold,
		Trending:          truthy(cmd.Trending),
		BestSeller:        truthy(cmd.BestSeller),
		NewArrival:        truthy(cmd.NewArrival),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	categoryIDs := []string{}
	for _, id := range cmd.CategoryIDs {
		if strings.TrimSpace(id) != "" {
			categoryIDs = append(categoryIDs, id)
		}
	}

	// Files go to the blob store first; their rows join the product's
	// transaction, the first upload tagged primary.
	var (
		images    []domain.ProductImage
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
		images = append(images, domain.ProductImage{URL: url, Type: imageType})
	}
	if len(images) == 0 {
		images = append(images, domain.ProductImage{URL: domain.PlaceholderImageURL, Type: domain.ImageTypePrimary})
	}

	if err := h.repo.CreateWithAssociations(product, categoryIDs, images); err != nil {
		cleanupBlobs(h.store, savedURLs)
		return nil, err
	}

	publish(h.events, EventProductCreated, product)
	return product, nil
}
