package command

import (
	"errors"
	"testing"

	"github.com/almast/trendmart/internal/catalog/domain"
)

func validCreate() CreateProductCommand {
	return CreateProductCommand{
		Name:     "Desk Lamp",
		SKU:      "HOME-LAMP-001",
		Price:    ptr(34.99),
		Quantity: ptr(12),
	}
}

func TestCreateProductRequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*CreateProductCommand)
	}{
		{"name", func(c *CreateProductCommand) { c.Name = "" }},
		{"sku", func(c *CreateProductCommand) { c.SKU = "" }},
		{"price", func(c *CreateProductCommand) { c.Price = nil }},
		{"quantity", func(c *CreateProductCommand) { c.Quantity = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			repo := newFakeWriter()
			handler := NewCreateProductHandler(repo, newFakeStore(), nil)

			cmd := validCreate()
			tt.mutate(&cmd)
			_, err := handler.Handle(cmd)

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
			if len(repo.products) != 0 {
				t.Errorf("nothing should be written on validation failure")
			}
		})
	}
}

func TestCreateProductDefaults(t *testing.T) {
	repo := newFakeWriter()
	handler := NewCreateProductHandler(repo, newFakeStore(), nil)

	product, err := handler.Handle(validCreate())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !product.InStock {
		t.Errorf("in_stock must default to true")
	}
	if product.LowStockThreshold != 5 {
		t.Errorf("low stock threshold = %d, want 5", product.LowStockThreshold)
	}
	if product.ID == "" {
		t.Errorf("product must receive a generated id")
	}
	if product.Trending || product.BestSeller || product.NewArrival {
		t.Errorf("flags must default to false")
	}
}

func TestCreateProductPlaceholderImage(t *testing.T) {
	repo := newFakeWriter()
	handler := NewCreateProductHandler(repo, newFakeStore(), nil)

	product, err := handler.Handle(validCreate())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	images := repo.images[product.ID]
	if len(images) != 1 {
		t.Fatalf("images = %d, want 1 placeholder", len(images))
	}
	if images[0].URL != domain.PlaceholderImageURL || images[0].Type != domain.ImageTypePrimary {
		t.Errorf("placeholder row = %+v", images[0])
	}
}

func TestCreateProductFirstUploadIsPrimary(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	handler := NewCreateProductHandler(repo, store, nil)

	cmd := validCreate()
	cmd.Files = append(cmd.Files, file("front.jpg"), file("back.jpg"), file("side.jpg"))

	product, err := handler.Handle(cmd)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	images := repo.images[product.ID]
	if len(images) != 3 {
		t.Fatalf("images = %d, want 3", len(images))
	}
	if images[0].Type != domain.ImageTypePrimary {
		t.Errorf("first upload must become the primary image, got %q", images[0].Type)
	}
	for _, img := range images[1:] {
		if img.Type != domain.ImageTypeGallery {
			t.Errorf("later uploads must be gallery images, got %q", img.Type)
		}
	}
}

func TestCreateProductSkipsBlankCategories(t *testing.T) {
	repo := newFakeWriter()
	handler := NewCreateProductHandler(repo, newFakeStore(), nil)

	cmd := validCreate()
	cmd.CategoryIDs = []string{"electronics", "", "  ", "home"}

	product, err := handler.Handle(cmd)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	links := repo.links[product.ID]
	if len(links) != 2 || links[0] != "electronics" || links[1] != "home" {
		t.Errorf("links = %v, want [electronics home]", links)
	}
}

func TestCreateProductDuplicateSKUCleansBlobs(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	handler := NewCreateProductHandler(repo, store, nil)

	if _, err := handler.Handle(validCreate()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	cmd := validCreate()
	cmd.Files = append(cmd.Files, file("dup.jpg"))
	_, err := handler.Handle(cmd)
	if !errors.Is(err, domain.ErrDuplicateSKU) {
		t.Fatalf("expected duplicate sku error, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != store.saved[0] {
		t.Errorf("stored file must be cleaned up after the failed insert, deleted = %v", store.deleted)
	}
}

func TestCreateProductStoreFailureCleansEarlierBlobs(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	store.failAfter = 2
	handler := NewCreateProductHandler(repo, store, nil)

	cmd := validCreate()
	cmd.Files = append(cmd.Files, file("a.jpg"), file("b.jpg"), file("c.jpg"))

	_, err := handler.Handle(cmd)
	if err == nil {
		t.Fatal("expected store failure")
	}
	if len(repo.products) != 0 {
		t.Errorf("no product row may exist after a store failure")
	}
	if len(store.deleted) != 2 {
		t.Errorf("both stored files must be cleaned up, deleted = %v", store.deleted)
	}
}

func TestCreateProductPublishesEvent(t *testing.T) {
	repo := newFakeWriter()
	events := &fakeEvents{}
	handler := NewCreateProductHandler(repo, newFakeStore(), events)

	product, err := handler.Handle(validCreate())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(events.published) != 1 || events.published[0] != EventProductCreated+" "+product.ID {
		t.Errorf("published = %v", events.published)
	}
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "on", "yes"} {
		if !truthy(v) {
			t.Errorf("truthy(%q) = false", v)
		}
	}
	for _, v := range []string{"", "false", "0", "no", "maybe"} {
		if truthy(v) {
			t.Errorf("truthy(%q) = true", v)
		}
	}
}
