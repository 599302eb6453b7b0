package command

import (
	"errors"
	"mime/multipart"
	"testing"

	"github.com/almast/trendmart/internal/catalog/domain"
)

func seedProduct(t *testing.T, repo *fakeWriter, store *fakeStore) *domain.Product {
	t.Helper()
	handler := NewCreateProductHandler(repo, store, nil)
	cmd := validCreate()
	cmd.CategoryIDs = []string{"home"}
	cmd.Files = append(cmd.Files, file("front.jpg"), file("back.jpg"))
	product, err := handler.Handle(cmd)
	if err != nil {
		t.Fatalf("seed create: %v", err)
	}
	return product
}

func TestUpdateProductNotFound(t *testing.T) {
	handler := NewUpdateProductHandler(newFakeWriter(), newFakeStore(), nil)
	_, err := handler.Handle(UpdateProductCommand{ID: "missing"})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestUpdateProductPartialMerge(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	existing := seedProduct(t, repo, store)
	handler := NewUpdateProductHandler(repo, store, nil)

	updated, err := handler.Handle(UpdateProductCommand{
		ID:          existing.ID,
		Price:       ptr(19.99),
		CategoryIDs: []string{"home"},
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if updated.Price != 19.99 {
		t.Errorf("price = %v, want 19.99", updated.Price)
	}
	if updated.Name != existing.Name || updated.SKU != existing.SKU || updated.Quantity != existing.Quantity {
		t.Errorf("unsupplied fields must keep their stored values: %+v", updated)
	}
	if !updated.UpdatedAt.After(existing.UpdatedAt) {
		t.Errorf("updated_at must move forward")
	}
}

func TestUpdateProductOmittedCategoriesClearLinks(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	existing := seedProduct(t, repo, store)
	handler := NewUpdateProductHandler(repo, store, nil)

	if _, err := handler.Handle(UpdateProductCommand{ID: existing.ID}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if links := repo.links[existing.ID]; len(links) != 0 {
		t.Errorf("links are replaced wholesale, omitting them must clear: %v", links)
	}
}

func TestUpdateProductReplacesCategories(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	existing := seedProduct(t, repo, store)
	handler := NewUpdateProductHandler(repo, store, nil)

	if _, err := handler.Handle(UpdateProductCommand{
		ID:          existing.ID,
		CategoryIDs: []string{"accessories", "apparel"},
	}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	links := repo.links[existing.ID]
	if len(links) != 2 || links[0] != "accessories" || links[1] != "apparel" {
		t.Errorf("links = %v, want [accessories apparel]", links)
	}
}

func TestUpdateProductNewUploadsReplacePrimary(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	existing := seedProduct(t, repo, store)
	handler := NewUpdateProductHandler(repo, store, nil)

	if _, err := handler.Handle(UpdateProductCommand{
		ID:    existing.ID,
		Files: []*multipart.FileHeader{file("new.jpg")},
	}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	images := repo.images[existing.ID]
	primaries := 0
	for _, img := range images {
		if img.Type == domain.ImageTypePrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Fatalf("exactly one primary image expected, got %d in %+v", primaries, images)
	}
	last := images[len(images)-1]
	if last.Type != domain.ImageTypePrimary {
		t.Errorf("the new upload must be appended after the gallery, got %+v", images)
	}
	if last.SortOrder <= 0 {
		t.Errorf("new image must sort after the kept gallery rows, got %d", last.SortOrder)
	}
}

func TestUpdateProductWithoutUploadsKeepsImages(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	existing := seedProduct(t, repo, store)
	handler := NewUpdateProductHandler(repo, store, nil)

	before := len(repo.images[existing.ID])
	if _, err := handler.Handle(UpdateProductCommand{ID: existing.ID, Name: ptr("Renamed")}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if after := len(repo.images[existing.ID]); after != before {
		t.Errorf("image rows must be untouched without uploads: %d != %d", after, before)
	}
}

func TestUpdateProductRepoFailureCleansNewBlobs(t *testing.T) {
	repo := newFakeWriter()
	store := newFakeStore()
	existing := seedProduct(t, repo, store)
	repo.updateErr = errors.New("deadlock")
	handler := NewUpdateProductHandler(repo, store, nil)

	savedBefore := len(store.saved)
	_, err := handler.Handle(UpdateProductCommand{ID: existing.ID, Files: []*multipart.FileHeader{file("new.jpg")}})
	if err == nil {
		t.Fatal("expected repository failure")
	}
	if len(store.deleted) != 1 || store.deleted[0] != store.saved[savedBefore] {
		t.Errorf("the newly stored blob must be cleaned up, deleted = %v", store.deleted)
	}
}
