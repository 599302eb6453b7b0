package command

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"slices"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// fakeWriter is an in-memory ProductWriter mirroring the transactional
// repository's observable behavior.
type fakeWriter struct {
	products map[string]*domain.Product
	links    map[string][]string
	images   map[string][]domain.ProductImage

	createErr error
	updateErr error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		products: map[string]*domain.Product{},
		links:    map[string][]string{},
		images:   map[string][]domain.ProductImage{},
	}
}

func (f *fakeWriter) FindByID(id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeWriter) CreateWithAssociations(p *domain.Product, categoryIDs []string, images []domain.ProductImage) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.products {
		if existing.SKU == p.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	copied := *p
	f.products[p.ID] = &copied
	f.links[p.ID] = slices.Clone(categoryIDs)
	for i, img := range images {
		img.ProductID = p.ID
		img.SortOrder = i
		f.images[p.ID] = append(f.images[p.ID], img)
	}
	return nil
}

func (f *fakeWriter) UpdateWithAssociations(p *domain.Product, categoryIDs []string, newImages []domain.ProductImage) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *p
	f.products[p.ID] = &copied
	f.links[p.ID] = slices.Clone(categoryIDs)
	if len(newImages) > 0 {
		kept := f.images[p.ID][:0:0]
		maxOrder := -1
		for _, img := range f.images[p.ID] {
			if img.Type == domain.ImageTypePrimary {
				continue
			}
			kept = append(kept, img)
			if img.SortOrder > maxOrder {
				maxOrder = img.SortOrder
			}
		}
		for i, img := range newImages {
			img.ProductID = p.ID
			img.SortOrder = maxOrder + 1 + i
			kept = append(kept, img)
		}
		f.images[p.ID] = kept
	}
	return nil
}

func (f *fakeWriter) DeleteCascade(id string) ([]domain.ProductImage, error) {
	if _, ok := f.products[id]; !ok {
		return nil, domain.ErrProductNotFound
	}
	images := f.images[id]
	delete(f.products, id)
	delete(f.links, id)
	delete(f.images, id)
	return images, nil
}

func (f *fakeWriter) BulkDelete(ids []string) ([]string, []domain.ProductImage, error) {
	var (
		deleted []string
		images  []domain.ProductImage
	)
	for _, id := range ids {
		if _, ok := f.products[id]; !ok {
			continue
		}
		deleted = append(deleted, id)
		images = append(images, f.images[id]...)
		delete(f.products, id)
		delete(f.links, id)
		delete(f.images, id)
	}
	return deleted, images, nil
}

// fakeStore is an in-memory ImageStore tracking saved and deleted blobs.
type fakeStore struct {
	saved   []string
	deleted []string

	failAfter int // Save fails once this many files are stored; <0 never fails
}

func newFakeStore() *fakeStore {
	return &fakeStore{failAfter: -1}
}

func (f *fakeStore) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	if f.failAfter >= 0 && len(f.saved) >= f.failAfter {
		return "", errors.New("disk full")
	}
	url := fmt.Sprintf("/uploads/%s-%d", file.Filename, len(f.saved))
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStore) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// fakeEvents records published catalog events.
type fakeEvents struct {
	published []string // "eventType productID"
}

func (f *fakeEvents) PublishProductEvent(_ context.Context, eventType string, p *domain.Product) error {
	f.published = append(f.published, eventType+" "+p.ID)
	return nil
}

func file(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name}
}

func ptr[T any](v T) *T { return &v }
