package query

import (
	"errors"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// fakeReader is an in-memory ProductReader with scriptable failures for
// the side-data fetches.
type fakeReader struct {
	products   []domain.Product
	categories map[string][]string
	images     map[string][]domain.ProductImage
	allCats    []domain.Category

	lastFilter    domain.ListFilter
	listErr       error
	categoriesErr error
	imagesErr     error
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		categories: map[string][]string{},
		images:     map[string][]domain.ProductImage{},
	}
}

func (f *fakeReader) List(filter domain.ListFilter) ([]domain.Product, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	end := filter.Offset + filter.Limit
	if filter.Offset >= len(f.products) {
		return nil, nil
	}
	if end > len(f.products) {
		end = len(f.products)
	}
	return f.products[filter.Offset:end], nil
}

func (f *fakeReader) CountFiltered(domain.ListFilter) (int64, error) {
	return int64(len(f.products)), nil
}

func (f *fakeReader) FindByID(id string) (*domain.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeReader) CategoriesFor(productID string) ([]string, error) {
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	if cats, ok := f.categories[productID]; ok {
		return cats, nil
	}
	return []string{}, nil
}

func (f *fakeReader) ImagesFor(productID string) ([]domain.ProductImage, error) {
	if f.imagesErr != nil {
		return nil, f.imagesErr
	}
	if imgs, ok := f.images[productID]; ok {
		return imgs, nil
	}
	return []domain.ProductImage{}, nil
}

func (f *fakeReader) ListCategories() ([]domain.Category, error) {
	return f.allCats, nil
}

var errBroken = errors.New("connection reset")
