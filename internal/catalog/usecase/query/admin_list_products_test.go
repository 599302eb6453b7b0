package query

import (
	"errors"
	"testing"

	"github.com/almast/trendmart/internal/catalog/domain"
)

func TestAdminListSetsAdminScope(t *testing.T) {
	repo := newFakeReader()
	handler := NewAdminListProductsHandler(repo)

	if _, err := handler.Handle(AdminListProductsQuery{Status: domain.StatusDraft}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !repo.lastFilter.Admin {
		t.Errorf("admin listing must set the admin scope")
	}
	if repo.lastFilter.Status != domain.StatusDraft {
		t.Errorf("status filter must pass through, got %q", repo.lastFilter.Status)
	}
}

func TestAdminListDerivedStatus(t *testing.T) {
	repo := newFakeReader()
	repo.products = []domain.Product{
		{ID: "active", SKU: "A", InStock: true, Quantity: 3},
		{ID: "oos", SKU: "B", InStock: true, Quantity: 0},
		{ID: "draft", SKU: "C", InStock: false, Quantity: 9},
	}
	handler := NewAdminListProductsHandler(repo)

	listing, err := handler.Handle(AdminListProductsQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	want := map[string]string{
		"active": domain.StatusActive,
		"oos":    domain.StatusOutOfStock,
		"draft":  domain.StatusDraft,
	}
	for _, v := range listing.Products {
		if v.Status != want[v.ID] {
			t.Errorf("%s: status = %q, want %q", v.ID, v.Status, want[v.ID])
		}
	}
}

func TestAdminListPaginationMetadata(t *testing.T) {
	repo := newFakeReader()
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5"} {
		repo.products = append(repo.products, product(id))
	}
	handler := NewAdminListProductsHandler(repo)

	listing, err := handler.Handle(AdminListProductsQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if listing.Total != 5 {
		t.Errorf("total = %d, want 5", listing.Total)
	}
	if listing.Limit != 2 || listing.Offset != 2 {
		t.Errorf("echoed pagination = %d/%d, want 2/2", listing.Limit, listing.Offset)
	}
	if !listing.HasMore {
		t.Errorf("offset 2 + limit 2 < total 5 must report more pages")
	}

	last, err := handler.Handle(AdminListProductsQuery{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if last.HasMore {
		t.Errorf("final page must not report more")
	}
}

func TestAdminListListFailure(t *testing.T) {
	repo := newFakeReader()
	repo.listErr = errBroken
	handler := NewAdminListProductsHandler(repo)

	if _, err := handler.Handle(AdminListProductsQuery{}); !errors.Is(err, errBroken) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
}

func TestGetProductViews(t *testing.T) {
	repo := newFakeReader()
	repo.products = []domain.Product{{ID: "p1", SKU: "A", InStock: true, Quantity: 0}}
	handler := NewGetProductHandler(repo)

	view, err := handler.Handle(GetProductQuery{ID: "p1"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if view.Status != "" {
		t.Errorf("public view must not expose status, got %q", view.Status)
	}

	adminView, err := handler.Handle(GetProductQuery{ID: "p1", Admin: true})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if adminView.Status != domain.StatusOutOfStock {
		t.Errorf("admin view status = %q, want %q", adminView.Status, domain.StatusOutOfStock)
	}

	if _, err := handler.Handle(GetProductQuery{ID: "ghost"}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestListCategories(t *testing.T) {
	repo := newFakeReader()
	repo.allCats = []domain.Category{{ID: "apparel", Name: "Apparel"}, {ID: "home", Name: "Home & Living"}}
	handler := NewListCategoriesHandler(repo)

	categories, err := handler.Handle(ListCategoriesQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(categories) != 2 || categories[0].ID != "apparel" {
		t.Errorf("categories = %+v", categories)
	}
}
