package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/almast/trendmart/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// SQLProductReaderWithTracing wraps SQLProductReader so every read maps
// to a span. It satisfies domain.ProductReader and is the variant wired
// in production.
type SQLProductReaderWithTracing struct {
	*SQLProductReader
}

func NewSQLProductReaderWithTracing(reader *SQLProductReader) *SQLProductReaderWithTracing {
	return &SQLProductReaderWithTracing{SQLProductReader: reader}
}

func (r *SQLProductReaderWithTracing) span(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
	return span
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *SQLProductReaderWithTracing) List(f domain.ListFilter) ([]domain.Product, error) {
	span := r.span("repository.List",
		attribute.String("filter.search", f.Search),
		attribute.String("filter.status", f.Status),
		attribute.Bool("filter.admin", f.Admin),
		attribute.Int("filter.limit", f.Limit),
		attribute.Int("filter.offset", f.Offset),
	)
	products, err := r.SQLProductReader.List(f)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(products)))
	}
	finish(span, err)
	return products, err
}

func (r *SQLProductReaderWithTracing) CountFiltered(f domain.ListFilter) (int64, error) {
	span := r.span("repository.CountFiltered", attribute.Bool("filter.admin", f.Admin))
	count, err := r.SQLProductReader.CountFiltered(f)
	finish(span, err)
	return count, err
}

func (r *SQLProductReaderWithTracing) FindByID(id string) (*domain.Product, error) {
	span := r.span("repository.FindByID", attribute.String("product.id", id))
	product, err := r.SQLProductReader.FindByID(id)
	finish(span, err)
	return product, err
}

func (r *SQLProductReaderWithTracing) CategoriesFor(productID string) ([]string, error) {
	span := r.span("repository.CategoriesFor", attribute.String("product.id", productID))
	ids, err := r.SQLProductReader.CategoriesFor(productID)
	finish(span, err)
	return ids, err
}

func (r *SQLProductReaderWithTracing) ImagesFor(productID string) ([]domain.ProductImage, error) {
	span := r.span("repository.ImagesFor", attribute.String("product.id", productID))
	images, err := r.SQLProductReader.ImagesFor(productID)
	finish(span, err)
	return images, err
}

func (r *SQLProductReaderWithTracing) ListCategories() ([]domain.Category, error) {
	span := r.span("repository.ListCategories")
	categories, err := r.SQLProductReader.ListCategories()
	finish(span, err)
	return categories, err
}
