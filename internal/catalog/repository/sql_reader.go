package repository

import (
	"database/sql"
	"fmt"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// SQLProductReader implements domain.ProductReader over a plain
// database/sql pool. Reads run without a transaction; the per-product
// side-fetches are not snapshot-consistent with the listing query,
// which is acceptable for catalog display.
type SQLProductReader struct {
	db *sql.DB
}

func NewSQLProductReader(db *sql.DB) *SQLProductReader {
	return &SQLProductReader{db: db}
}

func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	var (
		p        domain.Product
		oldPrice sql.NullFloat64
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.Price, &oldPrice,
		&p.Quantity, &p.InStock, &p.LowStockThreshold,
		&p.Trending, &p.BestSeller, &p.NewArrival,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if oldPrice.Valid {
		p.OldPrice = &oldPrice.Float64
	}
	return &p, nil
}

// List executes the filtered, paginated listing query.
func (r *SQLProductReader) List(f domain.ListFilter) ([]domain.Product, error) {
	query, args := buildListQuery(f)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return products, nil
}

// CountFiltered counts the rows matching the same filters, ignoring
// pagination.
func (r *SQLProductReader) CountFiltered(f domain.ListFilter) (int64, error) {
	query, args := buildCountQuery(f)

	var count int64
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// FindByID fetches a single product row.
func (r *SQLProductReader) FindByID(id string) (*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	p, err := scanProduct(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// CategoriesFor returns the ordered category ids linked to a product.
func (r *SQLProductReader) CategoriesFor(productID string) ([]string, error) {
	rows, err := r.db.Query(
		"SELECT category_id FROM product_categories WHERE product_id = $1 ORDER BY category_id",
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ImagesFor returns a product's images in display order.
func (r *SQLProductReader) ImagesFor(productID string) ([]domain.ProductImage, error) {
	rows, err := r.db.Query(
		"SELECT id, product_id, url, type, sort_order FROM product_images WHERE product_id = $1 ORDER BY sort_order, id",
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch images: %w", err)
	}
	defer rows.Close()

	images := []domain.ProductImage{}
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Type, &img.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ListCategories returns all categories.
func (r *SQLProductReader) ListCategories() ([]domain.Category, error) {
	rows, err := r.db.Query("SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
