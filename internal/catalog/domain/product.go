package domain

import (
	"context"
	"mime/multipart"
	"time"
)

// Product status values derived from inventory state at query time.
const (
	StatusActive     = "active"
	StatusOutOfStock = "out-of-stock"
	StatusDraft      = "draft"
)

// Image type tags. At most one image per product is tagged primary by
// convention; the rest form the gallery.
const (
	ImageTypePrimary = "primary"
	ImageTypeGallery = "gallery"
)

// PlaceholderImageURL is served when a product has no primary image.
const PlaceholderImageURL = "/uploads/placeholder.png"

// Product represents a catalog product.
type Product struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"not null"`
	Description       string    `json:"description"`
	SKU               string    `json:"sku" gorm:"uniqueIndex;not null"`
	Price             float64   `json:"price" gorm:"not null"`
	OldPrice          *float64  `json:"old_price,omitempty"`
	Quantity          int       `json:"quantity" gorm:"not null;default:0"`
	InStock           bool      `json:"in_stock" gorm:"not null;default:true"`
	LowStockThreshold int       `json:"low_stock_threshold" gorm:"not null;default:5"`
	Trending          bool      `json:"trending" gorm:"not null;default:false"`
	BestSeller        bool      `json:"best_seller" gorm:"not null;default:false"`
	NewArrival        bool      `json:"new_arrival" gorm:"not null;default:false"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Status derives the read-only product status from inventory state.
func (p *Product) Status() string {
	switch {
	case p.Quantity <= 0:
		return StatusOutOfStock
	case p.InStock:
		return StatusActive
	default:
		return StatusDraft
	}
}

// Category represents a product category.
type Category struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// ProductCategory links products and categories many-to-many. Rows are
// removed by the database when either side is deleted.
type ProductCategory struct {
	ProductID  string   `json:"product_id" gorm:"primaryKey"`
	CategoryID string   `json:"category_id" gorm:"primaryKey"`
	Product    Product  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Category   Category `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (ProductCategory) TableName() string {
	return "product_categories"
}

// ProductImage belongs to exactly one product. The database cascades
// row deletion with the product; the backing blob file does not cascade
// and must be removed explicitly.
type ProductImage struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	ProductID string  `json:"product_id" gorm:"index;not null"`
	URL       string  `json:"url" gorm:"not null"`
	Type      string  `json:"type" gorm:"not null;default:'gallery'"`
	SortOrder int     `json:"sort_order" gorm:"not null;default:0"`
	Product   Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (ProductImage) TableName() string {
	return "product_images"
}

// ProductView is the assembled read-model returned by listing and
// detail endpoints.
type ProductView struct {
	Product
	Status       string         `json:"status,omitempty"`
	Categories   []string       `json:"categories"`
	Images       []ProductImage `json:"images"`
	PrimaryImage string         `json:"primary_image"`
}

// ListFilter describes a catalog listing request. Boolean flags hold
// the raw query value and only constrain the result when literally
// "true". Status is honored on the admin listing only.
type ListFilter struct {
	Search     string
	Category   string
	Trending   string
	BestSeller string
	NewArrival string
	Status     string
	Limit      int
	Offset     int
	Admin      bool
}

// ProductReader is the read-side contract: filtered listing plus the
// per-product side-data used to assemble views.
type ProductReader interface {
	List(f ListFilter) ([]Product, error)
	CountFiltered(f ListFilter) (int64, error)
	FindByID(id string) (*Product, error)
	CategoriesFor(productID string) ([]string, error)
	ImagesFor(productID string) ([]ProductImage, error)
	ListCategories() ([]Category, error)
}

// ProductWriter is the write-side contract. Every mutation runs in a
// single transaction; partial writes never survive a failure.
type ProductWriter interface {
	FindByID(id string) (*Product, error)
	CreateWithAssociations(p *Product, categoryIDs []string, images []ProductImage) error
	UpdateWithAssociations(p *Product, categoryIDs []string, newImages []ProductImage) error
	DeleteCascade(id string) ([]ProductImage, error)
	BulkDelete(ids []string) (deleted []string, images []ProductImage, err error)
}

// ImageStore is the blob store holding uploaded image bytes, addressed
// by URL. Deletion is best-effort.
type ImageStore interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}
