package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/almast/trendmart/internal/catalog/domain"
)

// GormProductRepository implements domain.ProductWriter. Every mutation
// runs inside one transaction so a failing step leaves no partial rows.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Product{},
		&domain.Category{},
		&domain.ProductCategory{},
		&domain.ProductImage{},
	)
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateSKU
	}
	return err
}

func (r *GormProductRepository) FindByID(id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateWithAssociations inserts the product row, its category links
// and its image rows in one transaction.
func (r *GormProductRepository) CreateWithAssociations(p *domain.Product, categoryIDs []string, images []domain.ProductImage) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		for _, catID := range categoryIDs {
			link := domain.ProductCategory{ProductID: p.ID, CategoryID: catID}
			if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
				return err
			}
		}

		for i := range images {
			images[i].ProductID = p.ID
			images[i].SortOrder = i
			if err := tx.Omit(clause.Associations).Create(&images[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
	return translateError(err)
}

// UpdateWithAssociations saves the merged product row, replaces its
// category links wholesale and appends any new images after the current
// highest sort order. When new images arrive the stored primary row is
// removed first so the first new image becomes the sole primary.
func (r *GormProductRepository) UpdateWithAssociations(p *domain.Product, categoryIDs []string, newImages []domain.ProductImage) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(p).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.ProductCategory{}).Error; err != nil {
			return err
		}
		for _, catID := range categoryIDs {
			link := domain.ProductCategory{ProductID: p.ID, CategoryID: catID}
			if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
				return err
			}
		}

		if len(newImages) > 0 {
			if err := tx.Where("product_id = ? AND type = ?", p.ID, domain.ImageTypePrimary).
				Delete(&domain.ProductImage{}).Error; err != nil {
				return err
			}

			var maxSort int
			row := tx.Model(&domain.ProductImage{}).
				Where("product_id = ?", p.ID).
				Select("COALESCE(MAX(sort_order), -1)").
				Row()
			if err := row.Scan(&maxSort); err != nil {
				return err
			}

			for i := range newImages {
				newImages[i].ProductID = p.ID
				newImages[i].SortOrder = maxSort + 1 + i
				if err := tx.Omit(clause.Associations).Create(&newImages[i]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	return translateError(err)
}

// DeleteCascade removes the product row and returns the image rows that
// referenced it so the caller can clean up their blob files. The image
// fetch happens inside the same transaction as the delete.
func (r *GormProductRepository) DeleteCascade(id string) ([]domain.ProductImage, error) {
	var images []domain.ProductImage

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Find(&images).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&domain.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// BulkDelete removes all matching product rows in one statement and
// reports which ids actually existed, plus the image rows for blob
// cleanup. Unknown ids are silently skipped.
func (r *GormProductRepository) BulkDelete(ids []string) ([]string, []domain.ProductImage, error) {
	var (
		deleted []string
		images  []domain.ProductImage
	)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Product{}).
			Where("id IN ?", ids).
			Pluck("id", &deleted).Error; err != nil {
			return err
		}
		if len(deleted) == 0 {
			return nil
		}

		if err := tx.Where("product_id IN ?", deleted).Find(&images).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", deleted).Delete(&domain.Product{}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return deleted, images, nil
}
