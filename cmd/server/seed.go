package main

import (
	"errors"
	"os"

	"gorm.io/gorm"

	catalogdomain "github.com/almast/trendmart/internal/catalog/domain"
	userdomain "github.com/almast/trendmart/internal/user/domain"
	"github.com/almast/trendmart/pkg/auth"
	"github.com/almast/trendmart/pkg/logger"
)

// seed creates the default admin account and a small starter catalog.
// It only runs against an empty database so restarts are safe.
func seed(db *gorm.DB, users userdomain.UserRepository) error {
	if err := seedAdmin(users); err != nil {
		return err
	}
	return seedCatalog(db)
}

func seedAdmin(users userdomain.UserRepository) error {
	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@trendmart.dev")
	_, err := users.FindByEmail(adminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, userdomain.ErrUserNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(getEnv("SEED_ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}
	admin := &userdomain.User{
		Email:     adminEmail,
		Password:  hashed,
		FirstName: "Admin",
		Role:      userdomain.RoleAdmin,
	}
	if err := users.Create(admin); err != nil {
		return err
	}
	logger.Logger.Info().Str("email", adminEmail).Msg("Seeded admin account")
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&catalogdomain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if os.Getenv("SEED_CATALOG") == "false" {
		return nil
	}

	categories := []catalogdomain.Category{
		{ID: "electronics", Name: "Electronics"},
		{ID: "apparel", Name: "Apparel"},
		{ID: "accessories", Name: "Accessories"},
		{ID: "home", Name: "Home & Living"},
	}
	products := []catalogdomain.Product{
		{
			ID:          "seed-wireless-headphones",
			Name:        "Wireless Headphones",
			Description: "Over-ear wireless headphones with active noise cancellation.",
			SKU:         "ELEC-HDPH-001",
			Price:       199.99,
			Quantity:    40,
			InStock:     true,
			Trending:    true,
		},
		{
			ID:          "seed-cotton-tshirt",
			Name:        "Classic Cotton T-Shirt",
			Description: "Soft 100% cotton tee in a relaxed fit.",
			SKU:         "APP-TSHR-001",
			Price:       24.5,
			Quantity:    120,
			InStock:     true,
			BestSeller:  true,
		},
		{
			ID:          "seed-leather-wallet",
			Name:        "Leather Wallet",
			Description: "Slim bifold wallet in full-grain leather.",
			SKU:         "ACC-WALL-001",
			Price:       59,
			Quantity:    0,
			InStock:     false,
			NewArrival:  true,
		},
	}
	links := []catalogdomain.ProductCategory{
		{ProductID: "seed-wireless-headphones", CategoryID: "electronics"},
		{ProductID: "seed-cotton-tshirt", CategoryID: "apparel"},
		{ProductID: "seed-leather-wallet", CategoryID: "accessories"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			if err := tx.FirstOrCreate(&categories[i], "id = ?", categories[i].ID).Error; err != nil {
				return err
			}
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
			image := catalogdomain.ProductImage{
				ProductID: products[i].ID,
				URL:       catalogdomain.PlaceholderImageURL,
				Type:      catalogdomain.ImageTypePrimary,
			}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
		}
		for i := range links {
			if err := tx.Create(&links[i]).Error; err != nil {
				return err
			}
		}
		logger.Logger.Info().Int("products", len(products)).Msg("Seeded starter catalog")
		return nil
	})
}
