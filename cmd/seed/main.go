package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// Seeds the catalog with a starter data set and ensures an admin account
// exists. Safe to run repeatedly: existing records are left alone.
func main() {
	log.Println("Starting seed script...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.WishlistItem{},
		&model.CartItem{},
		&model.Category{},
		&model.Brand{},
		&model.Product{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()

	created, err := seedAdmin(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	if created {
		log.Println("Admin account created")
	} else {
		log.Println("Admin account already present")
	}

	categories, brands, products, err := seedCatalog(ctx, gormDB)
	if err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Categories created: %d", categories)
	log.Printf("  - Brands created: %d", brands)
	log.Printf("  - Products created: %d", products)
}

func seedAdmin(ctx context.Context, gormDB *gorm.DB) (bool, error) {
	userRepo := repository.NewUserRepository(gormDB)

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@storefront.local"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-now"
	}

	inUse, err := userRepo.EmailInUse(ctx, email)
	if err != nil {
		return false, err
	}
	if inUse {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return false, err
	}

	admin := &model.User{
		ID:           uuid.New(),
		Name:         model.Name{First: "Admin"},
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	return true, userRepo.Create(ctx, admin)
}

func seedCatalog(ctx context.Context, gormDB *gorm.DB) (categories, brands, products int, err error) {
	categoryRepo := repository.NewCategoryRepository(gormDB)
	brandRepo := repository.NewBrandRepository(gormDB)
	productRepo := repository.NewProductRepository(gormDB)

	electronics := model.Category{
		ID:          uuid.New(),
		Name:        "Electronics",
		Slug:        "electronics",
		Description: "Gadgets and devices",
	}
	apparel := model.Category{
		ID:          uuid.New(),
		Name:        "Apparel",
		Slug:        "apparel",
		Description: "Clothing and accessories",
	}
	for _, category := range []model.Category{electronics, apparel} {
		if err := categoryRepo.Create(ctx, &category); err != nil {
			if isDuplicate(err) {
				continue
			}
			return categories, brands, products, err
		}
		categories++
	}

	acme := model.Brand{
		ID:          uuid.New(),
		Name:        "Acme",
		Image:       "/images/brands/acme.png",
		Description: "Everything, in one catalog",
		Website:     "https://acme.example.com",
		IsFeatured:  true,
	}
	if err := brandRepo.Create(ctx, &acme); err != nil {
		if !isDuplicate(err) {
			return categories, brands, products, err
		}
	} else {
		brands++
	}

	starter := []model.Product{
		{
			ID:          uuid.New(),
			Name:        "Wireless Headphones",
			Slug:        "wireless-headphones",
			Price:       129.99,
			Quantity:    40,
			Description: "Over-ear wireless headphones with 30h battery life.",
			Images:      model.Images{"/images/products/headphones.png"},
			CategoryID:  electronics.ID,
			BrandID:     acme.ID,
			IsFeatured:  true,
			IsActive:    true,
		},
		{
			ID:          uuid.New(),
			Name:        "Canvas Tote Bag",
			Slug:        "canvas-tote-bag",
			Price:       24.50,
			Quantity:    120,
			Description: "Heavy-duty canvas tote with inner pocket.",
			Images:      model.Images{"/images/products/tote.png"},
			CategoryID:  apparel.ID,
			BrandID:     acme.ID,
			IsActive:    true,
		},
	}
	for _, product := range starter {
		if _, err := productRepo.FindBySlug(ctx, product.Slug); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return categories, brands, products, err
		}
		if err := productRepo.Create(ctx, &product); err != nil {
			if isDuplicate(err) {
				continue
			}
			return categories, brands, products, err
		}
		products++
	}

	return categories, brands, products, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
