package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/cache"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// ProductInput carries the writable product fields. Updates replace the
// record wholesale.
type ProductInput struct {
	Name        string
	Slug        string
	Price       float64
	SalePrice   float64
	Discount    float64
	Quantity    int
	Description string
	Images      []string
	CategoryID  uuid.UUID
	BrandID     uuid.UUID
	IsFeatured  bool
	IsActive    bool
}

// ProductService exposes catalog product operations with a read-through cache.
type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo  repository.ProductRepository
	cache *cache.Client
}

// NewProductService builds a ProductService with repository and cache.
func NewProductService(repo repository.ProductRepository, cache *cache.Client) ProductService {
	return &productService{repo: repo, cache: cache}
}

func (s *productService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("product:%s", id)
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	product := &model.Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Slug:        in.Slug,
		Price:       in.Price,
		SalePrice:   in.SalePrice,
		Discount:    in.Discount,
		Quantity:    in.Quantity,
		Description: in.Description,
		Images:      in.Images,
		CategoryID:  in.CategoryID,
		BrandID:     in.BrandID,
		IsFeatured:  in.IsFeatured,
		IsActive:    in.IsActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Product
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(product); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, productCacheTTL)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}

	product.Name = in.Name
	product.Slug = in.Slug
	product.Price = in.Price
	product.SalePrice = in.SalePrice
	product.Discount = in.Discount
	product.Quantity = in.Quantity
	product.Description = in.Description
	product.Images = in.Images
	product.CategoryID = in.CategoryID
	product.BrandID = in.BrandID
	product.IsFeatured = in.IsFeatured
	product.IsActive = in.IsActive

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return product, nil
}

// DeleteProduct removes the catalog record. Cart and wishlist references to
// the product are left in place; see the design notes on cascade behavior.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return apperrors.ErrProductNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
