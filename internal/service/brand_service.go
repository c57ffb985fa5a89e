package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// BrandInput carries the writable brand fields.
type BrandInput struct {
	Name        string
	Image       string
	Description string
	Website     string
	IsFeatured  bool
}

// BrandService exposes brand CRUD.
type BrandService interface {
	CreateBrand(ctx context.Context, in BrandInput) (*model.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, in BrandInput) (*model.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error
}

type brandService struct {
	repo repository.BrandRepository
}

// NewBrandService creates a new brand service.
func NewBrandService(repo repository.BrandRepository) BrandService {
	return &brandService{repo: repo}
}

func (s *brandService) CreateBrand(ctx context.Context, in BrandInput) (*model.Brand, error) {
	brand := &model.Brand{
		ID:          uuid.New(),
		Name:        in.Name,
		Image:       in.Image,
		Description: in.Description,
		Website:     in.Website,
		IsFeatured:  in.IsFeatured,
	}
	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) GetBrand(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	brand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBrandNotFound
		}
		return nil, err
	}
	return brand, nil
}

func (s *brandService) ListBrands(ctx context.Context) ([]model.Brand, error) {
	return s.repo.List(ctx)
}

func (s *brandService) UpdateBrand(ctx context.Context, id uuid.UUID, in BrandInput) (*model.Brand, error) {
	brand, err := s.GetBrand(ctx, id)
	if err != nil {
		return nil, err
	}

	brand.Name = in.Name
	brand.Image = in.Image
	brand.Description = in.Description
	brand.Website = in.Website
	brand.IsFeatured = in.IsFeatured

	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, err
	}
	return brand, nil
}

func (s *brandService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return apperrors.ErrBrandNotFound
	}
	return nil
}
