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

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Image       string
}

// CategoryService exposes category CRUD.
type CategoryService interface {
	CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	category := &model.Category{
		ID:          uuid.New(),
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Image:       in.Image,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.List(ctx)
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*model.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Slug = in.Slug
	category.Description = in.Description
	category.Image = in.Image

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
