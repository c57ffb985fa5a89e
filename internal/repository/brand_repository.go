package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// BrandRepository defines brand persistence operations.
type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error)
	List(ctx context.Context) ([]model.Brand, error)
	Update(ctx context.Context, brand *model.Brand) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type brandRepository struct {
	db *gorm.DB
}

// NewBrandRepository creates a new brand repository.
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *brandRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) List(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	if err := r.db.WithContext(ctx).Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) Update(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *brandRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Brand{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
