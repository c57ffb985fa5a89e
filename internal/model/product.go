package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item referenced by carts and wishlists.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Price       float64   `json:"price" gorm:"not null"`
	SalePrice   float64   `json:"sale_price,omitempty"`
	Discount    float64   `json:"discount,omitempty"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Images      Images    `json:"images" gorm:"type:json;serializer:json"`
	CategoryID  uuid.UUID `json:"category_id" gorm:"type:char(36);index;not null"`
	BrandID     uuid.UUID `json:"brand_id" gorm:"type:char(36);index;not null"`
	IsFeatured  bool      `json:"is_featured"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Images is a list of image URLs stored as a JSON column.
type Images []string
