package model

import (
	"time"

	"github.com/google/uuid"
)

// Brand is an independent catalog entity referenced by products.
type Brand struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Image       string    `json:"image" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Website     string    `json:"website,omitempty" gorm:"size:255"`
	IsFeatured  bool      `json:"is_featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
